package errors

import (
	stderrors "errors"
	"fmt"
)

// ExitCodeFor determines the process exit code for an error.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var ce *CoursegenError
	if !stderrors.As(err, &ce) {
		return 1
	}

	switch ce.Category {
	case CategoryValidation:
		return 2 // Invalid usage or invalid content
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryLink:
		return 9 // Broken links under a throw policy
	case CategoryBuild, CategoryRender, CategoryFileSystem:
		return 11 // Build error
	case CategoryServe:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1
	}
}

// FormatForCLI formats an error for user-facing display. With verbose set,
// structured context fields are appended.
func FormatForCLI(err error, verbose bool) string {
	if err == nil {
		return ""
	}

	var ce *CoursegenError
	if !stderrors.As(err, &ce) {
		return err.Error()
	}

	msg := ce.Error()
	if verbose && len(ce.Context) > 0 {
		for k, v := range ce.Context {
			msg += fmt.Sprintf("\n  %s: %v", k, v)
		}
	}
	return msg
}
