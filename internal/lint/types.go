package lint

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo indicates informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning indicates issues that should be fixed but don't block builds.
	SeverityWarning
	// SeverityError indicates issues that fail builds under a strict policy.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a file.
type Issue struct {
	FilePath string   `json:"file"`
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	Fix      string   `json:"fix,omitempty"`
	Line     int      `json:"line,omitempty"` // 0 for file-level issues
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue `json:"issues"`
	FilesTotal int     `json:"files_total"`
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int { return r.count(SeverityError) }

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int { return r.count(SeverityWarning) }

func (r *Result) count(sev Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// Rule checks one concern on a lesson file.
type Rule interface {
	// Name returns the rule identifier.
	Name() string
	// AppliesTo reports whether the rule wants to see this file at all.
	AppliesTo(path string) bool
	// Check inspects file content and reports issues.
	Check(path string, content []byte) ([]Issue, error)
}

// Config controls linting behavior.
type Config struct {
	// Quiet suppresses info and warning issues in results.
	Quiet bool
	// Format selects output formatting: text or json.
	Format string
	// Fix enables automatic fixes where a rule supports them.
	Fix bool
	// DryRun previews fixes without writing.
	DryRun bool
}
