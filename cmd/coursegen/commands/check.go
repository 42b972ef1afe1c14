package commands

import (
	"errors"
	"fmt"
	"os"

	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/lint"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Only show errors, suppress warnings and info"`
	Fix    bool   `help:"Assign missing lesson uids automatically"`
	DryRun bool   `help:"Show what would be fixed without writing (requires --fix)"`

	Path string `arg:"" optional:"" help:"Path to check (file or directory). Defaults to docs/, content/, or curriculum/ when present."`
}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	if c.DryRun && !c.Fix {
		return errors.New("--dry-run requires --fix")
	}

	path := c.Path
	if path == "" {
		detected, found := lint.DetectDefaultPath()
		path = detected
		if root.Verbose && found {
			fmt.Fprintf(os.Stderr, "Detected content directory: %s\n", path)
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	cfg := &lint.Config{
		Quiet:  c.Quiet,
		Format: c.Format,
		Fix:    c.Fix,
		DryRun: c.DryRun,
	}
	linter := lint.NewLinter(cfg)

	if c.Fix {
		fixed, err := linter.Fix(path)
		if err != nil {
			return err
		}
		for _, p := range fixed {
			if c.DryRun {
				fmt.Printf("would fix: %s\n", p)
			} else {
				fmt.Printf("fixed: %s\n", p)
			}
		}
	}

	result, err := linter.LintPath(path)
	if err != nil {
		return err
	}
	if err := lint.NewFormatter(c.Format).Format(os.Stdout, result, path); err != nil {
		return err
	}
	if result.HasErrors() {
		return cerrors.ValidationFailed("content", fmt.Sprintf("%d lint errors", result.ErrorCount()))
	}
	return nil
}
