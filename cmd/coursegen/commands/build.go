package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const timeRounding = time.Millisecond

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Override the configured output directory"`
	Incremental bool   `short:"i" help:"Skip re-rendering pages with unchanged sources"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.Incremental {
		cfg.Build.Incremental = true
	}

	gen, cleanup, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := gen.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Built %d pages (%d skipped, %d assets) in %s -> %s\n",
		report.PagesRendered, report.PagesSkipped, report.AssetsCopied,
		report.Duration().Round(timeRounding), cfg.Output.Directory)
	if len(report.BrokenLinks) > 0 {
		fmt.Printf("Warning: %d broken internal links (see build-report.json)\n", len(report.BrokenLinks))
	}
	return nil
}
