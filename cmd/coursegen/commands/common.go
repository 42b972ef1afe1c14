package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/instructa/coursegen/internal/buildstate"
	"github.com/instructa/coursegen/internal/config"
	"github.com/instructa/coursegen/internal/events"
	"github.com/instructa/coursegen/internal/logfields"
	"github.com/instructa/coursegen/internal/site"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file path" default:"course.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the static site from the content directory"`
	Check CheckCmd `cmd:"" help:"Lint curriculum content against the lesson template"`
	Serve ServeCmd `cmd:"" help:"Serve the site locally with rebuild on change"`
	New   NewCmd   `cmd:"" help:"Scaffold a new lesson or module"`
	Init  InitCmd  `cmd:"" help:"Initialize a starter site configuration file"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the site configuration after picking up .env overrides.
func loadConfig(path string) (*config.Config, error) {
	config.LoadDotEnv()
	return config.Load(path)
}

// newGenerator wires a generator with the optional state store and event
// publisher from configuration. The returned cleanup closes both.
func newGenerator(cfg *config.Config) (*site.Generator, func(), error) {
	gen, err := site.NewGenerator(cfg)
	if err != nil {
		return nil, nil, err
	}

	var store *buildstate.Store
	if cfg.Build.StateDB != "" {
		store, err = buildstate.Open(cfg.Build.StateDB)
		if err != nil {
			return nil, nil, err
		}
		gen.SetStateStore(store)
	}

	var publisher *events.Publisher
	if cfg.Events != nil && cfg.Events.Enabled {
		publisher, err = events.NewPublisher(cfg.Events)
		if err != nil {
			// Event publishing is best-effort; the build itself must not
			// depend on broker availability.
			slog.Warn("event publisher unavailable", logfields.Error(err))
		} else {
			gen.SetPublisher(publisher)
		}
	}

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
		if publisher != nil {
			publisher.Close()
		}
	}
	return gen, cleanup, nil
}
