package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/instructa/coursegen/internal/metrics"
	"github.com/instructa/coursegen/internal/serve"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port int `short:"p" help:"Override the configured port"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}

	gen, cleanup, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := serve.NewServer(cfg, gen)
	if cfg.Serve.Metrics {
		recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
		gen.SetRecorder(recorder)
		srv.SetRecorder(recorder)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving %s on http://localhost:%d%s\n", cfg.Title, cfg.Serve.Port, cfg.BaseURL)
	return srv.Run(ctx)
}
