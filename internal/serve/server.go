// Package serve runs the local preview server: it serves the generated site,
// watches the content directory for changes, rebuilds with debouncing, and
// resyncs on a schedule as a safety net for missed filesystem events.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/instructa/coursegen/internal/config"
	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/logfields"
	"github.com/instructa/coursegen/internal/metrics"
	"github.com/instructa/coursegen/internal/site"
)

// buildStatus tracks the last build result for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildID  string
	lastBuildAt  time.Time
	hasGoodBuild bool
}

func (b *buildStatus) setResult(report *site.BuildReport, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastError = err
	if report != nil {
		b.lastBuildID = report.BuildID
		b.lastBuildAt = report.End
	}
	if err == nil {
		b.hasGoodBuild = true
	}
}

func (b *buildStatus) snapshot() (err error, buildID string, at time.Time, good bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError, b.lastBuildID, b.lastBuildAt, b.hasGoodBuild
}

// Server is the preview server.
type Server struct {
	cfg      *config.Config
	gen      *site.Generator
	recorder metrics.Recorder
	hub      *ReloadHub
	status   *buildStatus
}

// NewServer wires a preview server around a configured generator.
func NewServer(cfg *config.Config, gen *site.Generator) *Server {
	s := &Server{
		cfg:      cfg,
		gen:      gen,
		recorder: metrics.NoopRecorder{},
		status:   &buildStatus{},
	}
	if cfg.Serve.LiveReload {
		s.hub = NewReloadHub()
	}
	return s
}

// SetRecorder injects the metrics recorder shared with the generator.
func (s *Server) SetRecorder(r metrics.Recorder) *Server {
	if r != nil {
		s.recorder = r
	}
	return s
}

// Run builds once, then serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.rebuild(ctx, "initial")

	watcher, err := newContentWatcher(s.cfg.Content.Dir)
	if err != nil {
		return cerrors.ServeError(err)
	}
	defer watcher.Close()

	deb := NewDebouncer(0, 0)
	go deb.Run(ctx, func(reason string) { s.rebuild(ctx, reason) })
	go s.watchLoop(ctx, watcher, deb)

	if interval := s.cfg.ResyncInterval(); interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return cerrors.ServeError(fmt.Errorf("create scheduler: %w", err))
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(func() { deb.Trigger("resync") }),
			gocron.WithName("resync-build"),
		)
		if err != nil {
			return cerrors.ServeError(fmt.Errorf("schedule resync: %w", err))
		}
		scheduler.Start()
		defer func() { _ = scheduler.Shutdown() }()
		slog.Info("scheduled resync rebuilds", slog.Duration("interval", interval))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Serve.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("preview server listening",
		slog.Int("port", s.cfg.Serve.Port),
		logfields.Path(s.cfg.Output.Directory))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return cerrors.ServeError(err)
	}
}

// rebuild runs one build and records the outcome for health reporting.
func (s *Server) rebuild(ctx context.Context, trigger string) {
	s.recorder.IncRebuild(trigger)
	slog.Info("rebuilding site", slog.String("trigger", trigger))
	report, err := s.gen.Build(ctx)
	s.status.setResult(report, err)
	if err != nil {
		slog.Error("rebuild failed", logfields.Error(err))
		return
	}
	if s.hub != nil {
		s.hub.Broadcast()
	}
}

// Handler assembles the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	if s.cfg.Serve.Metrics {
		if pr, ok := s.recorder.(*metrics.PrometheusRecorder); ok {
			mux.Handle("/metrics", pr.Handler())
		}
	}
	if s.hub != nil {
		mux.Handle(reloadPath, s.hub)
	}
	mux.Handle("/", s.siteHandler())
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	lastErr, buildID, at, good := s.status.snapshot()
	body := map[string]any{
		"status":         "ok",
		"has_good_build": good,
	}
	if buildID != "" {
		body["last_build_id"] = buildID
		body["last_build_at"] = at
	}
	if lastErr != nil {
		body["status"] = "degraded"
		body["last_error"] = lastErr.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// siteHandler serves the generated site with pretty-URL resolution, honoring
// the configured base URL and injecting the live reload client into HTML.
func (s *Server) siteHandler() http.Handler {
	base := strings.TrimSuffix(s.cfg.BaseURL, "/")
	outDir := s.cfg.Output.Directory

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if base != "" {
			if !strings.HasPrefix(p, base+"/") && p != base {
				http.NotFound(w, r)
				return
			}
			p = strings.TrimPrefix(p, base)
		}
		p = path.Clean("/" + p)

		file := filepath.Join(outDir, filepath.FromSlash(strings.TrimPrefix(p, "/")))
		if st, err := os.Stat(file); err == nil && st.IsDir() {
			file = filepath.Join(file, "index.html")
		}
		if path.Ext(file) == "" {
			file += "/index.html"
		}

		if s.hub != nil && strings.HasSuffix(file, ".html") {
			data, err := os.ReadFile(file)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			out := strings.Replace(string(data), "</body>", reloadScript+"</body>", 1)
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(out))
			return
		}
		http.ServeFile(w, r, file)
	})
}

// watchLoop forwards relevant filesystem events to the debouncer and keeps
// the watcher covering newly created directories.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, deb *Debouncer) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			slog.Debug("content change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			deb.Trigger("watch")
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", logfields.Error(err))
		}
	}
}

// newContentWatcher watches the content directory tree recursively.
func newContentWatcher(dir string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != dir {
			return fs.SkipDir
		}
		return watcher.Add(p)
	})
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch content dir: %w", err)
	}
	return watcher, nil
}

// shouldIgnoreEvent filters editor temp files and hidden files out of the
// rebuild trigger path.
func shouldIgnoreEvent(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, "~") {
		return true
	}
	return false
}
