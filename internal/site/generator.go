// Package site turns a scanned curriculum tree into a static HTML site. The
// build is a staged pipeline: prepare the output directory, scan content,
// resolve git metadata, assemble navigation, render pages, copy assets,
// verify links, and persist the build report.
package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/instructa/coursegen/internal/buildstate"
	"github.com/instructa/coursegen/internal/config"
	"github.com/instructa/coursegen/internal/content"
	cerrors "github.com/instructa/coursegen/internal/errors"
	"github.com/instructa/coursegen/internal/events"
	"github.com/instructa/coursegen/internal/gitmeta"
	"github.com/instructa/coursegen/internal/linkverify"
	"github.com/instructa/coursegen/internal/logfields"
	"github.com/instructa/coursegen/internal/metrics"
)

// themeAssetsDir is where the embedded theme files land inside the output.
const themeAssetsDir = "assets"

// Generator builds the static site from configuration.
type Generator struct {
	cfg      *config.Config
	cfgHash  string
	layout   *template.Template
	recorder metrics.Recorder

	store       *buildstate.Store
	gitResolver *gitmeta.Resolver
	publisher   *events.Publisher
}

// NewGenerator constructs a Generator for the given configuration.
func NewGenerator(cfg *config.Config) (*Generator, error) {
	layout, err := newLayout()
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:      cfg,
		cfgHash:  configFingerprint(cfg),
		layout:   layout,
		recorder: metrics.NoopRecorder{},
	}, nil
}

// configFingerprint hashes the effective configuration. Incremental skips are
// only valid while the configuration that produced a page is unchanged.
func configFingerprint(cfg *config.Config) string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SetRecorder injects a metrics recorder. Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// SetStateStore injects the sqlite build-state store used for incremental
// rendering and build history.
func (g *Generator) SetStateStore(s *buildstate.Store) *Generator {
	g.store = s
	return g
}

// SetPublisher injects the build event publisher.
func (g *Generator) SetPublisher(p *events.Publisher) *Generator {
	g.publisher = p
	return g
}

// Config exposes the underlying configuration.
func (g *Generator) Config() *config.Config { return g.cfg }

// Build runs the full pipeline and returns the report. The report is non-nil
// even when the build fails; callers can inspect partial progress.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	buildID := uuid.NewString()
	report := newBuildReport(buildID)
	bs := newBuildState(g, report)

	slog.Info("starting site build",
		logfields.BuildID(buildID),
		logfields.Path(g.cfg.Output.Directory))

	stages := []stageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageScanContent, stageScanContent},
		{StageGitMetadata, stageGitMetadata},
		{StageNavigation, stageNavigation},
		{StageRenderPages, stageRenderPages},
		{StageCopyAssets, stageCopyAssets},
		{StageVerifyLinks, stageVerifyLinks},
		{StageWriteReport, stageWriteReport},
	}

	err := g.runStages(ctx, bs, stages)
	canceled := false
	var se *StageError
	if errors.As(err, &se) && se.Kind == StageErrorCanceled {
		canceled = true
	}
	report.finalize(canceled)

	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(string(report.Outcome))
	g.recordBuild(ctx, report)
	g.publishEvents(ctx, report)

	slog.Info("site build finished",
		logfields.BuildID(buildID),
		slog.String("outcome", string(report.Outcome)),
		logfields.Pages(report.PagesRendered),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))

	if err != nil {
		if se != nil {
			// Already-categorized errors surface as-is so exit codes stay
			// meaningful; everything else is a build failure.
			var ce *cerrors.CoursegenError
			if errors.As(se.Err, &ce) {
				return report, ce
			}
			return report, cerrors.BuildFailed(string(se.Stage), se.Err)
		}
		return report, cerrors.BuildFailed("pipeline", err)
	}
	return report, nil
}

// recordBuild persists the build outcome to the state store when present.
func (g *Generator) recordBuild(ctx context.Context, report *BuildReport) {
	if g.store == nil {
		return
	}
	rec := buildstate.BuildRecord{
		ID:         report.BuildID,
		StartedAt:  report.Start,
		FinishedAt: report.End,
		Outcome:    string(report.Outcome),
		Pages:      report.PagesRendered,
		Issues:     len(report.BrokenLinks),
	}
	if err := g.store.RecordBuild(ctx, rec); err != nil {
		slog.Warn("recording build history failed", logfields.Error(err))
	}
}

// publishEvents emits the build event and one event per broken link.
func (g *Generator) publishEvents(ctx context.Context, report *BuildReport) {
	if g.publisher == nil {
		return
	}
	ev := events.BuildEvent{
		BuildID:     report.BuildID,
		Outcome:     string(report.Outcome),
		Pages:       report.PagesRendered,
		BrokenLinks: len(report.BrokenLinks),
		DurationMS:  report.Duration().Milliseconds(),
		Timestamp:   report.End,
	}
	if err := g.publisher.PublishBuild(ctx, ev); err != nil {
		slog.Warn("publishing build event failed", logfields.Error(err))
		return
	}
	for _, bl := range report.BrokenLinks {
		if err := g.publisher.PublishBrokenLink(ctx, report.BuildID, bl); err != nil {
			slog.Warn("publishing broken link event failed", logfields.Error(err))
			return
		}
	}
}

func stagePrepareOutput(_ context.Context, bs *buildState) error {
	out := bs.gen.cfg.Output.Directory
	if bs.gen.cfg.Output.Clean {
		if err := os.RemoveAll(out); err != nil {
			return newFatalStageError(StagePrepareOutput, cerrors.OutputError("clean", err))
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return newFatalStageError(StagePrepareOutput, cerrors.OutputError("mkdir", err))
	}
	return nil
}

func stageScanContent(_ context.Context, bs *buildState) error {
	cfg := bs.gen.cfg
	includeMDX := cfg.Markdown.Format != config.FormatMD
	scanner := content.NewScanner(cfg.Content.Dir, content.ScanOptions{IncludeMDX: includeMDX})
	tree, err := scanner.Scan()
	if err != nil {
		return newFatalStageError(StageScanContent, err)
	}
	bs.tree = tree
	bs.report.Modules = len(tree.Modules)
	bs.report.Lessons = len(tree.AllLessons())
	slog.Debug("content scanned",
		slog.Int("modules", bs.report.Modules),
		slog.Int("lessons", bs.report.Lessons))
	return nil
}

func stageGitMetadata(_ context.Context, bs *buildState) error {
	if !bs.gen.cfg.Build.GitMetadata {
		return nil
	}
	resolver, err := gitmeta.NewResolver(bs.gen.cfg.Content.Dir)
	if err != nil {
		return newWarnStageError(StageGitMetadata, cerrors.GitMetadataError(err))
	}
	bs.gen.gitResolver = resolver
	for _, l := range bs.tree.AllLessons() {
		when, err := resolver.LastModified(l.RelativePath)
		if err != nil {
			slog.Debug("no git history for lesson", logfields.File(l.RelativePath))
			continue
		}
		l.LastModified = when
	}
	return nil
}

func stageNavigation(_ context.Context, bs *buildState) error {
	nav, err := bs.gen.buildNavigation(bs.tree)
	if err != nil {
		return newFatalStageError(StageNavigation, err)
	}
	bs.nav = nav
	pages, err := bs.gen.buildPages(bs.tree)
	if err != nil {
		return newFatalStageError(StageNavigation, err)
	}
	bs.pages = pages
	return nil
}

func stageRenderPages(ctx context.Context, bs *buildState) error {
	g := bs.gen
	for _, page := range bs.pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderPages, ctx.Err())
		default:
		}
		skipped, err := g.renderOne(ctx, bs, page)
		if err != nil {
			return newFatalStageError(StageRenderPages, err)
		}
		if skipped {
			bs.report.PagesSkipped++
		} else {
			bs.report.PagesRendered++
		}
		bs.emitted[page.OutputPath] = struct{}{}
	}
	g.recorder.AddPagesRendered(bs.report.PagesRendered)
	g.recorder.AddPagesSkipped(bs.report.PagesSkipped)

	if g.store != nil {
		if err := g.store.PrunePages(ctx, bs.emitted); err != nil {
			return newWarnStageError(StageRenderPages, cerrors.StateStoreError("prune", err))
		}
	}
	return nil
}

func stageVerifyLinks(ctx context.Context, bs *buildState) error {
	cfg := bs.gen.cfg
	if cfg.Markdown.BrokenLinks == config.BrokenLinksIgnore {
		return nil
	}
	verifier, err := linkverify.NewVerifier(cfg.Output.Directory, cfg.URL, cfg.BaseURL)
	if err != nil {
		return newWarnStageError(StageVerifyLinks, err)
	}
	broken, err := verifier.VerifyAll()
	if err != nil {
		return newWarnStageError(StageVerifyLinks, err)
	}
	bs.report.BrokenLinks = broken
	bs.gen.recorder.AddBrokenLinks(len(broken))
	if len(broken) == 0 {
		return nil
	}
	for _, bl := range broken {
		slog.Warn("broken internal link",
			logfields.Path(bl.SourcePage),
			logfields.URL(bl.Destination))
	}
	err = cerrors.New(cerrors.CategoryLink, cerrors.SeverityError, "internal links do not resolve").
		WithContext("count", len(broken))
	if cfg.Markdown.BrokenLinks == config.BrokenLinksThrow {
		return newFatalStageError(StageVerifyLinks, err)
	}
	return newWarnStageError(StageVerifyLinks, err)
}

func stageWriteReport(_ context.Context, bs *buildState) error {
	// Provisional outcome; Build finalizes again after metrics emission.
	bs.report.finalize(false)
	if err := bs.report.Persist(bs.gen.cfg.Output.Directory); err != nil {
		return newWarnStageError(StageWriteReport, err)
	}
	return nil
}

// copyFile copies src to dst, creating parent directories.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
