package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/instructa/coursegen/internal/content"
)

// StageName is a strongly-typed identifier for a build stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names, in pipeline order.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageScanContent   StageName = "scan_content"
	StageGitMetadata   StageName = "git_metadata"
	StageNavigation    StageName = "navigation"
	StageRenderPages   StageName = "render_pages"
	StageCopyAssets    StageName = "copy_assets"
	StageVerifyLinks   StageName = "verify_links"
	StageWriteReport   StageName = "write_report"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *buildState) error

// StageErrorKind classifies stage failures.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // build must abort
	StageErrorWarning  StageErrorKind = "warning"  // record and continue
	StageErrorCanceled StageErrorKind = "canceled" // context cancellation
)

// StageError is a structured error carrying classification and cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// buildState carries mutable state across stages.
type buildState struct {
	gen    *Generator
	report *BuildReport

	tree  *content.Tree
	nav   *navigation
	pages []*Page

	// emitted maps site-relative output paths to their source, for pruning
	// stale state store rows after the build.
	emitted map[string]struct{}

	start time.Time
}

func newBuildState(g *Generator, report *BuildReport) *buildState {
	return &buildState{
		gen:     g,
		report:  report,
		emitted: make(map[string]struct{}),
		start:   time.Now(),
	}
}

type stageDef struct {
	name StageName
	fn   Stage
}

// runStages executes stages in order, recording timing per stage and stopping
// on the first fatal or canceled error. Warning-classified errors are recorded
// and the pipeline continues.
func (g *Generator) runStages(ctx context.Context, bs *buildState, stages []stageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.report.addError(se)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)
		bs.report.StageDurations[st.name] = dur
		g.recorder.ObserveStageDuration(string(st.name), dur)

		if err == nil {
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.name, err)
		}
		switch se.Kind {
		case StageErrorWarning:
			bs.report.addWarning(se)
		default:
			bs.report.addError(se)
			return se
		}
	}
	return nil
}
