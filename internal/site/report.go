package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/instructa/coursegen/internal/linkverify"
)

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures metrics about a site generation run. It is persisted
// as build-report.json inside the output directory so downstream consumers
// can inspect the last build without re-running it.
type BuildReport struct {
	SchemaVersion int          `json:"schema_version"`
	BuildID       string       `json:"build_id"`
	Start         time.Time    `json:"start"`
	End           time.Time    `json:"end"`
	Outcome       BuildOutcome `json:"outcome"`

	Modules       int `json:"modules"`
	Lessons       int `json:"lessons"`
	PagesRendered int `json:"pages_rendered"`
	PagesSkipped  int `json:"pages_skipped"`
	AssetsCopied  int `json:"assets_copied"`

	BrokenLinks []linkverify.BrokenLink `json:"broken_links,omitempty"`

	StageDurations map[StageName]time.Duration `json:"-"`
	Errors         []string                    `json:"errors,omitempty"`
	Warnings       []string                    `json:"warnings,omitempty"`
}

const reportSchemaVersion = 1

// reportFileName is stable contract with consumers of the output directory.
const reportFileName = "build-report.json"

func newBuildReport(buildID string) *BuildReport {
	return &BuildReport{
		SchemaVersion:  reportSchemaVersion,
		BuildID:        buildID,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
	}
}

func (r *BuildReport) addError(err error)   { r.Errors = append(r.Errors, err.Error()) }
func (r *BuildReport) addWarning(err error) { r.Warnings = append(r.Warnings, err.Error()) }

// finalize stamps the end time and derives the overall outcome.
func (r *BuildReport) finalize(canceled bool) {
	r.End = time.Now()
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration is the wall-clock time of the run.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }

// reportSerializable augments the report with string-keyed stage durations in
// milliseconds, keeping the JSON shape stable across Go versions.
type reportSerializable struct {
	*BuildReport
	Stages map[string]float64 `json:"stages_ms"`
}

// Persist writes the report as JSON into dir.
func (r *BuildReport) Persist(dir string) error {
	ser := reportSerializable{BuildReport: r, Stages: make(map[string]float64, len(r.StageDurations))}
	for name, d := range r.StageDurations {
		ser.Stages[string(name)] = float64(d.Milliseconds())
	}
	data, err := json.MarshalIndent(ser, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(dir, reportFileName), data, 0o644); err != nil {
		return fmt.Errorf("write build report: %w", err)
	}
	return nil
}
