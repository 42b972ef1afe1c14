package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyModule     = "module"
	KeyLesson     = "lesson"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRule       = "rule"
	KeyURL        = "url"
	KeyPages      = "pages"
	KeyIssues     = "issues"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Module(name string) slog.Attr    { return slog.String(KeyModule, name) }
func Lesson(name string) slog.Attr    { return slog.String(KeyLesson, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Rule(r string) slog.Attr         { return slog.String(KeyRule, r) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Issues(n int) slog.Attr          { return slog.Int(KeyIssues, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
