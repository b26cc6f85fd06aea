package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyDocument   = "document"
	KeyTool       = "tool"
	KeyPass       = "pass"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Document(name string) slog.Attr   { return slog.String(KeyDocument, name) }
func Tool(name string) slog.Attr       { return slog.String(KeyTool, name) }
func Pass(n int) slog.Attr             { return slog.Int(KeyPass, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Output(dir string) slog.Attr      { return slog.String(KeyOutput, dir) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
