package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyStage      = "stage"
	KeyTag        = "tag"
	KeyRecipient  = "recipient"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyOutput     = "output"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr      { return slog.String(KeySlug, s) }
func Stage(name string) slog.Attr  { return slog.String(KeyStage, name) }
func Tag(t string) slog.Attr       { return slog.String(KeyTag, t) }
func Recipient(r string) slog.Attr { return slog.String(KeyRecipient, r) }
func Count(n int) slog.Attr        { return slog.Int(KeyCount, n) }
func Output(dir string) slog.Attr  { return slog.String(KeyOutput, dir) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
