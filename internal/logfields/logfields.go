// Package logfields defines canonical slog attribute helpers so field names
// do not drift across packages.
package logfields

import "log/slog"

const (
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyDoc        = "document"
	KeyJobID      = "job_id"
	KeyTrigger    = "trigger"
	KeyDurationMS = "duration_ms"
	KeyDocsRoot   = "docs_root"
	KeyOutputRoot = "output_root"
	KeyCount      = "count"
	KeyQuery      = "query"
	KeyError      = "error"
)

func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Doc(title string) slog.Attr      { return slog.String(KeyDoc, title) }
func JobID(id string) slog.Attr       { return slog.String(KeyJobID, id) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func DocsRoot(p string) slog.Attr     { return slog.String(KeyDocsRoot, p) }
func OutputRoot(p string) slog.Attr   { return slog.String(KeyOutputRoot, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Query(q string) slog.Attr        { return slog.String(KeyQuery, q) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
