// Package build provides the canonical site build pipeline. All execution
// paths (CLI, watch coordinator, tests) route through Service.
package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/lightkb/internal/document"
)

// Service is the interface for executing full site builds.
type Service interface {
	// Run executes a complete build: enumerate -> load -> resolve links ->
	// render -> write output tree -> index page. It returns every loaded
	// document (draft and public); the caller is responsible for feeding
	// them to the search index.
	Run(ctx context.Context, req Request) (*Result, error)
}

// Request contains all inputs required to execute a build.
type Request struct {
	// DocsRoot is the directory tree holding source documents.
	DocsRoot string

	// OutputRoot is the target directory for rendered HTML.
	OutputRoot string

	// SiteTitle is used for the generated index page.
	SiteTitle string
}

// Result contains the outcome of a build execution.
type Result struct {
	// Documents is every loaded document, draft and public.
	Documents []*document.Document

	// Written is the count of HTML pages written.
	Written int

	// Unchanged is the count of public pages skipped because the rendered
	// output was byte-identical to what is already on disk.
	Unchanged int

	// Duration is the total build execution time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time

	// EndTime is when the build completed.
	EndTime time.Time
}
