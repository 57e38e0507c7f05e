package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"git.home.luguber.info/inful/lightkb/internal/apperr"
	"git.home.luguber.info/inful/lightkb/internal/document"
	"git.home.luguber.info/inful/lightkb/internal/logfields"
	"git.home.luguber.info/inful/lightkb/internal/metrics"
	"git.home.luguber.info/inful/lightkb/internal/render"
	"git.home.luguber.info/inful/lightkb/internal/wikilinks"
)

// DocExtension is the source document file extension.
const DocExtension = ".md"

// DefaultService is the production build pipeline.
type DefaultService struct {
	renderer *render.Renderer
	recorder metrics.Recorder
}

// Option configures a DefaultService.
type Option func(*DefaultService)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *DefaultService) { s.recorder = r }
}

// NewService creates the build pipeline with a fresh renderer.
func NewService(opts ...Option) *DefaultService {
	s := &DefaultService{
		renderer: render.New(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the two-pass build.
//
// Pass one loads every document under DocsRoot (fail-fast: any load error
// aborts the build, no partial output is produced for the failing set) and
// builds the link registry from the full set, so wikilinks resolve
// independently of walk order. Pass two renders and writes public
// documents and the index page. Draft documents are loaded for link
// resolution but never written.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	result, err := s.run(ctx, req)
	status := "success"
	if err != nil {
		status = "failure"
		s.recorder.RecordBuild(status, time.Since(start), 0, 0)
		return nil, err
	}

	result.StartTime = start
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)
	s.recorder.RecordBuild(status, result.Duration, len(result.Documents), result.Written)

	slog.Info("Build completed",
		logfields.DocsRoot(req.DocsRoot),
		logfields.OutputRoot(req.OutputRoot),
		logfields.Count(len(result.Documents)),
		slog.Int("written", result.Written),
		slog.Int("unchanged", result.Unchanged),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (s *DefaultService) run(ctx context.Context, req Request) (*Result, error) {
	paths, err := enumerateDocs(req.DocsRoot)
	if err != nil {
		return nil, fmt.Errorf("build: enumerate %s: %w", req.DocsRoot, err)
	}

	// Pass one: load everything, fail-fast.
	docs := make([]*document.Document, 0, len(paths))
	slugSource := make(map[string]string, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := document.Load(path)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		slug := doc.Slug()
		if prev, dup := slugSource[slug]; dup {
			return nil, apperr.New(apperr.CategoryBuild,
				fmt.Sprintf("slug %q collides: %s and %s", slug, prev, path)).Build()
		}
		slugSource[slug] = path
		docs = append(docs, doc)
	}

	registry := wikilinks.BuildRegistry(docs)

	if err := os.MkdirAll(req.OutputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("build: create output root: %w", err)
	}

	// Pass two: render and write public documents.
	result := &Result{Documents: docs}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if doc.Status != document.StatusPublic {
			continue
		}

		rel, err := filepath.Rel(req.DocsRoot, doc.Path)
		if err != nil {
			return nil, fmt.Errorf("build: relativize %s: %w", doc.Path, err)
		}

		page, err := s.renderer.Page(doc, registry, indexHref(rel))
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		outPath := filepath.Join(req.OutputRoot, swapExtension(rel))

		wrote, err := writeIfChanged(outPath, []byte(page))
		if err != nil {
			return nil, fmt.Errorf("build: write %s: %w", outPath, err)
		}
		if wrote {
			result.Written++
			slog.Debug("Rendered page", logfields.Path(doc.Path), slog.String("output", outPath))
		} else {
			result.Unchanged++
		}
	}

	if err := writeIndexPage(req, docs); err != nil {
		return nil, err
	}

	return result, nil
}

// enumerateDocs returns every document file under root in lexical walk
// order.
func enumerateDocs(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), DocExtension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func swapExtension(rel string) string {
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
}

// indexHref returns the relative path from a page at rel (relative to the
// output root) back to the root index.html.
func indexHref(rel string) string {
	depth := strings.Count(filepath.ToSlash(rel), "/")
	return strings.Repeat("../", depth) + "index.html"
}

// writeIfChanged writes content to path unless the existing file already
// has identical content, comparing xxhash digests. This keeps watch cycles
// from churning mtimes on unchanged pages.
func writeIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil {
		if xxhash.Sum64(existing) == xxhash.Sum64(content) {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
