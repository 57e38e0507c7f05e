// Package daemon runs the watch/rebuild coordinator: it observes
// filesystem changes under the docs root, debounces them, and executes a
// full build plus reindex cycle.
//
// The coordinator is the single writer for the output tree and the search
// index. It runs on one goroutine for its entire lifetime; rebuilds are
// synchronous within that goroutine, so concurrent rebuilds cannot happen
// by construction. Other components observe it only through the Results
// channel.
package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/lightkb/internal/build"
	"git.home.luguber.info/inful/lightkb/internal/logfields"
	"git.home.luguber.info/inful/lightkb/internal/metrics"
)

// Indexer feeds the document list of a completed build into the search
// index. *search.Store satisfies it.
type Indexer interface {
	IndexDocument(slug, title, content string) error
	// Prune drops every indexed slug not in keep.
	Prune(keep []string) error
}

// Options configures the coordinator.
type Options struct {
	DocsRoot   string
	OutputRoot string
	SiteTitle  string

	// Debounce is the quiet window after the first relevant event before
	// the rebuild starts. Events inside the window coalesce.
	Debounce time.Duration

	// ScheduleInterval, when positive, also triggers rebuild cycles on a
	// fixed period. Zero disables the schedule.
	ScheduleInterval time.Duration

	// InitialBuild runs one cycle on startup before watching.
	InitialBuild bool
}

// CycleResult reports one completed rebuild cycle.
type CycleResult struct {
	JobID    string
	Trigger  string
	Result   *build.Result
	Err      error
	Duration time.Duration
}

// Coordinator is the watch/rebuild state machine: idle until a relevant
// event arrives, then debouncing, then rebuilding, then idle again.
type Coordinator struct {
	opts     Options
	builder  build.Service
	indexer  Indexer
	recorder metrics.Recorder

	kick    chan string
	results chan CycleResult
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// New creates a coordinator. builder and indexer are required.
func New(opts Options, builder build.Service, indexer Indexer, copts ...Option) (*Coordinator, error) {
	if builder == nil {
		return nil, fmt.Errorf("daemon: builder is required")
	}
	if indexer == nil {
		return nil, fmt.Errorf("daemon: indexer is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	c := &Coordinator{
		opts:     opts,
		builder:  builder,
		indexer:  indexer,
		recorder: metrics.NoopRecorder{},
		kick:     make(chan string, 1),
		results:  make(chan CycleResult, 16),
	}
	for _, o := range copts {
		o(c)
	}
	return c, nil
}

// Results delivers a CycleResult per completed rebuild. The channel is
// buffered; results are dropped rather than blocking the coordinator when
// nobody is receiving.
func (c *Coordinator) Results() <-chan CycleResult {
	return c.results
}

// Run watches the docs root and rebuilds until ctx is cancelled. Rebuild
// failures are logged and do not terminate the loop; only watcher setup
// errors and cancellation end it.
func (c *Coordinator) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("daemon: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirsRecursive(watcher, c.opts.DocsRoot); err != nil {
		return fmt.Errorf("daemon: watch %s: %w", c.opts.DocsRoot, err)
	}

	scheduler, err := c.startScheduler()
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	slog.Info("Watching for changes", logfields.DocsRoot(c.opts.DocsRoot))

	if c.opts.InitialBuild {
		c.rebuild(ctx, "startup")
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watcher stopped")
			return nil

		case trigger := <-c.kick:
			c.debounce(ctx, watcher)
			c.rebuild(ctx, trigger)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !c.handleEvent(watcher, ev) {
				continue
			}
			c.recorder.RecordWatchEvent()
			c.debounce(ctx, watcher)
			c.rebuild(ctx, "fs")

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("Watcher error", logfields.Error(werr))
		}
	}
}

// debounce waits out the quiet window, coalescing further events, then
// drains anything still queued so one burst produces one rebuild.
func (c *Coordinator) debounce(ctx context.Context, watcher *fsnotify.Watcher) {
	timer := time.NewTimer(c.opts.Debounce)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			// Drain whatever queued up during the window.
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					c.handleEvent(watcher, ev)
				case <-c.kick:
				default:
					return
				}
			}
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			c.handleEvent(watcher, ev)
		case <-c.kick:
		}
	}
}

// handleEvent reports whether the event is relevant to document content.
// Newly created directories are added to the watch list either way.
func (c *Coordinator) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addDirsRecursive(watcher, ev.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
			return true
		}
	}

	// A removed or renamed path is gone, so it cannot be stat'ed; one
	// without an extension was a directory, and a directory leaving the
	// tree takes its documents with it.
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(ev.Name) == "" {
		return true
	}

	return strings.EqualFold(filepath.Ext(ev.Name), build.DocExtension)
}

// rebuild runs one synchronous build + reindex cycle.
func (c *Coordinator) rebuild(ctx context.Context, trigger string) {
	jobID := uuid.NewString()
	start := time.Now()

	slog.Info("Rebuild started", logfields.JobID(jobID), logfields.Trigger(trigger))

	result, err := c.builder.Run(ctx, build.Request{
		DocsRoot:   c.opts.DocsRoot,
		OutputRoot: c.opts.OutputRoot,
		SiteTitle:  c.opts.SiteTitle,
	})
	if err == nil {
		err = c.reindex(result)
	}

	cycle := CycleResult{
		JobID:    jobID,
		Trigger:  trigger,
		Result:   result,
		Err:      err,
		Duration: time.Since(start),
	}

	if err != nil {
		// Non-fatal: log and return to idle, the next edit retries.
		slog.Error("Rebuild failed",
			logfields.JobID(jobID),
			logfields.Trigger(trigger),
			logfields.Error(err))
	} else {
		slog.Info("Rebuild completed",
			logfields.JobID(jobID),
			logfields.Count(len(result.Documents)),
			logfields.DurationMS(float64(cycle.Duration.Milliseconds())))
	}

	select {
	case c.results <- cycle:
	default:
	}
}

func (c *Coordinator) reindex(result *build.Result) error {
	start := time.Now()
	slugs := make([]string, 0, len(result.Documents))
	for _, doc := range result.Documents {
		if err := c.indexer.IndexDocument(doc.Slug(), doc.Title, doc.Body); err != nil {
			return fmt.Errorf("daemon: reindex %s: %w", doc.Path, err)
		}
		slugs = append(slugs, doc.Slug())
	}
	// Deleted documents must stop matching.
	if err := c.indexer.Prune(slugs); err != nil {
		return fmt.Errorf("daemon: prune index: %w", err)
	}
	c.recorder.RecordIndexCycle(time.Since(start), len(result.Documents))
	return nil
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
