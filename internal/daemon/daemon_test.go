package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lightkb/internal/build"
	"git.home.luguber.info/inful/lightkb/internal/document"
)

type fakeBuilder struct {
	runs int64
	err  error
	docs []*document.Document
}

func (f *fakeBuilder) Run(ctx context.Context, req build.Request) (*build.Result, error) {
	atomic.AddInt64(&f.runs, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &build.Result{Documents: f.docs}, nil
}

func (f *fakeBuilder) Runs() int64 { return atomic.LoadInt64(&f.runs) }

type fakeIndexer struct {
	mu      sync.Mutex
	indexed int64
	kept    []string
	err     error
}

func (f *fakeIndexer) IndexDocument(slug, title, content string) error {
	if f.err != nil {
		return f.err
	}
	atomic.AddInt64(&f.indexed, 1)
	return nil
}

func (f *fakeIndexer) Prune(keep []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kept = append([]string(nil), keep...)
	return nil
}

func (f *fakeIndexer) Kept() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kept
}

func startCoordinator(t *testing.T, docsRoot string, builder *fakeBuilder, indexer *fakeIndexer) *Coordinator {
	t.Helper()
	c, err := New(Options{
		DocsRoot:   docsRoot,
		OutputRoot: t.TempDir(),
		Debounce:   150 * time.Millisecond,
	}, builder, indexer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("coordinator did not stop")
		}
	})

	// Give the watcher a moment to register before events fire.
	time.Sleep(100 * time.Millisecond)
	return c
}

func waitForCycle(t *testing.T, c *Coordinator) CycleResult {
	t.Helper()
	select {
	case res := <-c.Results():
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild cycle observed")
		return CycleResult{}
	}
}

func TestCoordinator_BurstOfEventsTriggersOneRebuild(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{}
	c := startCoordinator(t, docsRoot, builder, &fakeIndexer{})

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, os.WriteFile(
			filepath.Join(docsRoot, name), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	res := waitForCycle(t, c)
	require.NoError(t, res.Err)
	require.Equal(t, "fs", res.Trigger)
	require.NotEmpty(t, res.JobID)

	// Quiet period: no further cycles from the same burst.
	select {
	case extra := <-c.Results():
		t.Fatalf("unexpected extra rebuild: %+v", extra)
	case <-time.After(400 * time.Millisecond):
	}
	require.Equal(t, int64(1), builder.Runs())
}

func TestCoordinator_IrrelevantFilesIgnored(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{}
	c := startCoordinator(t, docsRoot, builder, &fakeIndexer{})

	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "scratch.txt"), []byte("x"), 0o644))

	select {
	case res := <-c.Results():
		t.Fatalf("unexpected rebuild for non-document file: %+v", res)
	case <-time.After(500 * time.Millisecond):
	}
	require.Equal(t, int64(0), builder.Runs())
}

func TestCoordinator_FailedRebuildKeepsWatching(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{err: errors.New("broken document")}
	c := startCoordinator(t, docsRoot, builder, &fakeIndexer{})

	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "bad.md"), []byte("x"), 0o644))
	res := waitForCycle(t, c)
	require.Error(t, res.Err)

	// The coordinator must survive the failure and run the next cycle.
	builder.err = nil
	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "good.md"), []byte("y"), 0o644))
	res = waitForCycle(t, c)
	require.NoError(t, res.Err)
	require.Equal(t, int64(2), builder.Runs())
}

func TestCoordinator_ReindexesReturnedDocuments(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{docs: []*document.Document{
		{Path: "a.md", Title: "A", Body: "alpha"},
		{Path: "b.md", Title: "B", Body: "beta"},
	}}
	indexer := &fakeIndexer{}
	c := startCoordinator(t, docsRoot, builder, indexer)

	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "a.md"), []byte("x"), 0o644))
	res := waitForCycle(t, c)
	require.NoError(t, res.Err)
	require.Equal(t, int64(2), atomic.LoadInt64(&indexer.indexed))
	require.ElementsMatch(t, []string{"a", "b"}, indexer.Kept())
}

func TestCoordinator_IndexErrorSurfacesInCycle(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{docs: []*document.Document{{Path: "a.md", Title: "A", Body: "alpha"}}}
	indexer := &fakeIndexer{err: errors.New("store closed")}
	c := startCoordinator(t, docsRoot, builder, indexer)

	require.NoError(t, os.WriteFile(filepath.Join(docsRoot, "a.md"), []byte("x"), 0o644))
	res := waitForCycle(t, c)
	require.Error(t, res.Err)
	require.Contains(t, res.Err.Error(), "reindex")
}

func TestCoordinator_InitialBuild(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{}
	indexer := &fakeIndexer{}

	c, err := New(Options{
		DocsRoot:     docsRoot,
		OutputRoot:   t.TempDir(),
		Debounce:     150 * time.Millisecond,
		InitialBuild: true,
	}, builder, indexer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	res := waitForCycle(t, c)
	require.NoError(t, res.Err)
	require.Equal(t, "startup", res.Trigger)
}

func TestCoordinator_NewSubdirectoryIsWatched(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{}
	c := startCoordinator(t, docsRoot, builder, &fakeIndexer{})

	sub := filepath.Join(docsRoot, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	res := waitForCycle(t, c) // directory creation is itself relevant
	require.NoError(t, res.Err)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "new.md"), []byte("x"), 0o644))
	res = waitForCycle(t, c)
	require.NoError(t, res.Err)
}

func TestCoordinator_DirectoryMovedOutTriggersRebuild(t *testing.T) {
	docsRoot := t.TempDir()
	builder := &fakeBuilder{}
	c := startCoordinator(t, docsRoot, builder, &fakeIndexer{})

	section := filepath.Join(docsRoot, "section")
	require.NoError(t, os.Mkdir(section, 0o755))
	res := waitForCycle(t, c)
	require.NoError(t, res.Err)

	require.NoError(t, os.WriteFile(filepath.Join(section, "page.md"), []byte("x"), 0o644))
	res = waitForCycle(t, c)
	require.NoError(t, res.Err)

	// Moving the directory out of the tree must rebuild, or its rendered
	// pages and index entries go stale.
	require.NoError(t, os.Rename(section, filepath.Join(t.TempDir(), "section")))
	res = waitForCycle(t, c)
	require.NoError(t, res.Err)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Options{}, nil, &fakeIndexer{})
	require.Error(t, err)
	_, err = New(Options{}, &fakeBuilder{}, nil)
	require.Error(t, err)
}
