package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/lightkb/internal/build"
	"git.home.luguber.info/inful/lightkb/internal/config"
	"git.home.luguber.info/inful/lightkb/internal/daemon"
	"git.home.luguber.info/inful/lightkb/internal/document"
	"git.home.luguber.info/inful/lightkb/internal/linkcheck"
	"git.home.luguber.info/inful/lightkb/internal/logfields"
	"git.home.luguber.info/inful/lightkb/internal/metrics"
	"git.home.luguber.info/inful/lightkb/internal/search"
	"git.home.luguber.info/inful/lightkb/internal/wikilinks"
)

var CLI struct {
	Root    string `short:"r" help:"Knowledge base root directory" default:"."`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite an existing configuration file"`
	} `cmd:"" help:"Initialize a knowledge base in the root directory"`

	Build struct {
		Check bool `help:"Verify internal links in the generated site"`
	} `cmd:"" help:"Render all public documents to the output directory"`

	Watch struct {
		MetricsListen string `help:"Address for the Prometheus metrics endpoint (disabled when empty)"`
	} `cmd:"" help:"Watch the document tree and rebuild on changes"`

	Search struct {
		Query []string `arg:"" help:"Search terms"`
		JSON  bool     `help:"Emit results as JSON"`
	} `cmd:"" help:"Query the full-text search index"`

	List struct {
		Filter string `short:"f" help:"Only show documents matching this text"`
		Status string `short:"s" help:"Only show documents with this status (draft or public)"`
	} `cmd:"" help:"List documents in the knowledge base"`

	Links struct {
	} `cmd:"" help:"Report wikilinks that do not resolve to any document"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := config.Load(CLI.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lightkb: %v\n", err)
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.Log.Level = config.LogLevelDebug
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	switch kctx.Command() {
	case "init":
		if err := runInit(CLI.Root, CLI.Init.Force); err != nil {
			slog.Error("Init failed", logfields.Error(err))
			os.Exit(1)
		}
	case "build":
		if err := runBuild(cfg, CLI.Build.Check); err != nil {
			slog.Error("Build failed", logfields.Error(err))
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(cfg, CLI.Watch.MetricsListen); err != nil {
			slog.Error("Watch failed", logfields.Error(err))
			os.Exit(1)
		}
	case "search <query>":
		if err := runSearch(cfg, strings.Join(CLI.Search.Query, " "), CLI.Search.JSON); err != nil {
			slog.Error("Search failed", logfields.Error(err))
			os.Exit(1)
		}
	case "list":
		if err := runList(cfg, CLI.List.Filter, CLI.List.Status); err != nil {
			slog.Error("List failed", logfields.Error(err))
			os.Exit(1)
		}
	case "links":
		if err := runLinks(cfg); err != nil {
			slog.Error("Link report failed", logfields.Error(err))
			os.Exit(1)
		}
	}
}

const sampleDocument = `---
title: Welcome
status: public
tags: [getting-started]
created: %s
---

# Welcome

This is your knowledge base. Documents live in the docs directory as
Markdown files with a YAML frontmatter header.

Link between pages with wikilinks: [[Welcome]] points back here, and
[[Welcome|a custom label]] changes the link text.

Run the build command to render the site, or the watch command to
rebuild automatically while you edit.
`

func runInit(root string, force bool) error {
	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	if err := cfg.Save(root); err != nil {
		return err
	}

	docsRoot := cfg.DocsRootAbs(root)
	if err := os.MkdirAll(docsRoot, 0o755); err != nil {
		return fmt.Errorf("create docs directory: %w", err)
	}

	samplePath := filepath.Join(docsRoot, "welcome.md")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		content := fmt.Sprintf(sampleDocument, time.Now().Format("2006-01-02"))
		if err := os.WriteFile(samplePath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write sample document: %w", err)
		}
	}

	slog.Info("Knowledge base initialized",
		logfields.DocsRoot(docsRoot),
		slog.String("config", cfgPath))
	return nil
}

func runBuild(cfg *config.Config, check bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := build.NewService()
	result, err := svc.Run(ctx, build.Request{
		DocsRoot:   cfg.DocsRootAbs(CLI.Root),
		OutputRoot: cfg.OutputDirAbs(CLI.Root),
		SiteTitle:  cfg.Site.Title,
	})
	if err != nil {
		return err
	}

	store, err := search.Open(cfg.IndexPathAbs(CLI.Root))
	if err != nil {
		return err
	}
	defer store.Close()
	slugs := make([]string, 0, len(result.Documents))
	for _, doc := range result.Documents {
		if err := store.IndexDocument(doc.Slug(), doc.Title, doc.Body); err != nil {
			return fmt.Errorf("index %s: %w", doc.Path, err)
		}
		slugs = append(slugs, doc.Slug())
	}
	if err := store.Prune(slugs); err != nil {
		return err
	}

	if check {
		broken, err := linkcheck.VerifyTree(cfg.OutputDirAbs(CLI.Root))
		if err != nil {
			return err
		}
		for _, b := range broken {
			slog.Warn("Broken internal link",
				slog.String("page", b.Page),
				slog.String("href", b.Href))
		}
		if len(broken) > 0 {
			return fmt.Errorf("%d broken internal links", len(broken))
		}
	}
	return nil
}

func runWatch(cfg *config.Config, metricsListen string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if metricsListen != "" {
		reg := prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: metricsListen, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer srv.Close()
		slog.Info("Metrics endpoint listening", slog.String("addr", metricsListen))
	}

	store, err := search.Open(cfg.IndexPathAbs(CLI.Root), search.WithRecorder(recorder))
	if err != nil {
		return err
	}
	defer store.Close()

	svc := build.NewService(build.WithRecorder(recorder))
	coordinator, err := daemon.New(daemon.Options{
		DocsRoot:         cfg.DocsRootAbs(CLI.Root),
		OutputRoot:       cfg.OutputDirAbs(CLI.Root),
		SiteTitle:        cfg.Site.Title,
		Debounce:         cfg.Watch.Debounce.Duration,
		ScheduleInterval: cfg.Watch.ScheduleInterval.Duration,
		InitialBuild:     true,
	}, svc, store, daemon.WithRecorder(recorder))
	if err != nil {
		return err
	}

	return coordinator.Run(ctx)
}

func runSearch(cfg *config.Config, query string, asJSON bool) error {
	store, err := search.Open(cfg.IndexPathAbs(CLI.Root))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(query)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%.2f  %-30s %s\n", e.Score, e.Slug, e.Title)
		if e.Excerpt != "" {
			fmt.Printf("      %s\n", e.Excerpt)
		}
	}
	return nil
}

func runList(cfg *config.Config, filter, status string) error {
	docs, err := loadAll(cfg.DocsRootAbs(CLI.Root))
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if status != "" && string(doc.Status) != status {
			continue
		}
		if filter != "" && !doc.Matches(filter) {
			continue
		}
		fmt.Printf("%-8s %-30s %s\n", doc.Status, doc.Slug(), doc.Title)
	}
	return nil
}

func runLinks(cfg *config.Config) error {
	docs, err := loadAll(cfg.DocsRootAbs(CLI.Root))
	if err != nil {
		return err
	}
	reg := wikilinks.BuildRegistry(docs)

	total := 0
	for _, doc := range docs {
		for _, target := range reg.FindBrokenLinks(doc.Body) {
			fmt.Printf("%s: [[%s]] does not resolve\n", doc.Path, target)
			total++
		}
	}
	if total > 0 {
		return fmt.Errorf("%d unresolved wikilinks", total)
	}
	fmt.Println("all wikilinks resolve")
	return nil
}

// loadAll reads every markdown document under root, failing on the first
// document that does not parse.
func loadAll(root string) ([]*document.Document, error) {
	var docs []*document.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != build.DocExtension {
			return nil
		}
		doc, err := document.Load(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
