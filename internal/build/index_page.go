package build

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/lightkb/internal/document"
)

type indexEntry struct {
	Title   string
	Href    string
	Created string
	Filter  string
}

type indexData struct {
	SiteTitle string
	Entries   []indexEntry
}

// writeIndexPage generates index.html at the output root listing every
// public document with a client-side text filter over the listing.
func writeIndexPage(req Request, docs []*document.Document) error {
	data := indexData{SiteTitle: req.SiteTitle}
	if data.SiteTitle == "" {
		data.SiteTitle = "Knowledge Base"
	}

	for _, doc := range docs {
		if doc.Status != document.StatusPublic {
			continue
		}
		rel, err := filepath.Rel(req.DocsRoot, doc.Path)
		if err != nil {
			return fmt.Errorf("build: relativize %s: %w", doc.Path, err)
		}
		entry := indexEntry{
			Title:  doc.Title,
			Href:   filepath.ToSlash(swapExtension(rel)),
			Filter: strings.ToLower(doc.Title),
		}
		if doc.Created != nil {
			entry.Created = doc.Created.Format("02.01.2006")
		}
		data.Entries = append(data.Entries, entry)
	}

	var buf strings.Builder
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("build: index template: %w", err)
	}

	path := filepath.Join(req.OutputRoot, "index.html")
	if _, err := writeIfChanged(path, []byte(buf.String())); err != nil {
		return fmt.Errorf("build: write index page: %w", err)
	}
	return nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.SiteTitle}}</title>
    <style>
        :root {
            --bg: #1a1a2e;
            --surface: #16213e;
            --primary: #0f3460;
            --accent: #e94560;
            --text: #eee;
            --text-muted: #888;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: 'Segoe UI', system-ui, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 800px; margin: 0 auto; }
        h1 { color: var(--accent); margin-bottom: 1rem; font-size: 2rem; }
        .search {
            width: 100%;
            padding: 0.75rem 1rem;
            border: 2px solid var(--primary);
            background: var(--surface);
            color: var(--text);
            border-radius: 8px;
            font-size: 1rem;
            margin-bottom: 1.5rem;
        }
        .search:focus { outline: none; border-color: var(--accent); }
        .doc-list { list-style: none; }
        .doc-item {
            background: var(--surface);
            padding: 1rem;
            margin-bottom: 0.5rem;
            border-radius: 8px;
            border-left: 3px solid var(--accent);
        }
        .doc-item:hover { background: var(--primary); }
        .doc-title { color: var(--text); text-decoration: none; font-weight: 600; }
        .doc-title:hover { color: var(--accent); }
        .doc-meta { color: var(--text-muted); font-size: 0.875rem; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.SiteTitle}}</h1>
        <input type="text" class="search" placeholder="Filter..." id="search">
        <ul class="doc-list" id="docs">
{{- range .Entries}}
            <li class="doc-item" data-title="{{.Filter}}">
                <a href="{{.Href}}" class="doc-title">{{.Title}}</a>
                <div class="doc-meta">{{.Created}}</div>
            </li>
{{- end}}
        </ul>
    </div>
    <script>
        document.getElementById('search').addEventListener('input', function(e) {
            const query = e.target.value.toLowerCase();
            document.querySelectorAll('.doc-item').forEach(item => {
                const title = item.dataset.title;
                item.style.display = title.includes(query) ? '' : 'none';
            });
        });
    </script>
</body>
</html>
`))
