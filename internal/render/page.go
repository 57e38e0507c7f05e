package render

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        :root {
            --bg: #1a1a2e;
            --surface: #16213e;
            --primary: #0f3460;
            --accent: #e94560;
            --text: #eee;
            --text-muted: #888;
            --code-bg: #0d1117;
            --link: #58a6ff;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: 'Segoe UI', system-ui, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.7;
            padding: 2rem;
            max-width: 800px;
            margin: 0 auto;
        }
        a { color: var(--link); text-decoration: none; }
        a:hover { text-decoration: underline; }
        h1, h2, h3, h4 { margin: 1.5rem 0 0.75rem; color: var(--accent); }
        h1 { font-size: 2rem; border-bottom: 2px solid var(--primary); padding-bottom: 0.5rem; }
        h2 { font-size: 1.5rem; }
        h3 { font-size: 1.25rem; }
        p { margin: 0.75rem 0; }
        ul, ol { margin: 0.75rem 0; padding-left: 1.5rem; }
        li { margin: 0.25rem 0; }
        code {
            font-family: 'Cascadia Code', 'Consolas', monospace;
            background: var(--code-bg);
            padding: 0.125rem 0.375rem;
            border-radius: 4px;
            font-size: 0.875rem;
        }
        pre {
            background: var(--code-bg);
            padding: 1rem;
            border-radius: 8px;
            overflow-x: auto;
            margin: 1rem 0;
        }
        pre code { padding: 0; background: none; }
        blockquote {
            border-left: 3px solid var(--accent);
            padding-left: 1rem;
            margin: 1rem 0;
            color: var(--text-muted);
            font-style: italic;
        }
        table { width: 100%; border-collapse: collapse; margin: 1rem 0; }
        th, td { border: 1px solid var(--primary); padding: 0.5rem; text-align: left; }
        th { background: var(--primary); }
        hr { border: none; border-top: 1px solid var(--primary); margin: 2rem 0; }
        img { max-width: 100%; border-radius: 8px; }
        .breadcrumb { margin-bottom: 1rem; color: var(--text-muted); }
        .breadcrumb a { color: var(--text-muted); }
        .meta { color: var(--text-muted); font-size: 0.875rem; margin-bottom: 1.5rem; }
        .tags { display: flex; gap: 0.5rem; flex-wrap: wrap; margin-top: 0.5rem; }
        .tag {
            background: var(--primary);
            padding: 0.125rem 0.5rem;
            border-radius: 4px;
            font-size: 0.75rem;
        }
    </style>
</head>
<body>
    <nav class="breadcrumb">
        <a href="{{.IndexHref}}">&larr; Index</a>
    </nav>
    <article>
        <h1>{{.Title}}</h1>
        <div class="meta">
            {{- if .Created}}
            <span class="created">{{.Created}}</span>
            {{- end}}
            {{- if .Tags}}
            <div class="tags">{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</div>
            {{- end}}
        </div>
        {{.Content}}
    </article>
</body>
</html>
`
