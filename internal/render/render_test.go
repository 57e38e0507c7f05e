package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lightkb/internal/document"
	"git.home.luguber.info/inful/lightkb/internal/wikilinks"
)

func emptyRegistry() *wikilinks.Registry {
	return wikilinks.BuildRegistry(nil)
}

func TestFragment_BasicMarkdown(t *testing.T) {
	r := New()

	html, err := r.Fragment("# Hello\n\nWorld", emptyRegistry())
	require.NoError(t, err)
	require.Contains(t, html, "<h1>Hello</h1>")
	require.Contains(t, html, "<p>World</p>")
}

func TestFragment_WikilinksResolveThroughRegistry(t *testing.T) {
	r := New()
	reg := wikilinks.BuildRegistry([]*document.Document{
		{Path: "faq.md", Title: "FAQ"},
	})

	html, err := r.Fragment("See [[FAQ]] for help.", reg)
	require.NoError(t, err)
	require.Contains(t, html, `href="./faq.html"`)
	require.Contains(t, html, ">FAQ</a>")
}

func TestFragment_TableExtension(t *testing.T) {
	r := New()

	html, err := r.Fragment("| a | b |\n|---|---|\n| 1 | 2 |\n", emptyRegistry())
	require.NoError(t, err)
	require.Contains(t, html, "<table>")
	require.Contains(t, html, "<td>1</td>")
}

func TestFragment_StrikethroughAndTaskList(t *testing.T) {
	r := New()

	html, err := r.Fragment("~~gone~~\n\n- [x] done\n- [ ] open\n", emptyRegistry())
	require.NoError(t, err)
	require.Contains(t, html, "<del>gone</del>")
	require.Contains(t, html, `type="checkbox"`)
}

func TestFragment_Footnote(t *testing.T) {
	r := New()

	html, err := r.Fragment("text[^1]\n\n[^1]: the note\n", emptyRegistry())
	require.NoError(t, err)
	require.Contains(t, html, "footnote")
}

func TestPage_ContainsShellAndMeta(t *testing.T) {
	r := New()
	created := &document.Date{Time: time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)}
	doc := &document.Document{
		Path:    "guide.md",
		Title:   "User Guide",
		Created: created,
		Tags:    []string{"howto"},
		Body:    "# Intro\n\nWelcome.",
	}

	html, err := r.Page(doc, emptyRegistry(), "index.html")
	require.NoError(t, err)
	require.Contains(t, html, "<title>User Guide</title>")
	require.Contains(t, html, `href="index.html"`)
	require.Contains(t, html, "<h1>User Guide</h1>")
	require.Contains(t, html, "28.01.2026")
	require.Contains(t, html, `<span class="tag">howto</span>`)
	require.Contains(t, html, "<p>Welcome.</p>")
}

func TestPage_BreadcrumbUsesGivenIndexHref(t *testing.T) {
	r := New()
	doc := &document.Document{Path: "ops/runbooks/restore.md", Title: "Restore", Body: "Steps."}

	html, err := r.Page(doc, emptyRegistry(), "../../index.html")
	require.NoError(t, err)
	require.Contains(t, html, `href="../../index.html"`)
}

func TestPage_TitleIsEscaped(t *testing.T) {
	r := New()
	doc := &document.Document{
		Path:  "x.md",
		Title: "A <b> title",
		Body:  "body",
	}

	html, err := r.Page(doc, emptyRegistry(), "index.html")
	require.NoError(t, err)
	require.Contains(t, html, "A &lt;b&gt; title")
}

func TestPage_NoCreatedNoTags_MetaStaysEmpty(t *testing.T) {
	r := New()
	doc := &document.Document{Path: "x.md", Title: "X", Body: "body"}

	html, err := r.Page(doc, emptyRegistry(), "index.html")
	require.NoError(t, err)
	require.NotContains(t, html, `class="tag"`)
	require.NotContains(t, html, `class="created"`)
}
