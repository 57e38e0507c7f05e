package wikilinks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/lightkb/internal/document"
)

func registryWith(t *testing.T, docs ...*document.Document) *Registry {
	t.Helper()
	return BuildRegistry(docs)
}

func TestTransform_RegisteredTarget(t *testing.T) {
	reg := registryWith(t, &document.Document{Path: "faq.md", Title: "FAQ"})

	out := reg.Transform("See [[FAQ]] here.")
	require.Equal(t, "See [FAQ](./faq.html) here.", out)
}

func TestTransform_DisplayText(t *testing.T) {
	reg := registryWith(t, &document.Document{Path: "faq.md", Title: "FAQ"})

	out := reg.Transform("See [[FAQ|Help]] here.")
	require.Equal(t, "See [Help](./faq.html) here.", out)
}

func TestTransform_CaseInsensitiveLookup(t *testing.T) {
	reg := registryWith(t, &document.Document{Path: "faq.md", Title: "FAQ"})

	out := reg.Transform("See [[faq]].")
	require.Equal(t, "See [faq](./faq.html).", out)
}

func TestTransform_AliasResolvesToSameSlug(t *testing.T) {
	reg := registryWith(t, &document.Document{
		Path:    "user-guide.md",
		Title:   "User Guide",
		Aliases: []string{"Manual"},
	})

	out := reg.Transform("Read the [[Manual]].")
	require.Equal(t, "Read the [Manual](./user-guide.html).", out)
}

func TestTransform_UnregisteredTargetFallsBackToSlugifiedTitle(t *testing.T) {
	reg := registryWith(t)

	out := reg.Transform("See [[Missing Page]].")
	require.Equal(t, "See [Missing Page](./missing-page.html).", out)
}

func TestTransform_MultipleLinksInOneLine(t *testing.T) {
	reg := registryWith(t,
		&document.Document{Path: "a.md", Title: "Alpha"},
		&document.Document{Path: "b.md", Title: "Beta"},
	)

	out := reg.Transform("[[Alpha]] and [[Beta|the second]].")
	require.Equal(t, "[Alpha](./a.html) and [the second](./b.html).", out)
}

func TestTransform_RegistrySlugWinsOverLiteralSlug(t *testing.T) {
	// The registered title maps to a slug derived from the file name, not
	// from the link text.
	reg := registryWith(t, &document.Document{Path: "notes/2026 Roadmap.md", Title: "Roadmap"})

	out := reg.Transform("See [[Roadmap]].")
	require.Equal(t, "See [Roadmap](./2026-roadmap.html).", out)
}

func TestExtractLinks(t *testing.T) {
	links := ExtractLinks("See [[Page1]] and [[Page2|Alias]] for more.")
	require.Equal(t, []string{"Page1", "Page2"}, links)
}

func TestExtractLinks_None(t *testing.T) {
	require.Empty(t, ExtractLinks("No links [here](./x.html)."))
}

func TestFindBrokenLinks(t *testing.T) {
	reg := registryWith(t, &document.Document{Path: "faq.md", Title: "FAQ"})

	broken := reg.FindBrokenLinks("See [[FAQ]] and [[Missing]] and [[Also Missing|x]].")
	require.Equal(t, []string{"Missing", "Also Missing"}, broken)
}
