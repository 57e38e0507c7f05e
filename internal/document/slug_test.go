package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Test -- Page", "test-page"},
		{"already-a-slug", "already-a-slug"},
		{"Under_score and-dash", "under-score-and-dash"},
		{"  padded  ", "padded"},
		{"Руководство", "руководство"},
		{"C++ FAQ!", "c-faq"},
		{"2024 Roadmap", "2024-roadmap"},
		{"---", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Hello World", "Test -- Page", "Руководство", "a_b c-d"}
	for _, in := range inputs {
		once := Slugify(in)
		require.Equal(t, once, Slugify(once))
	}
}

func TestSlugify_NormalizesUnicodeForms(t *testing.T) {
	// "é" composed vs "e" + combining acute.
	require.Equal(t, Slugify("café"), Slugify("café"))
}

func TestSlug_FromPath(t *testing.T) {
	doc := &Document{Path: "/kb/notes/Hello World.md"}
	require.Equal(t, "hello-world", doc.Slug())
}
