// Package wikilinks resolves `[[Target]]` and `[[Target|Display]]`
// references to standard markdown links.
//
// Wiki syntax is not CommonMark, so goldmark never sees it: the transform
// runs over the raw body before markdown parsing.
package wikilinks

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/lightkb/internal/document"
)

var linkPattern = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// Registry maps lowercased document titles and aliases to slugs. It is an
// immutable value: build it once from the full document set, then share it
// across every render so resolution is independent of walk order.
type Registry struct {
	titles map[string]string
}

// BuildRegistry collects the title and alias mappings of every document.
// Later documents win on duplicate titles, matching walk order.
func BuildRegistry(docs []*document.Document) *Registry {
	titles := make(map[string]string, len(docs))
	for _, doc := range docs {
		slug := doc.Slug()
		titles[strings.ToLower(doc.Title)] = slug
		for _, alias := range doc.Aliases {
			titles[strings.ToLower(alias)] = slug
		}
	}
	return &Registry{titles: titles}
}

// Resolve looks up a link target case-insensitively, reporting whether it
// is registered.
func (r *Registry) Resolve(target string) (slug string, ok bool) {
	slug, ok = r.titles[strings.ToLower(target)]
	return slug, ok
}

// Transform rewrites every wikilink in text to a markdown link pointing at
// `./{slug}.html`. Unregistered targets fall back to slugifying the literal
// target text; the resulting link may not correspond to a rendered page.
func (r *Registry) Transform(text string) string {
	return linkPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := linkPattern.FindStringSubmatch(match)
		target := groups[1]
		display := groups[2]
		if display == "" {
			display = target
		}

		slug, ok := r.Resolve(target)
		if !ok {
			slug = document.Slugify(target)
		}
		return fmt.Sprintf("[%s](./%s.html)", display, slug)
	})
}

// ExtractLinks returns every wikilink target in text, unresolved, in order
// of appearance.
func ExtractLinks(text string) []string {
	matches := linkPattern.FindAllStringSubmatch(text, -1)
	targets := make([]string, 0, len(matches))
	for _, m := range matches {
		targets = append(targets, m[1])
	}
	return targets
}

// FindBrokenLinks returns the targets in text that are absent from the
// registry.
func (r *Registry) FindBrokenLinks(text string) []string {
	var broken []string
	for _, target := range ExtractLinks(text) {
		if _, ok := r.Resolve(target); !ok {
			broken = append(broken, target)
		}
	}
	return broken
}
