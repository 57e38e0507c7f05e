// Package linkcheck verifies that internal hrefs in rendered HTML resolve
// to files in the output tree. Fallback-resolved wikilinks can point at
// pages that were never rendered; this is the post-build diagnostic that
// surfaces them.
package linkcheck

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLink is one internal href whose target file does not exist.
type BrokenLink struct {
	// Page is the HTML file containing the link, relative to the output
	// root.
	Page string
	// Href is the link target as written.
	Href string
}

// VerifyTree walks every .html file under outputRoot and reports internal
// links that do not resolve to an existing file. External links (scheme or
// host present) and fragments are ignored.
func VerifyTree(outputRoot string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(outputRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		rel, err := filepath.Rel(outputRoot, path)
		if err != nil {
			return err
		}

		hrefs, err := extractHrefs(path)
		if err != nil {
			return fmt.Errorf("linkcheck: parse %s: %w", rel, err)
		}

		for _, href := range hrefs {
			target, internal := internalTarget(href)
			if !internal {
				continue
			}
			resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
			if _, statErr := os.Stat(resolved); statErr != nil {
				broken = append(broken, BrokenLink{Page: rel, Href: href})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

func extractHrefs(path string) ([]string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return extractHrefsFromReader(file)
}

func extractHrefsFromReader(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var hrefs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs, nil
}

// internalTarget reports whether href points inside the site and returns
// the path portion to resolve.
func internalTarget(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if u.Path == "" {
		// Pure fragment.
		return "", false
	}
	return u.Path, true
}
