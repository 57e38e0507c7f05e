// Package document provides the knowledge-base document model: a markdown
// file with typed YAML frontmatter, loaded and saved as a whole.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/lightkb/internal/frontmatter"
)

// ErrMissingTitle indicates frontmatter without the required title field.
var ErrMissingTitle = errors.New("document: frontmatter missing required title")

// Status gates whether a document is rendered and exposed.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusPublic Status = "public"
)

// UnmarshalYAML accepts only the known status values; anything else fails
// the document load.
func (s *Status) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch Status(strings.ToLower(raw)) {
	case StatusDraft:
		*s = StatusDraft
	case StatusPublic:
		*s = StatusPublic
	default:
		return fmt.Errorf("document: unknown status %q", raw)
	}
	return nil
}

// Date is a calendar date serialized as ISO 8601 (2006-01-02).
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return fmt.Errorf("document: invalid date %q: %w", raw, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.Format(dateLayout), nil
}

// Frontmatter is the typed schema of the YAML block.
type Frontmatter struct {
	Title   string   `yaml:"title"`
	Status  Status   `yaml:"status,omitempty"`
	Tags    []string `yaml:"tags,omitempty"`
	Created *Date    `yaml:"created,omitempty"`
	Updated *Date    `yaml:"updated,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Document is a transient value materialized by reading its file. Identity
// is the source path; there is no store that outlives a build or list call.
type Document struct {
	Path    string
	Title   string
	Status  Status
	Tags    []string
	Created *Date
	Updated *Date
	Aliases []string

	// Body is the text after the frontmatter block, left-trimmed.
	Body string
	// Raw is the full file text as read from disk.
	Raw string

	style frontmatter.Style
}

// Load reads and parses the document at path.
//
// A file that does not begin with the frontmatter delimiter loads as an
// untitled draft with the whole file as body. A file that opens a
// frontmatter block must close it and must carry a title.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: read %s: %w", path, err)
	}

	fm, body, had, style, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", path, err)
	}

	doc := &Document{
		Path:   path,
		Title:  "Untitled",
		Status: StatusDraft,
		Raw:    string(raw),
		style:  style,
	}

	if !had {
		doc.Body = string(raw)
		return doc, nil
	}

	var meta Frontmatter
	if err := yaml.Unmarshal(fm, &meta); err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", path, err)
	}
	if meta.Title == "" {
		return nil, fmt.Errorf("document: parse %s: %w", path, ErrMissingTitle)
	}
	if meta.Status == "" {
		meta.Status = StatusDraft
	}

	doc.Title = meta.Title
	doc.Status = meta.Status
	doc.Tags = meta.Tags
	doc.Created = meta.Created
	doc.Updated = meta.Updated
	doc.Aliases = meta.Aliases
	doc.Body = strings.TrimLeft(string(body), " \t\r\n")
	return doc, nil
}

// Save re-serializes frontmatter followed by a blank line and the body,
// overwriting the file in place. This is the sole write path back to
// storage.
func (d *Document) Save() error {
	meta := Frontmatter{
		Title:   d.Title,
		Status:  d.Status,
		Tags:    d.Tags,
		Created: d.Created,
		Updated: d.Updated,
		Aliases: d.Aliases,
	}

	fm, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("document: serialize %s: %w", d.Path, err)
	}

	out := frontmatter.Join(fm, []byte(d.Body), d.style)
	if err := os.WriteFile(d.Path, out, 0o644); err != nil {
		return fmt.Errorf("document: write %s: %w", d.Path, err)
	}
	return nil
}

// Slug derives the URL-safe identifier from the file's base name.
func (d *Document) Slug() string {
	base := filepath.Base(d.Path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return Slugify(base)
}

// Matches reports whether the query occurs case-insensitively in the title,
// body, or any tag. This is the simple filter path, independent of the
// search index.
func (d *Document) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(d.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(d.Body), q) {
		return true
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
