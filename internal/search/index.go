package search

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Entry is one search hit.
type Entry struct {
	Slug    string  `json:"slug"`
	Title   string  `json:"title"`
	Excerpt string  `json:"excerpt"`
	Score   float64 `json:"score"`
}

// IndexDocument tokenizes content and stores the document's metadata and
// postings. A slug's previous postings are removed in the same transaction,
// so tokens the document no longer contains stop matching it.
func (s *Store) IndexDocument(slug, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("search: begin index: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO documents (slug, title, excerpt) VALUES (?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title   = excluded.title,
			excerpt = excluded.excerpt
	`, slug, title, excerpt(content))
	if err != nil {
		return fmt.Errorf("search: upsert document %s: %w", slug, err)
	}

	if _, err := tx.Exec(`DELETE FROM postings WHERE slug = ?`, slug); err != nil {
		return fmt.Errorf("search: drop old postings for %s: %w", slug, err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO postings (term, slug) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("search: prepare posting insert: %w", err)
	}
	defer stmt.Close()

	for _, term := range tokenize(content) {
		if _, err := stmt.Exec(term, slug); err != nil {
			return fmt.Errorf("search: insert posting %q: %w", term, err)
		}
	}

	// Commit is the durability point: the document is either fully indexed
	// or not indexed at all.
	return tx.Commit()
}

// Prune removes the metadata and postings of every slug not in keep.
// Reindex cycles call it with the current document set so deleted
// documents stop matching. An empty keep set empties the index.
func (s *Store) Prune(keep []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("search: begin prune: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	cond := ""
	var args []any
	if len(keep) > 0 {
		placeholders := strings.Repeat("?,", len(keep))
		cond = fmt.Sprintf(" WHERE slug NOT IN (%s)", placeholders[:len(placeholders)-1])
		args = make([]any, len(keep))
		for i, slug := range keep {
			args[i] = slug
		}
	}

	if _, err := tx.Exec(`DELETE FROM postings`+cond, args...); err != nil {
		return fmt.Errorf("search: prune postings: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents`+cond, args...); err != nil {
		return fmt.Errorf("search: prune documents: %w", err)
	}
	return tx.Commit()
}

// Search returns the documents matching query, scored by the fraction of
// distinct query tokens they contain. A document matching every token
// scores 1.0. A query with zero tokens yields no matches.
//
// Order is deterministic: descending score, then slug ascending.
func (s *Store) Search(query string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := time.Now()
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(terms))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(terms))
	for i, t := range terms {
		args[i] = t
	}

	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT p.slug, d.title, d.excerpt, COUNT(*)
		FROM postings p
		JOIN documents d ON d.slug = p.slug
		WHERE p.term IN (%s)
		GROUP BY p.slug
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("search: query postings: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		var matched int
		if err := rows.Scan(&e.Slug, &e.Title, &e.Excerpt, &matched); err != nil {
			return nil, fmt.Errorf("search: scan result: %w", err)
		}
		e.Score = float64(matched) / float64(len(terms))
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: iterate results: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Slug < results[j].Slug
	})

	s.recorder.RecordSearch(time.Since(start), len(results))
	return results, nil
}

// tokenize splits text on non-alphanumeric boundaries, drops tokens of
// length <= 2, lowercases, and deduplicates preserving first occurrence.
func tokenize(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(words))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			continue
		}
		w = strings.ToLower(w)
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		tokens = append(tokens, w)
	}
	return tokens
}

const excerptLimit = 150

// excerpt joins the first three lines that are not headings and caps the
// result at 150 characters with a trailing ellipsis.
func excerpt(content string) string {
	var picked []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		picked = append(picked, line)
		if len(picked) == 3 {
			break
		}
	}
	clean := strings.Join(picked, " ")

	runes := []rune(clean)
	if len(runes) > excerptLimit {
		return string(runes[:excerptLimit]) + "..."
	}
	return clean
}
