// Package frontmatter splits and reassembles `---` delimited YAML
// frontmatter. It is schema-agnostic; typed parsing lives in
// internal/document.
package frontmatter

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter indicates the document started with a
// frontmatter delimiter but no closing delimiter was found on its own line.
var ErrMissingClosingDelimiter = errors.New("frontmatter: opening delimiter found but closing delimiter is missing")

// Style captures the newline shape needed for stable rewriting.
type Style struct {
	Newline string
}

// Split separates YAML frontmatter from the body.
//
// If content does not begin with the delimiter line, had is false and body
// is the full input. If it does, the closing delimiter must appear on its
// own line; otherwise Split fails with ErrMissingClosingDelimiter.
func Split(content []byte) (fm []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)
	nl := style.Newline

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	rest := content[len(open):]

	// Empty frontmatter block: the closing delimiter immediately follows.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}

	closeSeq := []byte(nl + "---")
	idx := bytes.Index(rest, closeSeq)
	for idx >= 0 {
		after := rest[idx+len(closeSeq):]
		// Closing delimiter counts only when it is a complete line.
		if len(after) == 0 || bytes.HasPrefix(after, []byte(nl)) {
			fm = rest[:idx+len(nl)]
			body = after
			if bytes.HasPrefix(body, []byte(nl)) {
				body = body[len(nl):]
			}
			return fm, body, true, style, nil
		}
		next := bytes.Index(rest[idx+1:], closeSeq)
		if next < 0 {
			break
		}
		idx += 1 + next
	}
	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from serialized frontmatter and body,
// separated by a blank line.
func Join(fm []byte, body []byte, style Style) []byte {
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)
	out := make([]byte, 0, 2*len(delim)+len(fm)+len(nl)+len(body))
	out = append(out, delim...)
	out = append(out, fm...)
	out = append(out, delim...)
	out = append(out, nl...)
	out = append(out, body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				newline = "\r\n"
			}
			break
		}
	}
	return Style{Newline: newline}
}
