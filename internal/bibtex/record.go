// Package bibtex parses and serializes BibTeX bibliography files.
package bibtex

import "strings"

// Record represents a single BibTeX entry.
type Record struct {
	Key    string            // Citation key (unique within a well-formed file)
	Type   string            // Entry type (article, book, ...), lowercased
	Fields map[string]string // Lowercase field name -> trimmed value
	Raw    string            // Original text span, preserved verbatim
}

// Field returns the value of a field by its lowercase name.
// Returns "" if the field is absent.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// DOI returns the doi field, or "".
func (r Record) DOI() string {
	return r.Fields["doi"]
}

// Title returns the title field, or "".
func (r Record) Title() string {
	return r.Fields["title"]
}

// Author returns the author field, or "".
func (r Record) Author() string {
	return r.Fields["author"]
}

// Year returns the year field, or "".
func (r Record) Year() string {
	return r.Fields["year"]
}

// Serialize joins the raw text of records with a blank line between entries.
// Each surviving record round-trips byte-for-byte.
func Serialize(records []Record) string {
	raws := make([]string, len(records))
	for i, r := range records {
		raws[i] = r.Raw
	}
	return strings.Join(raws, "\n\n")
}

// Join concatenates two chunks of bibliography text with a blank line
// between them. Either side may be empty. The existing bytes are kept
// verbatim; only the newlines needed to form the blank line are appended,
// so untouched text remains an exact prefix of the result.
func Join(existing, incoming string) string {
	if strings.TrimSpace(existing) == "" {
		return incoming
	}
	if strings.TrimSpace(incoming) == "" {
		return existing
	}
	trailing := len(existing) - len(strings.TrimRight(existing, "\n"))
	if trailing < 2 {
		return existing + strings.Repeat("\n", 2-trailing) + incoming
	}
	return existing + incoming
}
