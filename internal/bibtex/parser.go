package bibtex

import (
	"strings"
	"unicode"
)

// Parse extracts BibTeX records from raw text.
//
// Entry boundaries are found with an explicit scanning state machine that
// tracks brace depth, so field values containing braces never terminate an
// entry early. Malformed entries (unterminated braces, missing key) are
// skipped rather than failing the whole parse. Empty or non-BibTeX input
// yields no records.
func Parse(text string) []Record {
	var records []Record
	i := 0
	for i < len(text) {
		if text[i] != '@' {
			i++
			continue
		}
		rec, next, ok := scanEntry(text, i)
		if ok {
			records = append(records, rec)
		}
		i = next
	}
	return records
}

// scanEntry scans one entry starting at the '@' at position at.
// It returns the record, the position to resume scanning from, and whether
// a well-formed record was extracted.
func scanEntry(text string, at int) (Record, int, bool) {
	j := at + 1

	// Entry type: @article, @book, ...
	typeStart := j
	for j < len(text) && isTypeByte(text[j]) {
		j++
	}
	entryType := strings.ToLower(text[typeStart:j])
	for j < len(text) && isSpaceByte(text[j]) {
		j++
	}
	if entryType == "" || j >= len(text) || text[j] != '{' {
		return Record{}, at + 1, false
	}

	// Scan to the balanced closing brace, adjusting depth on every brace.
	depth := 0
	end := -1
	for k := j; k < len(text); k++ {
		switch text[k] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			end = k
			break
		}
	}
	if end < 0 {
		// Unterminated entry: nothing after it can be trusted.
		return Record{}, len(text), false
	}
	resume := end + 1

	// Directives carry no citation key.
	switch entryType {
	case "comment", "preamble", "string":
		return Record{}, resume, false
	}

	inner := text[j+1 : end]
	comma := strings.IndexByte(inner, ',')
	if comma < 0 {
		return Record{}, resume, false
	}
	key := strings.TrimSpace(inner[:comma])
	if key == "" || strings.ContainsAny(key, "{}=") || containsSpace(key) {
		return Record{}, resume, false
	}

	return Record{
		Key:    key,
		Type:   entryType,
		Fields: parseFields(inner[comma+1:]),
		Raw:    text[at:resume],
	}, resume, true
}

// parseFields extracts the field map from an entry body (the text between
// the key's trailing comma and the closing brace). Values are accepted in
// braced or double-quoted form, or bare (numbers, macros). Extraction is
// tolerant of surrounding whitespace and trailing commas; on an
// unrecoverable value it returns the fields collected so far.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	i := 0
	for i < len(s) {
		for i < len(s) && (isSpaceByte(s[i]) || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			break
		}

		nameStart := i
		for i < len(s) && s[i] != '=' && s[i] != ',' {
			i++
		}
		if i >= len(s) || s[i] != '=' {
			continue // No value for this token; resume at the separator.
		}
		name := strings.ToLower(strings.TrimSpace(s[nameStart:i]))
		i++
		for i < len(s) && isSpaceByte(s[i]) {
			i++
		}

		var value string
		switch {
		case i < len(s) && s[i] == '{':
			v, next, ok := scanBraced(s, i)
			if !ok {
				return fields
			}
			value, i = v, next
		case i < len(s) && s[i] == '"':
			rel := strings.IndexByte(s[i+1:], '"')
			if rel < 0 {
				return fields
			}
			value = s[i+1 : i+1+rel]
			i += rel + 2
		default:
			valStart := i
			for i < len(s) && s[i] != ',' {
				i++
			}
			value = s[valStart:i]
		}

		if name != "" {
			fields[name] = strings.TrimSpace(value)
		}
	}
	return fields
}

// scanBraced scans a brace-delimited value starting at the '{' at position
// at, returning the inner text and the position after the closing brace.
func scanBraced(s string, at int) (string, int, bool) {
	depth := 0
	for k := at; k < len(s); k++ {
		switch s[k] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[at+1 : k], k + 1, true
			}
		}
	}
	return "", at, false
}

func isTypeByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func containsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
