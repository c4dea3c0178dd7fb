// Package pdf extracts DOIs from PDF files so papers on disk can be
// checked against the bibliography.
package pdf

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxSearchPages bounds the scan; the DOI is almost always on page one.
const maxSearchPages = 3

// doiPattern matches 10.XXXX/... identifiers.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI extracts a DOI from the first pages of a PDF file.
// Returns "" (not an error) if no DOI is found.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := min(r.NumPage(), maxSearchPages)
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindDOI returns the first DOI found in text, with trailing punctuation
// that commonly rides along in extracted text stripped off.
func FindDOI(text string) string {
	doi := doiPattern.FindString(text)
	return strings.TrimRight(doi, ".,;)")
}
