package main

import (
	"fmt"
	"strings"

	"github.com/matsen/bibmerge/internal/bibtex"
	"github.com/matsen/bibmerge/internal/pdf"
	"github.com/matsen/bibmerge/internal/similarity"
	"github.com/spf13/cobra"
)

var pdfLibrary string

func init() {
	pdfCmd.Flags().StringVar(&pdfLibrary, "library", "", "Bibliography file to check against (default: configured library_path)")
	rootCmd.AddCommand(pdfCmd)
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file.pdf>",
	Short: "Check whether a paper PDF is already catalogued",
	Long: `Check whether a paper PDF is already catalogued.

Extracts the DOI from the first pages of the PDF and compares it against
the bibliography's DOI fields.`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

// PDFResult is the response for the pdf command.
type PDFResult struct {
	File       string   `json:"file"`
	DOI        string   `json:"doi,omitempty"`
	Catalogued bool     `json:"catalogued"`
	Keys       []string `json:"keys,omitempty"` // Entries carrying this DOI
}

func runPDF(cmd *cobra.Command, args []string) error {
	library := resolveTarget(pdfLibrary)

	doi, err := pdf.ExtractDOI(args[0])
	if err != nil {
		exitWithError(ExitError, "reading PDF: %v", err)
	}

	result := PDFResult{File: args[0], DOI: doi}

	if doi != "" {
		text, err := bibtex.ReadFile(library)
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", library, err)
		}
		norm := similarity.NormalizeDOI(doi)
		for _, r := range bibtex.Parse(text) {
			if similarity.NormalizeDOI(r.DOI()) == norm {
				result.Keys = append(result.Keys, r.Key)
			}
		}
		result.Catalogued = len(result.Keys) > 0
	}

	if humanOutput {
		switch {
		case result.DOI == "":
			fmt.Printf("No DOI found in %s\n", result.File)
		case result.Catalogued:
			fmt.Printf("DOI %s already catalogued: %s\n", result.DOI, strings.Join(result.Keys, ", "))
		default:
			fmt.Printf("DOI %s not in bibliography\n", result.DOI)
		}
		return nil
	}
	return outputJSON(result)
}
