// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// ExportEntry is one record in JSON or YAML output, carrying the keywords
// that found it.
type ExportEntry struct {
	types.ArticleRecord `yaml:",inline"`
	SearchTerms         []string `json:"search_terms,omitempty" yaml:"search_terms,omitempty"`
}

func exportEntries(ds types.Dataset) []ExportEntry {
	entries := make([]ExportEntry, len(ds.Records))
	for i, r := range ds.Records {
		entries[i] = ExportEntry{ArticleRecord: r, SearchTerms: ds.Terms[r.URL]}
	}
	return entries
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, ds types.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(exportEntries(ds)); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteYAML writes the records as a YAML sequence.
func WriteYAML(w io.Writer, ds types.Dataset) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(exportEntries(ds)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
