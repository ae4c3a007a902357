// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []types.ArticleRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("writing row for %s: %w", r.URL, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// row renders r in Columns order.
func row(r types.ArticleRecord) []string {
	return []string{
		r.Title,
		r.Abstract,
		strings.Join(r.Affiliations, listSep),
		strings.Join(r.Authors, listSep),
		r.Journal,
		r.Date,
		strings.Join(r.Keywords, listSep),
		r.URL,
	}
}
