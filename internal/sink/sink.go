// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink writes a collected dataset to disk in one of several
// tabular or structured formats. Files are written to a temporary name in
// the destination directory and renamed into place on success.
package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// Columns is the column order of tabular output.
var Columns = []string{"title", "abstract", "affiliations", "authors", "journal", "date", "keywords", "url"}

// listSep joins multi-valued fields in tabular output; affiliations contain
// commas, so a semicolon is used.
const listSep = "; "

// ParseFormat validates a format name.
func ParseFormat(name string) (types.OutputFormat, error) {
	f := types.OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatCSL, types.FormatSQLite:
		return f, nil
	case "":
		return types.FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv, json, yaml, csl, or sqlite)", name)
	}
}

// OutputPath appends the format's extension to name unless it already ends
// with it.
func OutputPath(name string, format types.OutputFormat) string {
	ext := format.Extension()
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}

// Encode writes ds to w in a stream format. SQLite output needs a file
// path; use WriteFile for it.
func Encode(w io.Writer, format types.OutputFormat, ds types.Dataset) error {
	switch format {
	case types.FormatCSV:
		return WriteCSV(w, ds.Records)
	case types.FormatJSON:
		return WriteJSON(w, ds)
	case types.FormatYAML:
		return WriteYAML(w, ds)
	case types.FormatCSL:
		return WriteCSL(w, ds.Records)
	default:
		return fmt.Errorf("format %q cannot be streamed", format)
	}
}

// WriteFile writes ds to path in the given format, replacing any existing
// file only once the new one is complete.
func WriteFile(path string, format types.OutputFormat, ds types.Dataset) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".sink-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	var writeErr error
	if format == types.FormatSQLite {
		tmp.Close()
		writeErr = writeSQLite(tmpPath, ds)
	} else {
		writeErr = Encode(tmp, format, ds)
		if closeErr := tmp.Close(); writeErr == nil {
			writeErr = closeErr
		}
	}
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s output: %w", format, writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
