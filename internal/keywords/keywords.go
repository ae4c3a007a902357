// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keywords loads the keyword list and turns it into validated
// search queries. Every check here runs before any request is sent.
package keywords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// ConfigError reports run parameters that make a scrape impossible.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Load reads one keyword per line. Surrounding whitespace is trimmed, inner
// whitespace collapsed, and blank lines and lines starting with '#' skipped.
func Load(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.Join(strings.Fields(sc.Text()), " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading keywords: %w", err)
	}
	return out, nil
}

// LoadFile reads a keyword file from disk.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening keyword file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// BuildQueries validates the run parameters and returns one SearchQuery per
// distinct keyword, in input order. Keywords that differ only in case are
// the same search on the site; the first spelling is kept. pages of 0 means
// every page the site reports.
func BuildQueries(kws []string, startYear, stopYear, pages int) ([]types.SearchQuery, error) {
	if len(kws) == 0 {
		return nil, &ConfigError{Field: "keywords", Reason: "keyword list is empty"}
	}
	if startYear <= 0 || stopYear <= 0 {
		return nil, &ConfigError{Field: "year range", Reason: fmt.Sprintf("years must be positive, got %d-%d", startYear, stopYear)}
	}
	if stopYear < startYear {
		return nil, &ConfigError{Field: "year range", Reason: fmt.Sprintf("stop year %d is before start year %d", stopYear, startYear)}
	}
	if pages < 0 {
		return nil, &ConfigError{Field: "pages", Reason: fmt.Sprintf("must not be negative, got %d", pages)}
	}

	seen := make(map[string]bool, len(kws))
	var queries []types.SearchQuery
	for _, kw := range kws {
		kw = strings.Join(strings.Fields(kw), " ")
		key := strings.ToLower(kw)
		if kw == "" || seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, types.SearchQuery{
			Keyword:   kw,
			StartYear: startYear,
			StopYear:  stopYear,
			MaxPages:  pages,
		})
	}
	if len(queries) == 0 {
		return nil, &ConfigError{Field: "keywords", Reason: "keyword list has no usable entries"}
	}
	return queries, nil
}

// ValidateConfig checks the request settings of a run.
func ValidateConfig(cfg types.ScrapeConfig) error {
	switch {
	case cfg.Concurrency <= 0:
		return &ConfigError{Field: "concurrency", Reason: fmt.Sprintf("must be positive, got %d", cfg.Concurrency)}
	case cfg.RequestsPerSecond < 0:
		return &ConfigError{Field: "rate", Reason: fmt.Sprintf("must not be negative, got %g", cfg.RequestsPerSecond)}
	case cfg.Retries < 0:
		return &ConfigError{Field: "retries", Reason: fmt.Sprintf("must not be negative, got %d", cfg.Retries)}
	case cfg.ListingWindow < 0:
		return &ConfigError{Field: "listing window", Reason: fmt.Sprintf("must not be negative, got %d", cfg.ListingWindow)}
	case cfg.Timeout < 0:
		return &ConfigError{Field: "timeout", Reason: fmt.Sprintf("must not be negative, got %s", cfg.Timeout)}
	}
	return nil
}
