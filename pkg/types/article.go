// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-scraper pipeline:
// search queries, listing pages, article references, and extracted records.
package types

// SearchQuery describes one keyword search bounded by a publication year range.
// A query is built once per keyword and never mutated.
type SearchQuery struct {
	// Keyword is the free-text search term.
	Keyword string `json:"keyword" yaml:"keyword"`

	// StartYear is the first publication year included in the search.
	StartYear int `json:"start_year" yaml:"start_year"`

	// StopYear is the last publication year included in the search.
	StopYear int `json:"stop_year" yaml:"stop_year"`

	// MaxPages bounds the number of listing pages visited. Zero means
	// "all pages the site reports", capped by ScrapeConfig.MaxAutoPages.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
}

// ListingPage is one page of search results for a query.
type ListingPage struct {
	Query SearchQuery `json:"query" yaml:"query"`

	// PageNumber is 1-based.
	PageNumber int `json:"page_number" yaml:"page_number"`

	URL string `json:"url" yaml:"url"`
}

// ArticleRef points at an article detail page discovered on a listing page.
type ArticleRef struct {
	SourceListing ListingPage `json:"source_listing" yaml:"source_listing"`
	DetailURL     string      `json:"detail_url" yaml:"detail_url"`
}

// ArticleRecord holds the metadata extracted from one article page. Fields
// that could not be located on the page are left empty.
type ArticleRecord struct {
	URL          string   `json:"url" yaml:"url"`
	Title        string   `json:"title" yaml:"title"`
	Abstract     string   `json:"abstract" yaml:"abstract"`
	Authors      []string `json:"authors" yaml:"authors"`
	Affiliations []string `json:"affiliations" yaml:"affiliations"`
	Journal      string   `json:"journal" yaml:"journal"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	Date         string   `json:"date" yaml:"date"`
}

// Dataset is the collected output of a run, handed to a sink.
type Dataset struct {
	// Records are ordered by first discovery: query order, then page
	// number, then position on the listing page.
	Records []ArticleRecord `json:"records" yaml:"records"`

	// Terms maps an article URL to the keywords whose listings referenced it,
	// in query order.
	Terms map[string][]string `json:"terms,omitempty" yaml:"terms,omitempty"`
}
