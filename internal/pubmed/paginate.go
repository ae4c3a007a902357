// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed knows the PubMed web front end: how search-result URLs are
// built and how listing and article pages are laid out. Nothing here touches
// the network.
package pubmed

import (
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// Paginator builds listing-page URLs for search queries.
type Paginator struct {
	base string
}

// NewPaginator returns a Paginator rooted at baseURL (scheme and host, with
// an optional path prefix).
func NewPaginator(baseURL string) (*Paginator, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must include scheme and host", baseURL)
	}
	return &Paginator{base: strings.TrimRight(u.String(), "/")}, nil
}

// Term renders the site's search term for q: the publication-date filter
// followed by the keyword, e.g. "2019:2020[dp] crispr".
func Term(q types.SearchQuery) string {
	return fmt.Sprintf("%d:%d[dp] %s", q.StartYear, q.StopYear, q.Keyword)
}

// Page returns listing page n (1-based) of q.
func (p *Paginator) Page(q types.SearchQuery, n int) types.ListingPage {
	params := url.Values{
		"term": {Term(q)},
		"page": {strconv.Itoa(n)},
	}
	return types.ListingPage{
		Query:      q,
		PageNumber: n,
		URL:        p.base + "/?" + params.Encode(),
	}
}

// Pages yields listing pages 1 through q.MaxPages in order. Consumers stop
// early when they detect the end of the results.
func (p *Paginator) Pages(q types.SearchQuery) iter.Seq[types.ListingPage] {
	return func(yield func(types.ListingPage) bool) {
		for n := 1; n <= q.MaxPages; n++ {
			if !yield(p.Page(q, n)) {
				return
			}
		}
	}
}

// ArticleURL returns the detail page URL for a PubMed identifier.
func (p *Paginator) ArticleURL(pmid string) string {
	return p.base + "/" + pmid + "/"
}
