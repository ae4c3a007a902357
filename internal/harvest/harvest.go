// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest drives a scrape: it walks the listing pages of every
// query, collects the article links they contain, fetches each distinct
// article once, and gathers the extracted records in discovery order.
package harvest

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pdiddy/pubmed-scraper/internal/fetch"
	"github.com/pdiddy/pubmed-scraper/internal/pubmed"
	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

const defaultMaxAutoPages = 100

// Phase is the stage a keyword has reached.
type Phase int

const (
	PhasePaginating Phase = iota
	PhaseListingFetch
	PhaseArticleFetch
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePaginating:
		return "paginating"
	case PhaseListingFetch:
		return "listing_fetch"
	case PhaseArticleFetch:
		return "article_fetch"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stats summarizes a run.
type Stats struct {
	Keywords        int
	ListingPages    int
	ListingFailures int
	EmptyListings   int
	RefsFound       int
	Duplicates      int
	Records         int
	ArticleFailures int
	Elapsed         time.Duration
}

// Output is the result of a run.
type Output struct {
	types.Dataset
	Stats Stats
}

// Harvester runs scrapes against one site.
type Harvester struct {
	get          fetch.Getter
	pages        *pubmed.Paginator
	window       int
	maxAutoPages int
	log          *slog.Logger
}

// New returns a Harvester that fetches through get. Listing pages of one
// keyword are requested cfg.ListingWindow at a time (cfg.Concurrency when
// unset); the actual in-flight bound is enforced by get.
func New(get fetch.Getter, pages *pubmed.Paginator, cfg types.ScrapeConfig, log *slog.Logger) *Harvester {
	window := cfg.ListingWindow
	if window <= 0 {
		window = cfg.Concurrency
	}
	if window <= 0 {
		window = 1
	}
	maxAuto := cfg.MaxAutoPages
	if maxAuto <= 0 {
		maxAuto = defaultMaxAutoPages
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Harvester{
		get:          get,
		pages:        pages,
		window:       window,
		maxAutoPages: maxAuto,
		log:          log,
	}
}

// listingResult is the outcome of walking one query's listing pages.
type listingResult struct {
	refs    []types.ArticleRef
	fetched int
	failed  int
	empty   int
}

// Run scrapes every query and returns the records found. Unreachable pages
// and unparseable fields are logged and skipped; Run only returns an error
// when there is nothing to do or ctx ended, in which case the records
// gathered so far are still returned.
func (h *Harvester) Run(ctx context.Context, queries []types.SearchQuery) (Output, error) {
	if len(queries) == 0 {
		return Output{}, errors.New("no search queries")
	}
	start := time.Now()
	out := Output{Stats: Stats{Keywords: len(queries)}}

	// Listing stage: each query owns its slot until wg.Wait returns.
	listings := make([]listingResult, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listings[i] = h.collectRefs(ctx, q)
		}()
	}
	wg.Wait()

	var all []types.ArticleRef
	for _, lr := range listings {
		out.Stats.ListingPages += lr.fetched
		out.Stats.ListingFailures += lr.failed
		out.Stats.EmptyListings += lr.empty
		all = append(all, lr.refs...)
	}
	out.Stats.RefsFound = len(all)

	unique, terms, dups := deduplicate(all)
	out.Stats.Duplicates = dups
	out.Terms = terms

	for _, q := range queries {
		h.log.Debug("phase", "keyword", q.Keyword, "phase", PhaseArticleFetch)
	}

	out.Records, out.Stats.ArticleFailures = h.fetchArticles(ctx, unique)
	out.Stats.Records = len(out.Records)
	out.Stats.Elapsed = time.Since(start)

	for _, q := range queries {
		h.log.Debug("phase", "keyword", q.Keyword, "phase", PhaseDone)
	}
	h.log.Info("harvest complete",
		"keywords", out.Stats.Keywords,
		"listing_pages", out.Stats.ListingPages,
		"listing_failures", out.Stats.ListingFailures,
		"refs", out.Stats.RefsFound,
		"duplicates", out.Stats.Duplicates,
		"records", out.Stats.Records,
		"article_failures", out.Stats.ArticleFailures,
		"elapsed", out.Stats.Elapsed)

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// collectRefs walks the listing pages of q in windows, fetching each window
// concurrently, and stops once a window ends in an empty page.
func (h *Harvester) collectRefs(ctx context.Context, q types.SearchQuery) listingResult {
	var res listingResult
	log := h.log.With("keyword", q.Keyword)
	log.Debug("phase", "phase", PhasePaginating)

	firstPage := 1
	if q.MaxPages <= 0 {
		// Page count unknown: page 1 tells us how many there are.
		page := h.pages.Page(q, 1)
		body, err := h.get.Fetch(ctx, page.URL)
		if err != nil {
			log.Warn("listing fetch failed", "url", page.URL, "err", err)
			res.failed++
			return res
		}
		res.fetched++
		refs := pubmed.ExtractArticleRefs(page, body)
		if len(refs) == 0 {
			log.Info("no results", "url", page.URL)
			res.empty++
			return res
		}
		res.refs = append(res.refs, refs...)

		total := pubmed.TotalPages(body)
		if total > h.maxAutoPages {
			log.Info("capping page count", "reported", total, "cap", h.maxAutoPages)
			total = h.maxAutoPages
		}
		if total <= 1 {
			return res
		}
		q.MaxPages = total
		firstPage = 2
	}

	log.Debug("phase", "phase", PhaseListingFetch, "pages", q.MaxPages)
	next, stop := iter.Pull(h.pages.Pages(q))
	defer stop()

	for {
		var window []types.ListingPage
		for len(window) < h.window {
			page, ok := next()
			if !ok {
				break
			}
			if page.PageNumber < firstPage {
				continue
			}
			window = append(window, page)
		}
		if len(window) == 0 {
			return res
		}

		results := h.fetchListings(ctx, window)
		exhausted := false
		for i, r := range results {
			switch {
			case r.err != nil:
				log.Warn("listing fetch failed", "url", window[i].URL, "err", r.err)
				res.failed++
			case len(r.refs) == 0:
				log.Debug("empty listing page", "url", window[i].URL)
				res.fetched++
				res.empty++
				exhausted = true
			default:
				res.fetched++
				res.refs = append(res.refs, r.refs...)
				exhausted = false
			}
		}
		if exhausted {
			log.Info("results exhausted", "last_page", window[len(window)-1].PageNumber)
			return res
		}
		if ctx.Err() != nil {
			return res
		}
	}
}

type pageResult struct {
	refs []types.ArticleRef
	err  error
}

// fetchListings fetches a window of listing pages concurrently and returns
// their results in window order.
func (h *Harvester) fetchListings(ctx context.Context, window []types.ListingPage) []pageResult {
	results := make([]pageResult, len(window))
	var wg sync.WaitGroup
	for i, page := range window {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := h.get.Fetch(ctx, page.URL)
			if err != nil {
				results[i] = pageResult{err: err}
				return
			}
			results[i] = pageResult{refs: pubmed.ExtractArticleRefs(page, body)}
		}()
	}
	wg.Wait()
	return results
}

// deduplicate keeps the first ref for each detail URL and records which
// keywords led to each URL.
func deduplicate(refs []types.ArticleRef) ([]types.ArticleRef, map[string][]string, int) {
	seen := make(map[string]bool, len(refs))
	terms := make(map[string][]string, len(refs))
	var unique []types.ArticleRef
	removed := 0

	for _, r := range refs {
		kw := r.SourceListing.Query.Keyword
		if !slices.Contains(terms[r.DetailURL], kw) {
			terms[r.DetailURL] = append(terms[r.DetailURL], kw)
		}
		if seen[r.DetailURL] {
			removed++
			continue
		}
		seen[r.DetailURL] = true
		unique = append(unique, r)
	}
	return unique, terms, removed
}

type articleResult struct {
	idx int
	rec types.ArticleRecord
	err error
}

// fetchArticles fetches and parses every ref concurrently. Results are
// funneled through one channel to a single collector, then returned in ref
// order with failures dropped.
func (h *Harvester) fetchArticles(ctx context.Context, refs []types.ArticleRef) ([]types.ArticleRecord, int) {
	ch := make(chan articleResult, len(refs))
	var wg sync.WaitGroup

	for i, ref := range refs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := h.get.Fetch(ctx, ref.DetailURL)
			if err != nil {
				ch <- articleResult{idx: i, err: err}
				return
			}
			ch <- articleResult{idx: i, rec: pubmed.ExtractRecord(ref, body)}
		}()
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	slots := make([]*types.ArticleRecord, len(refs))
	failed := 0
	for r := range ch {
		if r.err != nil {
			h.log.Warn("article fetch failed", "url", refs[r.idx].DetailURL, "err", r.err)
			failed++
			continue
		}
		slots[r.idx] = &r.rec
	}

	records := make([]types.ArticleRecord, 0, len(refs)-failed)
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, failed
}
