// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

func testQuery() types.SearchQuery {
	return types.SearchQuery{Keyword: "crispr", StartYear: 2019, StopYear: 2020, MaxPages: 3}
}

// --- Paginator ---

func TestNewPaginator_Validation(t *testing.T) {
	_, err := NewPaginator("not a url")
	assert.Error(t, err)
	_, err = NewPaginator("://bad")
	assert.Error(t, err)

	p, err := NewPaginator("https://pubmed.ncbi.nlm.nih.gov/")
	require.NoError(t, err)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/123/", p.ArticleURL("123"))
}

func TestPaginator_PageURL(t *testing.T) {
	p, err := NewPaginator(types.DefaultBaseURL)
	require.NoError(t, err)

	page := p.Page(testQuery(), 2)
	assert.Equal(t, 2, page.PageNumber)
	assert.Equal(t, testQuery(), page.Query)

	u, err := url.Parse(page.URL)
	require.NoError(t, err)
	assert.Equal(t, "pubmed.ncbi.nlm.nih.gov", u.Host)
	assert.Equal(t, "2019:2020[dp] crispr", u.Query().Get("term"))
	assert.Equal(t, "2", u.Query().Get("page"))
}

func TestPaginator_PagesIsDeterministic(t *testing.T) {
	p, err := NewPaginator(types.DefaultBaseURL)
	require.NoError(t, err)

	var first, second []string
	for page := range p.Pages(testQuery()) {
		first = append(first, page.URL)
	}
	for page := range p.Pages(testQuery()) {
		second = append(second, page.URL)
	}
	assert.Len(t, first, 3)
	assert.Equal(t, first, second)
}

func TestPaginator_PagesStopsEarly(t *testing.T) {
	p, err := NewPaginator(types.DefaultBaseURL)
	require.NoError(t, err)

	var seen []int
	for page := range p.Pages(testQuery()) {
		seen = append(seen, page.PageNumber)
		if page.PageNumber == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, seen)
}

func TestPaginator_ZeroPages(t *testing.T) {
	p, err := NewPaginator(types.DefaultBaseURL)
	require.NoError(t, err)
	q := testQuery()
	q.MaxPages = 0
	for range p.Pages(q) {
		t.Fatal("no pages expected")
	}
}

// --- Listing parser ---

func listingPage(t *testing.T) types.ListingPage {
	t.Helper()
	p, err := NewPaginator("https://pubmed.example.org")
	require.NoError(t, err)
	return p.Page(testQuery(), 1)
}

func TestExtractArticleRefs_FromDisplayedUIDs(t *testing.T) {
	page := listingPage(t)
	refs := ExtractArticleRefs(page, []byte(listingHTML))

	require.Len(t, refs, 3)
	assert.Equal(t, "https://pubmed.example.org/32023415/", refs[0].DetailURL)
	assert.Equal(t, "https://pubmed.example.org/31978945/", refs[1].DetailURL)
	assert.Equal(t, "https://pubmed.example.org/31992387/", refs[2].DetailURL)
	for _, r := range refs {
		assert.Equal(t, page, r.SourceListing)
	}
}

func TestExtractArticleRefs_DocsumFallbackDedups(t *testing.T) {
	refs := ExtractArticleRefs(listingPage(t), []byte(listingDocsumOnlyHTML))

	require.Len(t, refs, 2)
	assert.Equal(t, "https://pubmed.example.org/111/", refs[0].DetailURL)
	assert.Equal(t, "https://pubmed.example.org/222/", refs[1].DetailURL)
}

func TestExtractArticleRefs_KDistinctLinks(t *testing.T) {
	for _, k := range []int{1, 5, 10} {
		var ids []string
		for i := 0; i < k; i++ {
			ids = append(ids, strings.Repeat("9", i+1))
		}
		body := `<html><head><meta name="log_displayeduids" content="` + strings.Join(ids, ",") + `"></head></html>`

		refs := ExtractArticleRefs(listingPage(t), []byte(body))
		require.Len(t, refs, k)
		seen := map[string]bool{}
		for _, r := range refs {
			assert.False(t, seen[r.DetailURL], "duplicate %s", r.DetailURL)
			seen[r.DetailURL] = true
		}
	}
}

func TestExtractArticleRefs_EmptyPages(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no results", emptyListingHTML},
		{"empty body", ""},
		{"not html", "\x00\x01garbage"},
		{"blank uid list", `<meta name="log_displayeduids" content="">`},
		{"non numeric uids", `<meta name="log_displayeduids" content="abc, ,x1">`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ExtractArticleRefs(listingPage(t), []byte(tt.body)))
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"span", listingHTML, 124},
		{"commas", `<span class="total-pages">1,234</span>`, 1234},
		{"input max", `<input class="page-number" max="7">`, 7},
		{"missing", emptyListingHTML, 0},
		{"garbage", `<span class="total-pages">many</span>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages([]byte(tt.body)))
		})
	}
}

// --- Article parser ---

func articleRef() types.ArticleRef {
	return types.ArticleRef{DetailURL: "https://pubmed.example.org/32023415/"}
}

func TestExtractRecord_FullPage(t *testing.T) {
	rec := ExtractRecord(articleRef(), []byte(articleHTML))

	assert.Equal(t, "https://pubmed.example.org/32023415/", rec.URL)
	assert.Equal(t, "Genome editing with CRISPR-Cas9 in human cells", rec.Title)
	assert.Equal(t, "Background: Genome editing is useful. Results: It works.", rec.Abstract)
	assert.Equal(t, []string{"Ilia Zenkov", "Ada Lovelace"}, rec.Authors)
	assert.Equal(t, []string{
		"Department of Biology, University of Somewhere, City, Country.",
		"Institute of Computing, London, UK.",
	}, rec.Affiliations)
	assert.Equal(t, "Nature Biotechnology", rec.Journal)
	assert.Equal(t, []string{"CRISPR", "genome editing", "Cas9"}, rec.Keywords)
	assert.Equal(t, "2020 Feb", rec.Date)
}

func TestExtractRecord_Fallbacks(t *testing.T) {
	rec := ExtractRecord(articleRef(), []byte(articleMinimalHTML))

	assert.Equal(t, "Fallback title", rec.Title)
	assert.Equal(t, "", rec.Abstract)
	assert.Equal(t, []string{"Smith J", "Doe A"}, rec.Authors)
	assert.Equal(t, []string{"Lab One", "Lab Two"}, rec.Affiliations)
	assert.Equal(t, "J Test", rec.Journal)
	assert.Equal(t, []string{"alpha", "beta"}, rec.Keywords)
	assert.Equal(t, "2019/05/01", rec.Date)
}

func TestExtractRecord_MalformedNeverFails(t *testing.T) {
	for _, body := range []string{"", "<html", "<<<>>>", "\x00\xff", emptyListingHTML} {
		rec := ExtractRecord(articleRef(), []byte(body))
		assert.Equal(t, articleRef().DetailURL, rec.URL)
		assert.Empty(t, rec.Authors)
		assert.Empty(t, rec.Keywords)
		assert.Empty(t, rec.Journal)
	}
}

func TestExtractRecord_KeywordsAbsentWhenLastSubtitleIsNotKeywords(t *testing.T) {
	body := `<div class="abstract"><div class="abstract-content selected">
		<p><strong class="sub-title">Methods:</strong> We did things.</p></div></div>`
	rec := ExtractRecord(articleRef(), []byte(body))
	assert.Empty(t, rec.Keywords)
	assert.Equal(t, "Methods: We did things.", rec.Abstract)
}

func TestResolve_ReportsWinningStrategy(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleMinimalHTML))
	require.NoError(t, err)

	title, name := resolve(doc, titleStrategies)
	assert.Equal(t, "Fallback title", title)
	assert.Equal(t, "og-title", name)

	abstract, name := resolve(doc, abstractStrategies)
	assert.Equal(t, "", abstract)
	assert.Equal(t, "", name)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b c", "d"}, splitList(" a ;b   c; ;d.", ";"))
	assert.Nil(t, splitList("", ";"))
}
