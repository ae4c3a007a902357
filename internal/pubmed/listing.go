// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// ExtractArticleRefs returns one ArticleRef per distinct article linked from
// a listing page, in page order. A page with no article links (past the last
// page of results, or not a listing at all) yields nil.
//
// The PMIDs the page logs in meta[name=log_displayeduids] are preferred;
// the result-summary title links are used when that tag is missing.
func ExtractArticleRefs(page types.ListingPage, body []byte) []types.ArticleRef {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil
	}
	base.RawQuery = ""
	base.Fragment = ""
	root := strings.TrimRight(base.String(), "/")

	urls := displayedUIDs(doc, root)
	if len(urls) == 0 {
		urls = docsumLinks(doc, base, root)
	}

	urls = uniq(urls)
	if len(urls) == 0 {
		return nil
	}
	refs := make([]types.ArticleRef, len(urls))
	for i, u := range urls {
		refs[i] = types.ArticleRef{SourceListing: page, DetailURL: u}
	}
	return refs
}

func displayedUIDs(doc *goquery.Document, root string) []string {
	content, ok := doc.Find("meta[name='log_displayeduids']").First().Attr("content")
	if !ok {
		return nil
	}
	var out []string
	for _, id := range strings.Split(content, ",") {
		id = strings.TrimSpace(id)
		if isDigits(id) {
			out = append(out, root+"/"+id+"/")
		}
	}
	return out
}

func docsumLinks(doc *goquery.Document, base *url.URL, root string) []string {
	var out []string
	doc.Find("a.docsum-title, .docsum-content a[data-article-id]").Each(func(_ int, a *goquery.Selection) {
		if id, ok := a.Attr("data-article-id"); ok && isDigits(strings.TrimSpace(id)) {
			out = append(out, root+"/"+strings.TrimSpace(id)+"/")
			return
		}
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		href = strings.TrimSpace(href)
		if id := strings.Trim(path.Clean("/"+strings.SplitN(href, "?", 2)[0]), "/"); isDigits(id) {
			out = append(out, root+"/"+id+"/")
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		out = append(out, base.ResolveReference(ref).String())
	})
	return out
}

// TotalPages reads the number of result pages a listing page reports, or 0
// when the page does not say.
func TotalPages(body []byte) int {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0
	}

	if n := parseCount(doc.Find("span.total-pages").First().Text()); n > 0 {
		return n
	}
	if v, ok := doc.Find("input.page-number").First().Attr("max"); ok {
		if n := parseCount(v); n > 0 {
			return n
		}
	}
	return 0
}

// parseCount parses "1,234" style counts.
func parseCount(s string) int {
	s = strings.ReplaceAll(normalizeSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
