// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// strategy is one way of locating a field on an article page. ok is false
// when the markup it looks for is absent or empty.
type strategy[T any] struct {
	name    string
	extract func(doc *goquery.Document) (value T, ok bool)
}

// resolve runs strategies in order and returns the first value found along
// with the name of the strategy that produced it. When every strategy
// misses, it returns the zero value and "".
func resolve[T any](doc *goquery.Document, strategies []strategy[T]) (T, string) {
	for _, s := range strategies {
		if v, ok := s.extract(doc); ok {
			return v, s.name
		}
	}
	var zero T
	return zero, ""
}

var titleStrategies = []strategy[string]{
	{"meta-citation-title", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(strings.Trim(metaContent(doc, "citation_title"), "[]"))
	}},
	{"heading-title", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(doc.Find("h1.heading-title").First().Text())
	}},
	{"og-title", func(doc *goquery.Document) (string, bool) {
		v, _ := doc.Find("meta[property='og:title']").First().Attr("content")
		return nonEmpty(v)
	}},
}

var abstractStrategies = []strategy[string]{
	{"abstract-content", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(joinParagraphs(doc.Find("div.abstract-content.selected p")))
	}},
	{"eng-abstract", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(joinParagraphs(doc.Find("#eng-abstract p")))
	}},
	{"meta-description", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(metaContent(doc, "description"))
	}},
}

var authorStrategies = []strategy[[]string]{
	{"authors-list", func(doc *goquery.Document) ([]string, bool) {
		return nonEmptyList(texts(doc.Find("div.authors-list").First().Find("a.full-name")))
	}},
	{"meta-citation-authors", func(doc *goquery.Document) ([]string, bool) {
		return nonEmptyList(uniq(splitList(metaContent(doc, "citation_authors"), ";")))
	}},
}

var affiliationStrategies = []strategy[[]string]{
	{"affiliations-list", func(doc *goquery.Document) ([]string, bool) {
		return nonEmptyList(affiliationTexts(doc.Find("div.affiliations ul.item-list li")))
	}},
	{"item-list", func(doc *goquery.Document) ([]string, bool) {
		return nonEmptyList(affiliationTexts(doc.Find("ul.item-list").First().Find("li")))
	}},
	{"meta-author-institution", func(doc *goquery.Document) ([]string, bool) {
		var out []string
		doc.Find("meta[name='citation_author_institution']").Each(func(_ int, s *goquery.Selection) {
			v, _ := s.Attr("content")
			out = append(out, normalizeSpace(v))
		})
		return nonEmptyList(uniq(out))
	}},
}

var journalStrategies = []strategy[string]{
	{"meta-journal-title", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(metaContent(doc, "citation_journal_title"))
	}},
	{"journal-trigger", func(doc *goquery.Document) (string, bool) {
		trigger := doc.Find("#full-view-journal-trigger, button.journal-actions-trigger").First()
		if v, ok := trigger.Attr("title"); ok && normalizeSpace(v) != "" && !strings.EqualFold(normalizeSpace(v), "journal full name") {
			return nonEmpty(v)
		}
		return nonEmpty(trigger.Text())
	}},
	{"meta-publisher", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(metaContent(doc, "citation_publisher"))
	}},
}

var keywordStrategies = []strategy[[]string]{
	{"abstract-keywords", func(doc *goquery.Document) ([]string, bool) {
		var kws []string
		doc.Find("strong.sub-title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if normalizeSpace(s.Text()) != "Keywords:" {
				return true
			}
			text := normalizeSpace(s.Parent().Text())
			text = strings.TrimSpace(strings.TrimPrefix(text, "Keywords:"))
			kws = splitList(text, ";")
			return false
		})
		return nonEmptyList(kws)
	}},
	{"meta-keywords", func(doc *goquery.Document) ([]string, bool) {
		return nonEmptyList(uniq(splitList(metaContent(doc, "citation_keywords"), ";")))
	}},
}

var dateStrategies = []strategy[string]{
	{"citation-year", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(doc.Find("time.citation-year").First().Text())
	}},
	{"meta-citation-date", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(metaContent(doc, "citation_date"))
	}},
	{"meta-publication-date", func(doc *goquery.Document) (string, bool) {
		return nonEmpty(metaContent(doc, "citation_publication_date"))
	}},
	{"cit", func(doc *goquery.Document) (string, bool) {
		cit := doc.Find("span.cit").First().Text()
		return nonEmpty(strings.SplitN(cit, ";", 2)[0])
	}},
}

// ExtractRecord pulls article metadata out of a detail page body. Fields
// are located independently; any field whose markup is missing is left
// empty, and a body that is not HTML at all yields a record holding only
// the URL. Extracted text is whitespace-normalized.
func ExtractRecord(ref types.ArticleRef, body []byte) types.ArticleRecord {
	rec := types.ArticleRecord{URL: ref.DetailURL}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return rec
	}

	rec.Title, _ = resolve(doc, titleStrategies)
	rec.Abstract, _ = resolve(doc, abstractStrategies)
	rec.Authors, _ = resolve(doc, authorStrategies)
	rec.Affiliations, _ = resolve(doc, affiliationStrategies)
	rec.Journal, _ = resolve(doc, journalStrategies)
	rec.Keywords, _ = resolve(doc, keywordStrategies)
	rec.Date, _ = resolve(doc, dateStrategies)
	return rec
}

func metaContent(doc *goquery.Document, name string) string {
	v, _ := doc.Find("meta[name='" + name + "']").First().Attr("content")
	return v
}

func nonEmpty(s string) (string, bool) {
	s = normalizeSpace(s)
	return s, s != ""
}

func nonEmptyList(in []string) ([]string, bool) {
	return in, len(in) > 0
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, normalizeSpace(s.Text()))
	})
	return uniq(out)
}

// joinParagraphs joins structured-abstract sections (background, methods,
// results...) into one string.
func joinParagraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, p *goquery.Selection) {
		if t := normalizeSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// affiliationTexts returns list-item text with the numeric author keys
// (<sup class="key">1</sup>) removed.
func affiliationTexts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, li *goquery.Selection) {
		c := li.Clone()
		c.Find("sup.key, sup").Remove()
		out = append(out, normalizeSpace(c.Text()))
	})
	return uniq(out)
}
