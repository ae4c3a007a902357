// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	URL            string    `yaml:"URL"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate holds CSL date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes records as a CSL-YAML list.
func WriteCSL(w io.Writer, records []types.ArticleRecord) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		return err
	}
	return enc.Close()
}

func toCSLItem(r types.ArticleRecord) CSLItem {
	pmid := pmidFromURL(r.URL)
	item := CSLItem{
		ID:             r.URL,
		Type:           "article-journal",
		Title:          r.Title,
		ContainerTitle: r.Journal,
		Abstract:       r.Abstract,
		Keyword:        strings.Join(r.Keywords, ", "),
		Issued:         parseIssued(r.Date),
		PMID:           pmid,
		URL:            r.URL,
	}
	if pmid != "" {
		item.ID = "pmid:" + pmid
	}
	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	return item
}

// parseAuthorName splits a full name on its last space: everything before
// is given, the last token is family. Single-token names use literal.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

// dateLayouts are the citation date shapes article pages use, most specific
// first.
var dateLayouts = []struct {
	layout string
	parts  int
}{
	{"2006 Jan 2", 3},
	{"2006 Jan", 2},
	{"2006-01-02", 3},
	{"2006/01/02", 3},
	{"2006", 1},
}

// parseIssued converts a citation date into date-parts at the precision the
// string carries. Seasons and ranges ("2020 Spring", "2019 Nov-Dec") fall
// back to the leading year.
func parseIssued(date string) *CSLDate {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil
	}
	for _, dl := range dateLayouts {
		t, err := time.Parse(dl.layout, date)
		if err != nil {
			continue
		}
		parts := []int{t.Year(), int(t.Month()), t.Day()}[:dl.parts]
		return &CSLDate{DateParts: [][]int{parts}}
	}
	if len(date) >= 4 {
		if t, err := time.Parse("2006", date[:4]); err == nil {
			return &CSLDate{DateParts: [][]int{{t.Year()}}}
		}
	}
	return nil
}

// pmidFromURL returns the numeric last path segment of an article URL.
func pmidFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	seg := path.Base(strings.TrimSuffix(u.Path, "/"))
	if seg == "" || strings.Trim(seg, "0123456789") != "" {
		return ""
	}
	return seg
}
