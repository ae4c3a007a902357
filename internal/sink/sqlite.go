// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		url TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		pmid TEXT,
		title TEXT,
		abstract TEXT,
		affiliations TEXT,
		authors TEXT,
		journal TEXT,
		date TEXT,
		keywords TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS article_terms (
		url TEXT NOT NULL REFERENCES articles(url),
		term TEXT NOT NULL,
		PRIMARY KEY (url, term)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_article_terms_term ON article_terms(term)`,
}

// writeSQLite creates a database at path holding one row per record and
// one row per (record, search keyword) pair. List fields are stored as JSON
// arrays.
func writeSQLite(path string, ds types.Dataset) error {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	insArticle, err := tx.Prepare(`INSERT INTO articles
		(url, position, pmid, title, abstract, affiliations, authors, journal, date, keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing article insert: %w", err)
	}
	defer insArticle.Close()

	insTerm, err := tx.Prepare(`INSERT OR IGNORE INTO article_terms (url, term) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing term insert: %w", err)
	}
	defer insTerm.Close()

	for i, r := range ds.Records {
		if _, err := insArticle.Exec(
			r.URL, i, pmidFromURL(r.URL), r.Title, r.Abstract,
			jsonList(r.Affiliations), jsonList(r.Authors),
			r.Journal, r.Date, jsonList(r.Keywords),
		); err != nil {
			return fmt.Errorf("inserting %s: %w", r.URL, err)
		}
		for _, term := range ds.Terms[r.URL] {
			if _, err := insTerm.Exec(r.URL, term); err != nil {
				return fmt.Errorf("inserting term for %s: %w", r.URL, err)
			}
		}
	}

	return tx.Commit()
}

func jsonList(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(v)
	return string(data)
}
