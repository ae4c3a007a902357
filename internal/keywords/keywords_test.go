// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keywords

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

func TestLoad(t *testing.T) {
	input := "covid-19\n\n  # comment\n  gene   therapy  \r\ncrispr"
	kws, err := Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"covid-19", "gene therapy", "crispr"}, kws)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	kws, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, kws)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestBuildQueries(t *testing.T) {
	qs, err := BuildQueries([]string{"x", "Gene Therapy", "gene therapy", "y"}, 2019, 2020, 2)
	require.NoError(t, err)

	require.Len(t, qs, 3)
	assert.Equal(t, "x", qs[0].Keyword)
	assert.Equal(t, "Gene Therapy", qs[1].Keyword)
	assert.Equal(t, "y", qs[2].Keyword)
	for _, q := range qs {
		assert.Equal(t, 2019, q.StartYear)
		assert.Equal(t, 2020, q.StopYear)
		assert.Equal(t, 2, q.MaxPages)
	}
}

func TestBuildQueries_SameYearIsValid(t *testing.T) {
	qs, err := BuildQueries([]string{"x"}, 2020, 2020, 0)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestBuildQueries_ConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		kws         []string
		start, stop int
		pages       int
		field       string
	}{
		{"empty list", nil, 2019, 2020, 1, "keywords"},
		{"only blanks", []string{" ", ""}, 2019, 2020, 1, "keywords"},
		{"reversed range", []string{"x"}, 2021, 2019, 1, "year range"},
		{"zero year", []string{"x"}, 0, 2019, 1, "year range"},
		{"negative pages", []string{"x"}, 2019, 2020, -1, "pages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQueries(tt.kws, tt.start, tt.stop, tt.pages)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "want ConfigError, got %v", err)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, ce.Error(), "invalid "+tt.field)
		})
	}
}

func TestValidateConfig(t *testing.T) {
	valid := types.ScrapeConfig{Concurrency: 20, RequestsPerSecond: 8}
	require.NoError(t, ValidateConfig(valid))

	tests := []struct {
		name  string
		edit  func(*types.ScrapeConfig)
		field string
	}{
		{"zero concurrency", func(c *types.ScrapeConfig) { c.Concurrency = 0 }, "concurrency"},
		{"negative concurrency", func(c *types.ScrapeConfig) { c.Concurrency = -3 }, "concurrency"},
		{"negative rate", func(c *types.ScrapeConfig) { c.RequestsPerSecond = -1 }, "rate"},
		{"negative retries", func(c *types.ScrapeConfig) { c.Retries = -1 }, "retries"},
		{"negative window", func(c *types.ScrapeConfig) { c.ListingWindow = -2 }, "listing window"},
		{"negative timeout", func(c *types.ScrapeConfig) { c.Timeout = -time.Second }, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.edit(&cfg)
			var ce *ConfigError
			require.ErrorAs(t, ValidateConfig(cfg), &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}
