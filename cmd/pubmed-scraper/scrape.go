// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-scraper/internal/fetch"
	"github.com/pdiddy/pubmed-scraper/internal/gate"
	"github.com/pdiddy/pubmed-scraper/internal/harvest"
	"github.com/pdiddy/pubmed-scraper/internal/keywords"
	"github.com/pdiddy/pubmed-scraper/internal/logging"
	"github.com/pdiddy/pubmed-scraper/internal/pubmed"
	"github.com/pdiddy/pubmed-scraper/internal/secrets"
	"github.com/pdiddy/pubmed-scraper/internal/sink"
	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultConcurrency  = 20
	defaultRate         = 8.0
	defaultMaxAutoPages = 100
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Search PubMed for each keyword and save article metadata",
	Long: `Scrape reads keywords (one per line, '#' starts a comment) from a file or
from --keyword flags, searches PubMed for each one over the publication year
range, and writes one row per unique article to the output file.

With --pages 0 (the default) every result page the site reports is visited,
up to --max-auto-pages. Unreachable pages are logged and skipped.`,
	RunE: runScrape,
}

func init() {
	f := scrapeCmd.Flags()
	f.StringSlice("keyword", nil, "keyword to search (repeatable; overrides --keywords-file)")
	f.String("keywords-file", "keywords.txt", "file with one keyword per line")
	f.Int("pages", 0, "result pages to visit per keyword (0 = all reported pages)")
	f.Int("start", 2019, "first publication year")
	f.Int("stop", 2020, "last publication year")
	f.StringP("output", "o", "articles", "output file name; the format's extension is appended if missing")
	f.String("format", "csv", "output format: csv, json, yaml, csl, or sqlite")
	f.Int("concurrency", defaultConcurrency, "maximum requests in flight")
	f.Float64("rate", defaultRate, "maximum requests started per second (0 = unpaced)")
	f.Duration("timeout", defaultTimeout, "per-request timeout")
	f.Int("retries", 0, "retries on HTTP 429")
	f.Int("listing-window", 0, "listing pages fetched together per keyword (0 = concurrency)")
	f.Int("max-auto-pages", defaultMaxAutoPages, "page cap when --pages is 0")
	f.String("base-url", types.DefaultBaseURL, "search site root")
	f.String("proxy", "", "proxy URL (default: .secrets/http-proxy, then environment)")
	f.String("secrets-dir", ".secrets", "directory of credential files")

	for _, name := range []string{
		"keyword", "keywords-file", "pages", "start", "stop", "output", "format",
		"concurrency", "rate", "timeout", "retries", "listing-window", "max-auto-pages",
		"base-url", "proxy", "secrets-dir",
	} {
		viper.BindPFlag(name, f.Lookup(name))
	}

	rootCmd.AddCommand(scrapeCmd)
}

// scrapeOptions is the resolved input of one scrape run.
type scrapeOptions struct {
	Keywords     []string
	KeywordsFile string
	Pages        int
	StartYear    int
	StopYear     int
	Output       string
	Format       string
	SecretsDir   string
	Config       types.ScrapeConfig
}

func optionsFromViper(v *viper.Viper) scrapeOptions {
	return scrapeOptions{
		Keywords:     v.GetStringSlice("keyword"),
		KeywordsFile: v.GetString("keywords-file"),
		Pages:        v.GetInt("pages"),
		StartYear:    v.GetInt("start"),
		StopYear:     v.GetInt("stop"),
		Output:       v.GetString("output"),
		Format:       v.GetString("format"),
		SecretsDir:   v.GetString("secrets-dir"),
		Config: types.ScrapeConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    v.GetDuration("timeout"),
				Retries:    v.GetInt("retries"),
				UserAgents: v.GetStringSlice("user-agents"),
				Proxy:      v.GetString("proxy"),
			},
			BaseURL:           v.GetString("base-url"),
			Concurrency:       v.GetInt("concurrency"),
			RequestsPerSecond: v.GetFloat64("rate"),
			ListingWindow:     v.GetInt("listing-window"),
			MaxAutoPages:      v.GetInt("max-auto-pages"),
		},
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	log := logging.New(viper.GetString("log-level"), cmd.ErrOrStderr())
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return scrape(ctx, optionsFromViper(viper.GetViper()), cmd.OutOrStdout(), log)
}

// plan is a validated run: everything is checked before the first request.
type plan struct {
	queries []types.SearchQuery
	format  types.OutputFormat
	path    string
}

func planRun(opts scrapeOptions) (plan, error) {
	kws := opts.Keywords
	if len(kws) == 0 {
		var err error
		kws, err = keywords.LoadFile(opts.KeywordsFile)
		if err != nil {
			return plan{}, err
		}
	}
	queries, err := keywords.BuildQueries(kws, opts.StartYear, opts.StopYear, opts.Pages)
	if err != nil {
		return plan{}, err
	}
	if err := keywords.ValidateConfig(opts.Config); err != nil {
		return plan{}, err
	}
	format, err := sink.ParseFormat(opts.Format)
	if err != nil {
		return plan{}, err
	}
	if opts.Output == "" {
		return plan{}, &keywords.ConfigError{Field: "output", Reason: "file name is empty"}
	}
	return plan{queries: queries, format: format, path: sink.OutputPath(opts.Output, format)}, nil
}

func scrape(ctx context.Context, opts scrapeOptions, stdout io.Writer, log *slog.Logger) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p, err := planRun(opts)
	if err != nil {
		return err
	}

	sec, err := secrets.Load(opts.SecretsDir, log)
	if err != nil {
		return err
	}
	if keys := sec.Keys(); len(keys) > 0 {
		log.Debug("loaded secrets", "keys", keys)
	}
	cfg := opts.Config
	cfg.Proxy = sec.Get(secrets.ProxyKey, cfg.Proxy)

	g, err := gate.New(cfg.Concurrency, cfg.RequestsPerSecond)
	if err != nil {
		return err
	}
	fetcher, err := fetch.New(cfg.HTTPConfig, g, log)
	if err != nil {
		return err
	}
	pages, err := pubmed.NewPaginator(cfg.BaseURL)
	if err != nil {
		return err
	}

	out, runErr := harvest.New(fetcher, pages, cfg, log).Run(ctx, p.queries)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if err := sink.WriteFile(p.path, p.format, out.Dataset); err != nil {
		return err
	}

	s := out.Stats
	fmt.Fprintf(stdout, "Found %d article URLs for %d keyword(s) in %.1f seconds.\n",
		s.RefsFound, s.Keywords, s.Elapsed.Seconds())
	fmt.Fprintf(stdout, "Saved %d unique articles to %s", s.Records, p.path)
	if failed := s.ListingFailures + s.ArticleFailures; failed > 0 {
		fmt.Fprintf(stdout, " (%d page(s) could not be fetched)", failed)
	}
	fmt.Fprintln(stdout, ".")

	if runErr != nil {
		return fmt.Errorf("scrape interrupted, partial results saved: %w", runErr)
	}
	return nil
}
