// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves page bodies over HTTP behind a concurrency gate.
// A failed fetch is reported as a typed *Error so callers can skip the page
// and keep going.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/pubmed-scraper/internal/gate"
	"github.com/pdiddy/pubmed-scraper/internal/httputil"
	"github.com/pdiddy/pubmed-scraper/pkg/types"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 10 << 20
)

// Kind classifies why a fetch failed.
type Kind int

const (
	// KindTransport is a connection-level failure (DNS, refused, reset).
	KindTransport Kind = iota
	// KindTimeout means the request exceeded its deadline.
	KindTimeout
	// KindStatus means the server answered with a non-200 status.
	KindStatus
	// KindBody means the response body could not be read.
	KindBody
	// KindCanceled means the caller's context ended before the request ran.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindBody:
		return "body"
	case KindCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error describes a failed fetch.
type Error struct {
	URL        string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Getter fetches the body at a URL. *Fetcher implements it; the harvest
// stage depends on this interface so tests can substitute canned pages.
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Fetcher performs gated GET requests.
type Fetcher struct {
	client *http.Client
	gate   *gate.Gate
	cfg    types.HTTPConfig
	log    *slog.Logger
}

// New creates a Fetcher that holds a slot of g for the lifetime of each
// request. Zero-valued settings in cfg fall back to defaults.
func New(cfg types.HTTPConfig, g *gate.Gate, log *slog.Logger) (*Fetcher, error) {
	if g == nil {
		return nil, errors.New("fetch: gate is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if len(cfg.UserAgents) == 0 {
		cfg.UserAgents = types.DefaultUserAgents
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		u, err := url.Parse(cfg.Proxy)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("fetch: invalid proxy URL %q", redact(cfg.Proxy))
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		gate:   g,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Fetch GETs url and returns the response body. Any failure is returned as
// *Error. The gate slot is released on every return path.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	release, err := f.gate.Acquire(ctx)
	if err != nil {
		return nil, &Error{URL: url, Kind: KindCanceled, Err: err}
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Kind: KindTransport, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := httputil.DoWithRetry(ctx, f.client, req, f.cfg.Retries, f.log)
	if err != nil {
		return nil, &Error{URL: url, Kind: classify(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
		return nil, &Error{URL: url, Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes))
	if err != nil {
		kind := KindBody
		if classify(err) == KindTimeout {
			kind = KindTimeout
		}
		return nil, &Error{URL: url, Kind: kind, Err: err}
	}

	f.log.Debug("fetched", "url", url, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func (f *Fetcher) userAgent() string {
	return f.cfg.UserAgents[rand.IntN(len(f.cfg.UserAgents))]
}

// classify maps a transport error onto a Kind.
func classify(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindTransport
}

// redact hides any password in a proxy URL.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
