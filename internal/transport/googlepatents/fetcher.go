// Package googlepatents scrapes patent metadata from Google Patents pages.
package googlepatents

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentsim/internal/domain"
	"github.com/kailas-cloud/patentsim/internal/metrics"
)

// DefaultBaseURL is the public Google Patents site.
const DefaultBaseURL = "https://patents.google.com"

const (
	selectorTitle    = `span[itemprop="title"]`
	selectorAbstract = "div.abstract"
	selectorClaims   = "div.claims"
)

// Config holds the fetcher settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

// Fetcher downloads and parses patent pages.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	logger    *zap.Logger
}

// New creates a fetcher. A zero Timeout leaves the client without a deadline.
func New(cfg Config) *Fetcher {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// PageURL returns the English page URL for a patent number.
func (f *Fetcher) PageURL(number string) string {
	return f.baseURL + "/patent/" + url.PathEscape(number) + "/en"
}

// Fetch downloads the patent page and extracts title, abstract and claims.
// Network failures, non-2xx responses and unparsable HTML wrap domain.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, number string) (domain.Patent, error) {
	start := time.Now()
	defer func() { metrics.FetchDuration.Observe(time.Since(start).Seconds()) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.PageURL(number), http.NoBody)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("network_error").Inc()
		return domain.Patent{}, fmt.Errorf("build request for %s: %v: %w", number, err, domain.ErrFetchFailed)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("network_error").Inc()
		return domain.Patent{}, fmt.Errorf("get %s: %v: %w", number, err, domain.ErrFetchFailed)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.FetchTotal.WithLabelValues("http_error").Inc()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return domain.Patent{}, fmt.Errorf("get %s: status %d: %w", number, resp.StatusCode, domain.ErrFetchFailed)
	}

	p, err := ParsePage(number, resp.Body)
	if err != nil {
		metrics.FetchTotal.WithLabelValues("parse_error").Inc()
		return domain.Patent{}, err
	}

	metrics.FetchTotal.WithLabelValues("success").Inc()
	f.logger.Debug("Fetched patent page",
		zap.String("number", number),
		zap.Int("title_len", len(p.Title)),
		zap.Int("abstract_len", len(p.Abstract)),
		zap.Int("claims_len", len(p.Claims)),
	)
	return p, nil
}

// ParsePage extracts the patent fields from an HTML document.
// Missing elements yield empty strings; whitespace runs collapse to one space.
func ParsePage(number string, r io.Reader) (domain.Patent, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Patent{}, fmt.Errorf("parse %s: %v: %w", number, err, domain.ErrFetchFailed)
	}
	return domain.Patent{
		Number:   number,
		Title:    firstText(doc, selectorTitle),
		Abstract: firstText(doc, selectorAbstract),
		Claims:   firstText(doc, selectorClaims),
	}, nil
}

func firstText(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
