package patentsim

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Client calls the patentsim HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	logger   *slog.Logger           // nil = no logging
	requests *prometheus.CounterVec // nil = no metrics
	latency  *prometheus.HistogramVec
}

// New creates a Client for the server at baseURL (e.g. "http://127.0.0.1:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout, userAgent: "patentsim-sdk"}
	for _, o := range opts {
		o.apply(cfg)
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("patentsim: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("patentsim: base url must be http or https, got %q", baseURL)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	c := &Client{baseURL: u, http: hc, userAgent: cfg.userAgent, logger: cfg.logger}
	if cfg.metricsReg != nil {
		if err := c.registerMetrics(cfg.metricsReg); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Similarity ranks stored patents against text. limit <= 0 returns all of them.
func (c *Client) Similarity(ctx context.Context, text string, limit int) (results []Result, err error) {
	start := time.Now()
	defer func() { c.record("similarity", start, err) }()

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	body := map[string]string{"query": text}

	results = []Result{}
	if err = c.do(ctx, http.MethodPost, "/similarity", q, body, &results); err != nil {
		return nil, fmt.Errorf("similarity: %w", err)
	}
	return results, nil
}

// Patents returns one page of stored patents. limit <= 0 uses the server default.
func (c *Client) Patents(ctx context.Context, limit, offset int) (page PatentPage, err error) {
	start := time.Now()
	defer func() { c.record("patents", start, err) }()

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if err = c.do(ctx, http.MethodGet, "/patents", q, nil, &page); err != nil {
		return PatentPage{}, fmt.Errorf("list patents: %w", err)
	}
	return page, nil
}

// Patent returns one stored patent. A missing number yields ErrNotFound.
func (c *Client) Patent(ctx context.Context, number string) (p Patent, err error) {
	start := time.Now()
	defer func() { c.record("patent", start, err) }()

	if err = c.do(ctx, http.MethodGet, "/patents/"+url.PathEscape(number), nil, nil, &p); err != nil {
		return Patent{}, fmt.Errorf("get patent %s: %w", number, err)
	}
	return p, nil
}

// Health returns the server health report. A degraded server is not an error.
func (c *Client) Health(ctx context.Context) (h HealthStatus, err error) {
	start := time.Now()
	defer func() { c.record("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", nil, nil, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && h.Status != "" {
		return h, nil
	}
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health: %w", err)
	}
	return h, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		// /health carries its report in the 503 body.
		if resp.StatusCode == http.StatusServiceUnavailable && out != nil {
			_ = json.Unmarshal(data, out)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// outcome classifies an operation result for the outcome metric label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrEncoderUnavailable):
		return "encoder_unavailable"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func (c *Client) registerMetrics(reg prometheus.Registerer) error {
	c.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "patentsim",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "patentsim API calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	c.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "patentsim",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "patentsim API call latency in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	if err := registerOrReuse(reg, &c.requests); err != nil {
		return err
	}
	return registerOrReuse(reg, &c.latency)
}

// registerOrReuse registers a collector, or rebinds *col to the one already
// registered under the same name so several clients share one series.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, col *T) error {
	err := reg.Register(*col)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("patentsim: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("patentsim: metric already registered as %T", are.ExistingCollector)
	}
	*col = existing
	return nil
}

func (c *Client) record(op string, start time.Time, err error) {
	dur := time.Since(start)
	result := outcome(err)

	if c.requests != nil {
		c.requests.WithLabelValues(op, result).Inc()
		c.latency.WithLabelValues(op).Observe(dur.Seconds())
	}
	if c.logger == nil {
		return
	}

	attrs := []any{"op", op, "outcome", result, "duration", dur}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, "status", apiErr.StatusCode, "code", apiErr.Code)
	}
	switch result {
	case "ok":
		c.logger.Debug("patentsim call completed", attrs...)
	case "not_found", "bad_request":
		c.logger.Info("patentsim call rejected", append(attrs, "error", err)...)
	default:
		c.logger.Warn("patentsim call failed", append(attrs, "error", err)...)
	}
}
