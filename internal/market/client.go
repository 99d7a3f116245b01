package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "lazychart"

	// DefaultPageSize is the number of candles requested per page when the
	// caller does not ask for a specific count.
	DefaultPageSize = 300

	maxErrorSnippet = 200
)

// CandleRequest describes one page of candles. At most one of Before/After
// may be set: Before requests candles strictly older than that time, After
// strictly newer, and neither requests the most recent Count candles.
type CandleRequest struct {
	Instrument  string
	Granularity Granularity
	Count       int
	Before      int64 // unix seconds, 0 = unset
	After       int64 // unix seconds, 0 = unset
}

// Client is a market-data API client.
type Client struct {
	http           *http.Client
	baseURL        string
	displayBaseURL string
	cache          *PageCache
	log            zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTransport replaces the HTTP transport, keeping the client's timeout.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		if rt != nil {
			c.http.Transport = rt
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithCache attaches a read-through cache for immutable history pages.
func WithCache(pc *PageCache) ClientOption {
	return func(c *Client) {
		c.cache = pc
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a market-data client for the given API base URL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8087"
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("api url %q: expected http(s)://host", baseURL)
	}

	c := &Client{
		http:           &http.Client{Timeout: defaultTimeout},
		baseURL:        strings.TrimRight(parsed.String(), "/"),
		displayBaseURL: sanitizeBaseURL(parsed),
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DisplayBaseURL returns a sanitized URL safe for display.
func (c *Client) DisplayBaseURL() string {
	return c.displayBaseURL
}

func sanitizeBaseURL(parsed *url.URL) string {
	clean := *parsed
	if clean.User != nil {
		if username := clean.User.Username(); username != "" {
			clean.User = url.User(username)
		} else {
			clean.User = nil
		}
	}
	return strings.TrimRight(clean.String(), "/")
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// candlePayload is the wire form of a candle. Pointer fields distinguish
// absent or null values from zero, so incomplete points can be dropped
// instead of decoded as zeros.
type candlePayload struct {
	Time  *int64   `json:"time"`
	Open  *float64 `json:"open"`
	High  *float64 `json:"high"`
	Low   *float64 `json:"low"`
	Close *float64 `json:"close"`
}

// Candles fetches one page of candles. Results are normalized: malformed
// points dropped, sorted ascending by time, duplicate timestamps collapsed.
// History pages (Before set) are served from the page cache when one is
// attached.
func (c *Client) Candles(ctx context.Context, req CandleRequest) ([]Candle, error) {
	if req.Instrument == "" {
		return nil, errors.New("candles: instrument required")
	}
	if req.Granularity <= 0 {
		return nil, errors.New("candles: granularity required")
	}
	if req.Before != 0 && req.After != 0 {
		return nil, errors.New("candles: before and after are mutually exclusive")
	}
	if req.Count <= 0 {
		req.Count = DefaultPageSize
	}

	if c.cache != nil && req.Before != 0 {
		if page, ok := c.cache.Get(ctx, req); ok {
			return page, nil
		}
	}

	query := url.Values{}
	query.Set("instrument", req.Instrument)
	query.Set("granularity", strconv.FormatInt(req.Granularity.Seconds(), 10))
	query.Set("count", strconv.Itoa(req.Count))
	if req.Before != 0 {
		query.Set("before", strconv.FormatInt(req.Before, 10))
	}
	if req.After != 0 {
		query.Set("after", strconv.FormatInt(req.After, 10))
	}

	var payload []candlePayload
	if err := c.getJSON(ctx, "/api/v1/candles", query, &payload); err != nil {
		return nil, err
	}

	raw := make([]Candle, 0, len(payload))
	for _, p := range payload {
		if p.Time == nil || p.Open == nil || p.High == nil || p.Low == nil || p.Close == nil {
			continue
		}
		raw = append(raw, Candle{
			Time:  *p.Time,
			Open:  *p.Open,
			High:  *p.High,
			Low:   *p.Low,
			Close: *p.Close,
		})
	}
	if dropped := len(payload) - len(raw); dropped > 0 {
		c.log.Debug().
			Int("dropped", dropped).
			Str("instrument", req.Instrument).
			Msg("dropped incomplete candle points")
	}
	candles := Normalize(raw)

	if c.cache != nil && req.Before != 0 && len(candles) > 0 {
		c.cache.Put(ctx, req, candles)
	}
	return candles, nil
}

// Metrics fetches the full snapshot history for the given series id, sorted
// ascending by observation time. Entries without a timestamp are dropped.
func (c *Client) Metrics(ctx context.Context, id string) ([]Snapshot, error) {
	if id == "" {
		return nil, errors.New("metrics: id required")
	}

	var payload []Snapshot
	if err := c.getJSON(ctx, "/api/v1/metrics/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, err
	}

	snapshots := payload[:0]
	for _, s := range payload {
		if s.T > 0 {
			snapshots = append(snapshots, s)
		}
	}
	if dropped := len(payload) - len(snapshots); dropped > 0 {
		c.log.Debug().Int("dropped", dropped).Str("id", id).Msg("dropped undated snapshots")
	}
	slices.SortStableFunc(snapshots, func(a, b Snapshot) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		default:
			return 0
		}
	})
	return snapshots, nil
}

// Instruments fetches all symbols known to the API, sorted alphabetically.
func (c *Client) Instruments(ctx context.Context) ([]Instrument, error) {
	var payload []Instrument
	if err := c.getJSON(ctx, "/api/v1/instruments", nil, &payload); err != nil {
		return nil, err
	}
	slices.SortStableFunc(payload, func(a, b Instrument) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", path, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, errorSnippet(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: decode: %w", path, err)
	}
	return nil
}

func errorSnippet(body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > maxErrorSnippet {
		snippet = snippet[:maxErrorSnippet] + "…"
	}
	if snippet == "" {
		return "(empty body)"
	}
	return snippet
}
