// Package pexels searches stock photos for proposal images.
package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nepfy/nepfy-backend/internal/apperr"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 80
)

type Photo struct {
	ID              int64    `json:"id"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	URL             string   `json:"url"`
	Photographer    string   `json:"photographer"`
	PhotographerURL string   `json:"photographer_url"`
	AvgColor        string   `json:"avg_color"`
	Alt             string   `json:"alt"`
	Src             PhotoSrc `json:"src"`
}

type PhotoSrc struct {
	Original  string `json:"original"`
	Large2x   string `json:"large2x"`
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Small     string `json:"small"`
	Portrait  string `json:"portrait"`
	Landscape string `json:"landscape"`
	Tiny      string `json:"tiny"`
}

type SearchResult struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	NextPage     string  `json:"next_page,omitempty"`
	Photos       []Photo `json:"photos"`
}

type SearchParams struct {
	Query   string
	Page    int
	PerPage int
}

type Options struct {
	BaseURL   string
	Transport http.RoundTripper
	// Requests per second sent upstream. Cached answers do not count.
	RateLimit rate.Limit
	Burst     int
	CacheSize int
	CacheTTL  time.Duration
	Timeout   time.Duration
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns nil when apiKey is empty so callers can treat the
// integration as disabled.
func NewClient(apiKey string, opts Options) *Client {
	if apiKey == "" {
		return nil
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.pexels.com/v1"
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = rate.Every(200 * time.Millisecond)
	}
	if opts.Burst == 0 {
		opts.Burst = 5
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = 512
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	limited := &limitTransport{limiter: rate.NewLimiter(opts.RateLimit, opts.Burst), next: next}
	cached := newCacheTransport(limited, opts.CacheSize, opts.CacheTTL)

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: cached,
		},
	}
}

// Search queries the photo search endpoint.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	p.Query = strings.TrimSpace(p.Query)
	if p.Query == "" {
		return nil, apperr.Validation("query is required")
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("per_page", strconv.Itoa(p.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Internal("build pexels request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if errors.Is(err, errRateLimited) {
		return nil, apperr.Upstream(http.StatusTooManyRequests, "pexels rate limit", err)
	}
	if err != nil {
		return nil, apperr.Upstream(http.StatusBadGateway, "pexels request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperr.Upstream(upstreamStatus(resp.StatusCode), "pexels search failed",
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var out SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperr.Upstream(http.StatusBadGateway, "pexels returned an invalid response", err)
	}
	if out.Photos == nil {
		out.Photos = []Photo{}
	}
	return &out, nil
}

// upstreamStatus keeps rate limiting visible to the caller and reports
// every other upstream failure as a bad gateway.
func upstreamStatus(code int) int {
	if code == http.StatusTooManyRequests {
		return code
	}
	return http.StatusBadGateway
}
