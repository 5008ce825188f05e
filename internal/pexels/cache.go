package pexels

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

var errRateLimited = errors.New("pexels rate limit")

// limitTransport waits for a limiter token before each upstream request.
// It sits behind the cache so cached answers do not spend tokens.
type limitTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

func (l *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: %v", errRateLimited, err)
	}
	return l.next.RoundTrip(req)
}

// cacheTransport keeps successful GET responses in an expiring LRU so that
// repeated searches do not spend the API quota.
type cacheTransport struct {
	cache *expirable.LRU[string, []byte]
	next  http.RoundTripper
}

func newCacheTransport(next http.RoundTripper, size int, ttl time.Duration) *cacheTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &cacheTransport{
		cache: expirable.NewLRU[string, []byte](size, nil, ttl),
		next:  next,
	}
}

func (c *cacheTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.next.RoundTrip(req)
	}

	key := cacheKey(req)
	if v, ok := c.cache.Get(key); ok {
		return responseFromBytes(v, req)
	}

	resp, err := c.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil
	}

	v, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return resp, nil
	}
	c.cache.Add(key, v)
	return responseFromBytes(v, req)
}

func responseFromBytes(v []byte, req *http.Request) (*http.Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(v)), req)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached response: %w", err)
	}
	return resp, nil
}

// cacheKey hashes the URL together with the credentials so that responses
// are never shared across API keys.
func cacheKey(req *http.Request) string {
	h := sha256.New()
	h.Write([]byte(req.URL.String()))
	h.Write([]byte(req.Header.Get("Authorization")))
	return fmt.Sprintf("%x", h.Sum(nil))
}
