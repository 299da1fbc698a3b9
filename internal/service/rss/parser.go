// Package rss fetches syndication feeds and turns their items into display records.
package rss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Noooste/azuretls-client"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"rssagg/backend/internal/config"
	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/metrics"
	"rssagg/backend/internal/network"
)

//go:generate mockgen -source=parser.go -destination=mock/parser.go -package=mock

const (
	defaultFetchTimeout = 20 * time.Second
	defaultQPS          = 5
	maxFeedBytes        = 10 << 20
)

// ErrBreakerOpen is returned while a host's circuit breaker rejects requests.
var ErrBreakerOpen = errors.New("feed host temporarily unavailable")

// ErrFeedTooLarge is returned when a feed body exceeds the size limit.
var ErrFeedTooLarge = fmt.Errorf("feed too large: exceeds %d bytes", maxFeedBytes)

// Parser retrieves and parses a feed.
type Parser interface {
	Parse(ctx context.Context, feedURL string) (*gofeed.Feed, error)
}

type ParserOptions struct {
	Timeout         time.Duration
	QPS             int
	BreakerFailures uint32
	BreakerOpenTime time.Duration
}

// HTTPParser fetches feeds over HTTP. Requests share one rate limiter and each
// host gets its own circuit breaker.
type HTTPParser struct {
	clients  *network.ClientFactory
	timeout  time.Duration
	limiter  *rate.Limiter
	failures uint32
	openTime time.Duration

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewHTTPParser(clients *network.ClientFactory, opts ParserOptions) *HTTPParser {
	if clients == nil {
		clients = network.NewClientFactory(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.QPS <= 0 {
		opts.QPS = defaultQPS
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerOpenTime <= 0 {
		opts.BreakerOpenTime = time.Minute
	}
	return &HTTPParser{
		clients:  clients,
		timeout:  opts.Timeout,
		limiter:  rate.NewLimiter(rate.Limit(opts.QPS), opts.QPS),
		failures: opts.BreakerFailures,
		openTime: opts.BreakerOpenTime,
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}
}

func (p *HTTPParser) Parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid feed url %q", feedURL)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := p.breaker(parsed.Host).Execute(func() (interface{}, error) {
		return p.fetch(ctx, feedURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logger.Warn("feed fetch rejected", "module", "rss", "action", "fetch", "resource", "feed", "result", "rejected", "host", parsed.Host)
			return nil, ErrBreakerOpen
		}
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(result.([]byte)))
	if err != nil {
		return nil, err
	}
	return feed, nil
}

func (p *HTTPParser) breaker(host string) *gobreaker.CircuitBreaker {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[host]; ok {
		return cb
	}
	failures := p.failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     p.openTime,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.RecordBreakerStateChange(to.String())
			logger.Warn("feed breaker state changed", "module", "rss", "action", "update", "resource", "breaker", "result", "ok", "host", name, "from", from.String(), "to", to.String())
		},
	})
	p.breakers[host] = cb
	return cb
}

func (p *HTTPParser) fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", config.AggregatorUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	resp, err := p.clients.NewHTTPClient(ctx, p.timeout).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if isBlockedStatus(resp.StatusCode) && !p.clients.UsesTestClient() {
		logger.Debug("feed blocked, retrying with browser session", "module", "rss", "action", "fetch", "resource", "feed", "result", "retry", "url", feedURL, "status_code", resp.StatusCode)
		return p.fetchWithBrowser(ctx, feedURL)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if len(body) > maxFeedBytes {
		return nil, ErrFeedTooLarge
	}
	return body, nil
}

// fetchWithBrowser retries with a Chrome TLS fingerprint for hosts that reject Go clients.
func (p *HTTPParser) fetchWithBrowser(ctx context.Context, feedURL string) ([]byte, error) {
	session := p.clients.NewAzureSession(ctx, p.timeout)
	defer session.Close()

	resp, err := session.Do(&azuretls.Request{
		Method: http.MethodGet,
		Url:    feedURL,
		OrderedHeaders: azuretls.OrderedHeaders{
			{"accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,*/*;q=0.8"},
			{"accept-language", "en-US,en;q=0.9"},
			{"sec-ch-ua", config.ChromeSecChUa},
			{"sec-ch-ua-mobile", "?0"},
			{"sec-ch-ua-platform", `"Windows"`},
			{"user-agent", config.ChromeUserAgent},
		},
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if len(resp.Body) > maxFeedBytes {
		return nil, ErrFeedTooLarge
	}
	return resp.Body, nil
}

func isBlockedStatus(code int) bool {
	return code == http.StatusForbidden || code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}
