package linkverify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/instructa/coursegen/internal/logfields"
)

// ExternalResult is the probe outcome for one external URL.
type ExternalResult struct {
	URL        string `json:"url"`
	StatusCode int    `json:"status_code"` // 0 on transport error
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// ExternalChecker probes external links over HTTP with bounded concurrency.
type ExternalChecker struct {
	client        *http.Client
	maxConcurrent int
}

// NewExternalChecker builds a checker. The client timeout and redirect
// behavior are fixed; concurrency defaults to 10 when n <= 0.
func NewExternalChecker(timeout time.Duration, maxConcurrent int) *ExternalChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	// Respects HTTP_PROXY / HTTPS_PROXY / NO_PROXY.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &ExternalChecker{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after %d redirects", len(via))
				}
				return nil
			},
		},
		maxConcurrent: maxConcurrent,
	}
}

// CheckAll probes every URL once, deduplicating the input. Results are
// sorted by URL.
func (c *ExternalChecker) CheckAll(ctx context.Context, urls []string) []ExternalResult {
	unique := map[string]struct{}{}
	for _, u := range urls {
		unique[u] = struct{}{}
	}

	sem := make(chan struct{}, c.maxConcurrent)
	results := make([]ExternalResult, 0, len(unique))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for u := range unique {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				results = append(results, ExternalResult{URL: u, Error: ctx.Err().Error()})
				mu.Unlock()
				return
			}

			res := c.probe(ctx, u)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].URL < results[j].URL })
	return results
}

// probe tries HEAD first and falls back to GET for servers that reject HEAD.
func (c *ExternalChecker) probe(ctx context.Context, url string) ExternalResult {
	res := c.request(ctx, http.MethodHead, url)
	if res.OK || res.StatusCode == 0 {
		return res
	}
	if res.StatusCode == http.StatusMethodNotAllowed || res.StatusCode == http.StatusNotImplemented {
		return c.request(ctx, http.MethodGet, url)
	}
	return res
}

func (c *ExternalChecker) request(ctx context.Context, method, url string) ExternalResult {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return ExternalResult{URL: url, Error: err.Error()}
	}
	req.Header.Set("User-Agent", "coursegen-linkcheck/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Debug("External link probe failed", logfields.URL(url), logfields.Error(err))
		return ExternalResult{URL: url, Error: err.Error()}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	return ExternalResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 400,
	}
}
