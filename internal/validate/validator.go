// Package validate checks that the fact-check reviews cited by a verdict
// are still reachable.
package validate

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

const (
	linkMaxRetries    = 3
	defaultLinkWorker = 8
	staleAfterDays    = 365
	maxLinkRedirects  = 3
)

// linkSleepFunc is the sleep function used between retries (injectable for tests)
var linkSleepFunc = time.Sleep

// LinkChecker validates review links concurrently
type LinkChecker struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
	logger     *zap.Logger
	now        func() time.Time
}

// NewLinkChecker creates a checker from the HTTP configuration
func NewLinkChecker(cfg model.HTTPConfig, maxWorkers int, logger *zap.Logger) *LinkChecker {
	if maxWorkers <= 0 {
		maxWorkers = defaultLinkWorker
	}
	if logger == nil {
		logger = zap.L()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via --insecure
	}

	return &LinkChecker{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxLinkRedirects {
					return eris.Errorf("stopped after %d redirects", maxLinkRedirects)
				}
				return nil
			},
		},
		maxWorkers: maxWorkers,
		userAgent:  cfg.UserAgent,
		logger:     logger.Named("links"),
		now:        time.Now,
	}
}

// Check validates every URL and returns one status per URL, in order.
// Cancellation marks the remaining links as unchecked rather than failing.
func (c *LinkChecker) Check(ctx context.Context, urls []string) []model.LinkStatus {
	results := make([]model.LinkStatus, len(urls))
	if len(urls) == 0 {
		return results
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, c.maxWorkers)

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, link string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.LinkStatus{URL: link, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkWithRetry(ctx, link)
		}(i, u)
	}
	wg.Wait()

	c.logger.Debug("links checked",
		zap.Int("links", len(urls)), zap.Int("dead", model.DeadLinks(results)))
	return results
}

// checkWithRetry retries transient failures with exponential backoff
func (c *LinkChecker) checkWithRetry(ctx context.Context, link string) model.LinkStatus {
	var status model.LinkStatus
	for attempt := 0; attempt < linkMaxRetries; attempt++ {
		status = c.checkOne(ctx, link)
		if !isRetryableStatus(status) || ctx.Err() != nil {
			return status
		}
		if attempt < linkMaxRetries-1 {
			linkSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return status
}

// checkOne sends a HEAD request, falling back to GET for servers that
// refuse HEAD
func (c *LinkChecker) checkOne(ctx context.Context, link string) model.LinkStatus {
	status := model.LinkStatus{URL: link}

	resp, err := c.do(ctx, http.MethodHead, link)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		_ = resp.Body.Close()
		resp, err = c.do(ctx, http.MethodGet, link)
	}
	if err != nil {
		status.Error = err.Error()
		status.Dead = true
		return status
	}
	defer func() { _ = resp.Body.Close() }()

	status.StatusCode = resp.StatusCode
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		status.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		status.Dead = true
	}

	if final := resp.Request.URL.String(); final != link {
		status.RedirectURL = final
	}

	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			status.LastModified = &t
			age := int(c.now().Sub(t).Hours() / 24)
			status.AgeDays = &age
			status.Stale = age > staleAfterDays
		}
	}

	return status
}

func (c *LinkChecker) do(ctx context.Context, method, link string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "request failed")
	}
	return resp, nil
}

// isRetryableStatus reports 5xx, 429 and transient network failures
func isRetryableStatus(status model.LinkStatus) bool {
	if status.StatusCode == http.StatusTooManyRequests || (status.StatusCode >= 500 && status.StatusCode < 600) {
		return true
	}
	if status.Error == "" {
		return false
	}
	s := strings.ToLower(status.Error)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
