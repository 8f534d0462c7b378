package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/worker"
)

const (
	defaultBaseURL      = "https://factchecktools.googleapis.com"
	searchPath          = "/v1alpha1/claims:search"
	defaultLookupTries  = 3
	defaultLookupRate   = 5
	maxResponseBytes    = 4 << 20
	defaultLanguageCode = "en"
)

// lookupSleepFunc waits between retries and gives up when ctx is done
// (injectable for tests)
var lookupSleepFunc = sleepContext

// GoogleGateway queries the Google Fact Check Tools claim search API
type GoogleGateway struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	languageCode string
	timeout      time.Duration
	maxRetries   int
	limiter      *worker.Limiter
	logger       *zap.Logger
}

// NewGoogleGateway creates a live gateway from configuration
func NewGoogleGateway(cfg model.FactCheckConfig, logger *zap.Logger) *GoogleGateway {
	if logger == nil {
		logger = zap.L()
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	lang := cfg.LanguageCode
	if lang == "" {
		lang = defaultLanguageCode
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultLookupTries
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultLookupRate
	}

	return &GoogleGateway{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		languageCode: lang,
		timeout:      timeout,
		maxRetries:   retries,
		limiter:      worker.NewLimiter(rps, cfg.Burst),
		logger:       logger.Named("factcheck"),
	}
}

// Name returns the gateway name
func (g *GoogleGateway) Name() string {
	return "google"
}

// searchResponse mirrors the subset of the claims:search response we read
type searchResponse struct {
	Claims []struct {
		Text        string `json:"text"`
		Claimant    string `json:"claimant"`
		ClaimReview []struct {
			Publisher struct {
				Name string `json:"name"`
				Site string `json:"site"`
			} `json:"publisher"`
			URL           string `json:"url"`
			Title         string `json:"title"`
			TextualRating string `json:"textualRating"`
		} `json:"claimReview"`
	} `json:"claims"`
}

// Lookup searches for fact-checks of claimText. The configured timeout
// bounds the whole lookup, retries and backoff included. Failures are
// logged and produce an empty set.
func (g *GoogleGateway) Lookup(ctx context.Context, claimText string) model.ExternalResultSet {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	endpoint := g.searchURL(claimText)

	if err := g.limiter.Wait(ctx, endpoint); err != nil {
		g.logger.Warn("fact check rate limit wait aborted", zap.Error(err))
		return model.EmptyResultSet("rate limit wait aborted")
	}

	status, body, err := g.searchWithRetry(ctx, endpoint)
	if err != nil {
		g.logger.Error("fact check request failed", zap.Error(err))
		return model.EmptyResultSet("fact check request failed")
	}
	if status != http.StatusOK {
		g.logger.Warn("fact check API returned non-200 status", zap.Int("status", status))
		return model.EmptyResultSet(fmt.Sprintf("fact check API returned status %d", status))
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		g.logger.Error("fact check response decode failed", zap.Error(err))
		return model.EmptyResultSet("fact check response could not be decoded")
	}

	return normalize(resp)
}

// normalize keeps the first review of each claim and collects publishers
func normalize(resp searchResponse) model.ExternalResultSet {
	set := model.ExternalResultSet{
		Claims:     []model.ExternalClaimRecord{},
		Sources:    []string{},
		Provenance: model.ProvenanceLive,
	}

	for _, c := range resp.Claims {
		record := model.ExternalClaimRecord{Text: c.Text, Claimant: c.Claimant}
		if len(c.ClaimReview) > 0 {
			review := c.ClaimReview[0]
			record.Rating = review.TextualRating
			record.SourceURL = review.URL
			set.AddSource(review.Publisher.Name)
		}
		set.Claims = append(set.Claims, record)
	}

	return set
}

func (g *GoogleGateway) searchURL(claimText string) string {
	params := url.Values{}
	params.Set("key", g.apiKey)
	params.Set("query", claimText)
	params.Set("languageCode", g.languageCode)
	return g.baseURL + searchPath + "?" + params.Encode()
}

// searchWithRetry retries transient failures with exponential backoff
func (g *GoogleGateway) searchWithRetry(ctx context.Context, endpoint string) (int, []byte, error) {
	var (
		status int
		body   []byte
		err    error
	)

	for attempt := 0; attempt < g.maxRetries; attempt++ {
		status, body, err = g.search(ctx, endpoint)
		if !isRetryable(status, err) {
			return status, body, err
		}
		if attempt < g.maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			g.logger.Debug("retrying fact check lookup",
				zap.Int("attempt", attempt+1), zap.Int("status", status), zap.Duration("backoff", backoff))
			if err := lookupSleepFunc(ctx, backoff); err != nil {
				return status, body, eris.Wrap(err, "retry backoff")
			}
		}
	}

	return status, body, err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *GoogleGateway) search(ctx context.Context, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, eris.Wrap(redact(err), "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, nil, eris.Wrap(redact(err), "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, eris.Wrap(err, "read response")
	}

	return resp.StatusCode, body, nil
}

// redact strips the request URL, which carries the API key, from client errors
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return eris.Wrap(urlErr.Err, urlErr.Op)
	}
	return err
}

func isRetryable(status int, err error) bool {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		s := strings.ToLower(err.Error())
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}
