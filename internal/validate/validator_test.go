package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
)

func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var sleeps []time.Duration
	orig := linkSleepFunc
	linkSleepFunc = func(d time.Duration) { sleeps = append(sleeps, d) }
	t.Cleanup(func() { linkSleepFunc = orig })
	return &sleeps
}

func newTestChecker() *LinkChecker {
	return NewLinkChecker(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "truthlens-test"}, 4, zap.NewNop())
}

func TestLinkChecker_Accessible(t *testing.T) {
	var gotMethod, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotUA = r.UserAgent()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	results := newTestChecker().Check(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	assert.True(t, results[0].Accessible)
	assert.False(t, results[0].Dead)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)
	assert.Empty(t, results[0].RedirectURL)
	assert.Equal(t, http.MethodHead, gotMethod)
	assert.Equal(t, "truthlens-test", gotUA)
}

func TestLinkChecker_NotFoundIsDeadAndNotRetried(t *testing.T) {
	sleeps := recordSleeps(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	results := newTestChecker().Check(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	assert.False(t, results[0].Accessible)
	assert.True(t, results[0].Dead)
	assert.Equal(t, http.StatusNotFound, results[0].StatusCode)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, *sleeps)
}

func TestLinkChecker_Redirect(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()
	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusMovedPermanently)
	}))
	defer redirect.Close()

	results := newTestChecker().Check(context.Background(), []string{redirect.URL})

	require.Len(t, results, 1)
	assert.True(t, results[0].Accessible)
	assert.Equal(t, final.URL, results[0].RedirectURL)
}

func TestLinkChecker_FallsBackToGet(t *testing.T) {
	var (
		mu      sync.Mutex
		methods []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		methods = append(methods, r.Method)
		mu.Unlock()
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	results := newTestChecker().Check(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	assert.True(t, results[0].Accessible)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestLinkChecker_Staleness(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		modified  time.Time
		wantStale bool
		wantAge   int
	}{
		{"recent review", now.Add(-30 * 24 * time.Hour), false, 30},
		{"review over a year old", now.Add(-400 * 24 * time.Hour), true, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Last-Modified", tt.modified.Format(http.TimeFormat))
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			checker := newTestChecker()
			checker.now = func() time.Time { return now }
			results := checker.Check(context.Background(), []string{srv.URL})

			require.Len(t, results, 1)
			require.NotNil(t, results[0].LastModified)
			require.NotNil(t, results[0].AgeDays)
			assert.Equal(t, tt.wantAge, *results[0].AgeDays)
			assert.Equal(t, tt.wantStale, results[0].Stale)
		})
	}
}

func TestLinkChecker_RetriesTransientStatus(t *testing.T) {
	sleeps := recordSleeps(t)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	results := newTestChecker().Check(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	assert.True(t, results[0].Accessible)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
}

func TestLinkChecker_UnreachableIsDead(t *testing.T) {
	recordSleeps(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	results := newTestChecker().Check(context.Background(), []string{addr})

	require.Len(t, results, 1)
	assert.False(t, results[0].Accessible)
	assert.True(t, results[0].Dead)
	assert.Contains(t, results[0].Error, "request failed")
}

func TestLinkChecker_PreservesOrder(t *testing.T) {
	recordSleeps(t)
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer gone.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	urls := []string{ok.URL, gone.URL, broken.URL}
	results := newTestChecker().Check(context.Background(), urls)

	require.Len(t, results, 3)
	for i, u := range urls {
		assert.Equal(t, u, results[i].URL)
	}
	assert.True(t, results[0].Accessible)
	assert.True(t, results[1].Dead)
	assert.False(t, results[2].Accessible)
	assert.False(t, results[2].Dead)
	assert.Equal(t, 1, model.DeadLinks(results))
}

func TestLinkChecker_Empty(t *testing.T) {
	results := newTestChecker().Check(context.Background(), nil)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestLinkChecker_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := newTestChecker().Check(ctx, []string{srv.URL})

	require.Len(t, results, 1)
	assert.False(t, results[0].Accessible)
	assert.NotEmpty(t, results[0].Error)
}

func TestNewLinkChecker_Defaults(t *testing.T) {
	c := NewLinkChecker(model.HTTPConfig{}, 0, nil)
	assert.Equal(t, defaultLinkWorker, c.maxWorkers)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		status model.LinkStatus
		want   bool
	}{
		{model.LinkStatus{StatusCode: 503}, true},
		{model.LinkStatus{StatusCode: 429}, true},
		{model.LinkStatus{StatusCode: 404}, false},
		{model.LinkStatus{StatusCode: 200}, false},
		{model.LinkStatus{Error: "dial tcp: connection refused"}, true},
		{model.LinkStatus{Error: "i/o timeout"}, true},
		{model.LinkStatus{Error: "unsupported protocol scheme"}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRetryableStatus(tt.status), "%+v", tt.status)
	}
}
