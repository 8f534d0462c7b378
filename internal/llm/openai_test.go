package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
)

func chatServer(t *testing.T, content string, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if gotPrompt != nil {
			body, _ := io.ReadAll(r.Body)
			var req openai.ChatCompletionRequest
			_ = json.Unmarshal(body, &req)
			if len(req.Messages) > 1 {
				*gotPrompt = req.Messages[1].Content
			}
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			}},
			Usage: openai.Usage{TotalTokens: 100},
		})
	}))
}

func testReport() model.CheckReport {
	return model.CheckReport{
		Claim: "Vaccines cause autism",
		Result: model.ScoreResult{
			CredibilityScore: 1.8,
			Status:           model.StatusFalse,
			Category:         model.CategoryHealth,
			RiskLevel:        model.RiskHigh,
			Sources:          []string{"Reuters"},
			ExternalChecks: []model.ExternalClaimRecord{
				{Text: "Vaccines cause autism", Rating: "False", SourceURL: "https://example.com/1"},
			},
			Provenance: model.ProvenanceLive,
		},
	}
}

func newTestProvider(t *testing.T, baseURL string, strict bool) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(Config{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "gpt-4o-mini",
		Timeout:        5,
		StrictEvidence: strict,
	}, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{}, nil)
	assert.Error(t, err)
}

func TestOpenAIProvider_Summarize_Success(t *testing.T) {
	var prompt string
	srv := chatServer(t, "Reviewers rated this false. Source: https://example.com/1.", &prompt)
	defer srv.Close()

	resp, err := newTestProvider(t, srv.URL, true).Summarize(context.Background(), SummarizeRequest{
		Report:       testReport(),
		EvidenceURLs: []string{"https://example.com/1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Reviewers rated this false. Source: https://example.com/1.", resp.Summary)
	assert.Equal(t, []string{"https://example.com/1"}, resp.CitedURLs)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 100, resp.TokensUsed)

	assert.Contains(t, prompt, "Vaccines cause autism")
	assert.Contains(t, prompt, "1.8/10")
	assert.Contains(t, prompt, "https://example.com/1")
}

func TestOpenAIProvider_Summarize_CitationLeak(t *testing.T) {
	srv := chatServer(t, "See https://evil.example.org/made-up", nil)
	defer srv.Close()

	_, err := newTestProvider(t, srv.URL, true).Summarize(context.Background(), SummarizeRequest{
		Report:       testReport(),
		EvidenceURLs: []string{"https://example.com/1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCitationLeak))
}

func TestOpenAIProvider_Summarize_NonStrictAllowsAnyURL(t *testing.T) {
	srv := chatServer(t, "See https://other.example.org/page", nil)
	defer srv.Close()

	resp, err := newTestProvider(t, srv.URL, false).Summarize(context.Background(), SummarizeRequest{Report: testReport()})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://other.example.org/page"}, resp.CitedURLs)
}

func TestOpenAIProvider_Summarize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
		}},
		{"rate limit", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{malformed json`))
		}},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id": "x", "choices": []}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestProvider(t, srv.URL, true).Summarize(context.Background(), SummarizeRequest{Report: testReport()})
			assert.Error(t, err)
		})
	}
}

func TestOpenAIProvider_Summarize_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestProvider(t, srv.URL, true).Summarize(ctx, SummarizeRequest{Report: testReport()})
	assert.Error(t, err)
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	var unhealthy int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&unhealthy) == 0 && r.URL.Path == "/models" {
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, true)
	assert.True(t, p.IsAvailable(context.Background()))

	atomic.StoreInt32(&unhealthy, 1)
	assert.False(t, p.IsAvailable(context.Background()))
}

func TestExtractURLs(t *testing.T) {
	got := extractURLs("See https://a.example/x, then (https://b.example/y) and https://a.example/x.")
	assert.Equal(t, []string{"https://a.example/x", "https://b.example/y"}, got)
	assert.Empty(t, extractURLs("no links here"))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{}, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewProvider(Config{Provider: "OpenAI", APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = NewProvider(Config{Provider: "ollama"}, nil)
	require.NoError(t, err)
	require.IsType(t, &OpenAIProvider{}, p)
	ollama := p.(*OpenAIProvider)
	assert.Equal(t, "ollama", ollama.Name())
	assert.Equal(t, defaultOllamaBaseURL, ollama.config.BaseURL)
	assert.Equal(t, defaultOllamaModel, ollama.config.Model)

	_, err = NewProvider(Config{Provider: "openai"}, nil)
	assert.Error(t, err)

	_, err = NewProvider(Config{Provider: "palm"}, nil)
	assert.Error(t, err)
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(model.LLMConfig{
		Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", BaseURL: "http://x",
		Timeout: 9, MaxTokens: 300, StrictEvidence: true,
	})
	assert.Equal(t, Config{
		Provider: "openai", Model: "gpt-4o-mini", APIKey: "k", BaseURL: "http://x",
		Timeout: 9, MaxTokens: 300, StrictEvidence: true,
	}, cfg)
}
