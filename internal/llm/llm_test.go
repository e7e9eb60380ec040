package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func userRequest(content string) CompletionRequest {
	return CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: content}},
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	for _, p := range []string{"anthropic", "openai", "google", "openrouter", "minimax"} {
		t.Setenv(apiKeyEnv[p], "")
		_, err := NewProvider(p, "some-model")
		assert.Error(t, err, "provider %q", p)
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "some-model")
	assert.Error(t, err)
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	require.NoError(t, err)

	ollamaP, ok := provider.(*OllamaProvider)
	require.True(t, ok, "expected *OllamaProvider")
	assert.Equal(t, "http://localhost:11434", ollamaP.baseURL)
}

func TestFactoryProviderNames(t *testing.T) {
	for _, p := range []string{"anthropic", "openai", "google", "openrouter", "minimax"} {
		t.Setenv(apiKeyEnv[p], "test-key")
		provider, err := NewProvider(p, "some-model")
		require.NoError(t, err)
		assert.Equal(t, p, provider.Name())
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	resp, err := rl.Complete(context.Background(), userRequest("hello"))
	require.NoError(t, err)
	assert.Equal(t, "mock response", resp.Content)
	assert.Equal(t, "test", rl.Name())
	assert.Equal(t, 1, mock.CallCount())
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	for i := 0; i < 2; i++ {
		_, err := rl.Complete(ctx, userRequest("hello"))
		require.NoError(t, err, "request %d", i)
	}

	// The third request would need a 30s wait, far past the deadline.
	_, err := rl.Complete(ctx, userRequest("hello"))
	assert.Error(t, err)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRateLimiterDisabled(t *testing.T) {
	mock := NewMockProvider("test")
	assert.Same(t, Provider(mock), NewRateLimitedProvider(mock, 0))
}

func TestOllamaProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "json", req.Format)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":           map[string]string{"role": "assistant", "content": `{"ok":true}`},
			"model":             "llama3",
			"done_reason":       "stop",
			"prompt_eval_count": 7,
			"eval_count":        3,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		JSONMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Content)
	assert.Equal(t, 7, resp.InputTokens)
	assert.Equal(t, 3, resp.OutputTokens)
}

func TestAnthropicProviderSplitsSystemPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "be brief", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, 4096, req.MaxTokens)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hello "},{"type":"text","text":"there"}],"model":"claude","stop_reason":"end_turn","usage":{"input_tokens":5,"output_tokens":2}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("test-key", "claude")
	p.url = srv.URL
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "hi"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Content)
	assert.Equal(t, "end_turn", resp.FinishReason)
}

func TestStatusErrorIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"slow down"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	_, err := p.Complete(context.Background(), userRequest("hi"))
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.True(t, IsRateLimited(err))
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsRateLimited(errors.New("bad request")))
	assert.True(t, IsRateLimited(errors.New("error, status code: 429, message: too many")))
	assert.True(t, IsRateLimited(errors.New("overloaded_error")))
	assert.False(t, IsRateLimited(&StatusError{Provider: "x", StatusCode: 400}))
}

func TestEstimateCostAccuracy(t *testing.T) {
	// claude-sonnet-4-5: $3/1M input, $15/1M output
	cost := EstimateCost("claude-sonnet-4-5-20250929", 1_000_000, 1_000_000)
	assert.InDelta(t, 18.0, cost, 0.01)
	assert.Zero(t, EstimateCost("unknown-model", 1000, 500))
}

func TestUsageCostFallsBackToRequestedModel(t *testing.T) {
	resp := &CompletionResponse{Model: "gpt-4o-2024-08-06", InputTokens: 1_000_000}
	assert.InDelta(t, 2.50, UsageCost("gpt-4o", resp), 0.001)
	assert.Zero(t, UsageCost("gpt-4o", nil))
}

func TestPriceForLongestPrefix(t *testing.T) {
	p, ok := PriceFor("gpt-4o-mini-2024-07-18")
	require.True(t, ok)
	assert.InDelta(t, 0.15, p.InputPerMillion, 1e-9)

	p, ok = PriceFor("gemini-1.5-flash-002")
	require.True(t, ok)
	assert.InDelta(t, 0.30, p.OutputPerMillion, 1e-9)

	_, ok = PriceFor("llama3")
	assert.False(t, ok)
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
		{"a longer piece of text that has more characters", 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateTokens(tt.text), "EstimateTokens(%q)", tt.text)
	}
}

// flakyProvider fails with err for the first failures calls.
type flakyProvider struct {
	*MockProvider
	failures int
	err      error
}

func (f *flakyProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if f.CallCount() < f.failures {
		f.mu.Lock()
		f.Calls = append(f.Calls, req)
		f.mu.Unlock()
		return nil, f.err
	}
	return f.MockProvider.Complete(ctx, req)
}

func TestRetryingProviderRetriesRateLimits(t *testing.T) {
	p := &flakyProvider{MockProvider: NewMockProvider("flaky"), failures: 2, err: &StatusError{Provider: "flaky", StatusCode: 429}}
	r := NewRetryingProvider(p, 3, time.Millisecond)

	resp, err := r.Complete(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "mock response", resp.Content)
	assert.Equal(t, 3, p.CallCount())
}

func TestRetryingProviderGivesUpAfterAttempts(t *testing.T) {
	p := &flakyProvider{MockProvider: NewMockProvider("flaky"), failures: 10, err: errors.New("429 too many requests")}
	r := NewRetryingProvider(p, 2, time.Millisecond)

	_, err := r.Complete(context.Background(), userRequest("hi"))
	assert.Error(t, err)
	assert.Equal(t, 2, p.CallCount())
}

func TestRetryingProviderDoesNotRetryOtherErrors(t *testing.T) {
	p := &flakyProvider{MockProvider: NewMockProvider("flaky"), failures: 10, err: errors.New("invalid api key")}
	r := NewRetryingProvider(p, 5, time.Millisecond)

	_, err := r.Complete(context.Background(), userRequest("hi"))
	assert.Error(t, err)
	assert.Equal(t, 1, p.CallCount())
}
