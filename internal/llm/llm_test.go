package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
	lastReq   Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (string, error) {
	i := f.calls
	f.calls++
	f.lastReq = req
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "ok", nil
}

func (f *fakeGenerator) Model() string { return "fake" }
func (f *fakeGenerator) Close() error  { return nil }

func noBackoff(int) time.Duration { return 0 }

func TestClaudeClient_Generate(t *testing.T) {
	var got anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Acme Corp "},{"type":"text","text":"should partner."}]}`))
	}))
	defer server.Close()

	c := NewClaudeClient("test-key", "claude-test", time.Second)
	c.endpoint = server.URL

	text, err := c.Generate(context.Background(), Request{System: "sys", Prompt: "hi", MaxTokens: 100, Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp should partner.", text)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, "sys", got.System)
	assert.Equal(t, 100, got.MaxTokens)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.7, *got.Temperature, 0.0001)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hi", got.Messages[0].Content)
}

func TestClaudeClient_RateLimitIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	c := NewClaudeClient("k", "m", time.Second)
	c.endpoint = server.URL

	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestClaudeClient_BadRequestIsNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer server.Close()

	c := NewClaudeClient("k", "m", time.Second)
	c.endpoint = server.URL

	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "400")
}

func TestClaudeClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	c := NewClaudeClient("k", "m", time.Second)
	c.endpoint = server.URL

	_, err := c.Generate(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	fake := &fakeGenerator{
		errs:      []error{&RetryableError{StatusCode: 503}, &RetryableError{StatusCode: 429}},
		responses: []string{"", "", "done"},
	}
	gen := WithRetry(fake, 3, nil).(*retrying)
	gen.backoff = noBackoff

	text, err := gen.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 3, fake.calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	fake := &fakeGenerator{errs: []error{errors.New("bad request")}}
	gen := WithRetry(fake, 3, nil).(*retrying)
	gen.backoff = noBackoff

	_, err := gen.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestWithRetry_GivesUpAfterMaxRetries(t *testing.T) {
	retryable := &RetryableError{StatusCode: 500}
	fake := &fakeGenerator{errs: []error{retryable, retryable, retryable}}
	gen := WithRetry(fake, 2, nil).(*retrying)
	gen.backoff = noBackoff

	_, err := gen.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 3, fake.calls)
}

func TestWithRetry_HonoursContext(t *testing.T) {
	fake := &fakeGenerator{errs: []error{&RetryableError{StatusCode: 503}}}
	gen := WithRetry(fake, 3, nil).(*retrying)
	gen.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gen.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff_CapsAtThirtySeconds(t *testing.T) {
	d := Backoff(10)
	assert.GreaterOrEqual(t, d, 30*time.Second)
	assert.Less(t, d, 45*time.Second)
}

func TestStats_SnapshotPercentiles(t *testing.T) {
	stats := NewStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, false)
	}
	stats.Record(0, true)

	snap := stats.Snapshot()
	assert.Equal(t, 6, snap.Count)
	assert.Equal(t, 1, snap.Errors)
	assert.Equal(t, int64(0), snap.MinMs)
	assert.Equal(t, int64(500), snap.MaxMs)
	assert.InDelta(t, 250, snap.AvgMs, 0.001)
	assert.InDelta(t, 250, snap.P50Ms, 0.001)
}

func TestStats_PrunesExpiredSamples(t *testing.T) {
	stats := NewStats(10 * time.Millisecond)
	stats.Record(time.Millisecond, false)
	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, 0, stats.Snapshot().Count)
}

func TestInstrument_RecordsCalls(t *testing.T) {
	stats := NewStats(time.Hour)
	fake := &fakeGenerator{errs: []error{nil, errors.New("boom")}}
	gen := Instrument(fake, stats)

	_, _ = gen.Generate(context.Background(), Request{})
	_, _ = gen.Generate(context.Background(), Request{})

	snap := stats.Snapshot()
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, 1, snap.Errors)
	assert.Equal(t, "fake", gen.Model())
}

func TestClassifyGeminiError(t *testing.T) {
	err := classifyGeminiError(&googleapi.Error{Code: 429, Message: "quota"})
	assert.True(t, IsRetryable(err))

	err = classifyGeminiError(&googleapi.Error{Code: 400, Message: "bad"})
	assert.False(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "failed to generate content")
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world")}}},
		},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}
