package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"
)

type mockRoundTripper struct {
	responses []*http.Response
	errors    []error
	index     int
	mux       sync.Mutex
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mux.Lock()
	defer m.mux.Unlock()

	if m.index >= len(m.responses) {
		return nil, errors.New("no more responses")
	}

	resp := m.responses[m.index]
	err := m.errors[m.index]
	m.index++

	if resp != nil && resp.Body != nil {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewBuffer(body))
	}

	return resp, err
}

func newMockClient(responses []*http.Response, errs []error) *http.Client {
	for len(errs) < len(responses) {
		errs = append(errs, nil)
	}
	return &http.Client{
		Transport: &mockRoundTripper{responses: responses, errors: errs},
	}
}

func newMockResponse(statusCode int, body string, headers map[string]string) *http.Response {
	header := http.Header{}
	for k, v := range headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     header,
	}
}

func fastRetry(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func buildGet(t *testing.T) func(context.Context) (*http.Request, error) {
	t.Helper()
	return func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, "https://example.com", nil)
	}
}

func TestDoWithRetrySuccessFirstAttempt(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(200, `{"ok":true}`, nil),
	}, nil)

	resp, body, err := DoWithRetry(context.Background(), client, buildGet(t), fastRetry(3))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("Expected body %q, got %q", `{"ok":true}`, string(body))
	}
}

func TestDoWithRetryRetries503(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(503, "unavailable", nil),
		newMockResponse(503, "unavailable", nil),
		newMockResponse(200, "ok", nil),
	}, nil)

	resp, body, err := DoWithRetry(context.Background(), client, buildGet(t), fastRetry(5))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}
	if string(body) != "ok" {
		t.Errorf("Expected body %q, got %q", "ok", string(body))
	}
}

func TestDoWithRetryDoesNotRetry400(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(400, "bad request", nil),
		newMockResponse(200, "should never be reached", nil),
	}, nil)

	_, _, err := DoWithRetry(context.Background(), client, buildGet(t), fastRetry(5))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HTTPError, got %T", err)
	}
	if herr.StatusCode != 400 {
		t.Errorf("Expected status code 400, got %d", herr.StatusCode)
	}
	if string(herr.Body) != "bad request" {
		t.Errorf("Expected body %q, got %q", "bad request", string(herr.Body))
	}
}

func TestDoWithRetryExhaustsAttempts(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(503, "u1", nil),
		newMockResponse(503, "u2", nil),
		newMockResponse(503, "u3", nil),
	}, nil)

	_, _, err := DoWithRetry(context.Background(), client, buildGet(t), fastRetry(3))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	var herr *HTTPError
	if !errors.As(err, &herr) {
		t.Fatalf("Expected *HTTPError, got %T", err)
	}
	if herr.StatusCode != 503 {
		t.Errorf("Expected status code 503, got %d", herr.StatusCode)
	}
}

func TestNoRetryIsSingleShot(t *testing.T) {
	rt := &mockRoundTripper{
		responses: []*http.Response{
			newMockResponse(503, "unavailable", nil),
			newMockResponse(200, "ok", nil),
		},
		errors: []error{nil, nil},
	}
	client := &http.Client{Transport: rt}

	_, _, err := DoWithRetry(context.Background(), client, buildGet(t), NoRetry())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if rt.index != 1 {
		t.Errorf("Expected 1 attempt, got %d", rt.index)
	}
}

func TestDoWithRetryContextCancel(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(503, "unavailable", nil),
		newMockResponse(200, "ok", nil),
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry(5)
	cfg.BaseDelay = time.Second // cancel must win over the backoff sleep

	_, _, err := DoWithRetry(ctx, client, buildGet(t), cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"missing", "", 0},
		{"seconds", "7", 7 * time.Second},
		{"negative", "-3", 0},
		{"garbage", "soon", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.header != "" {
				headers["Retry-After"] = tc.header
			}
			got := ParseRetryAfter(newMockResponse(429, "", headers))
			if got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDoJSONDecodes(t *testing.T) {
	client := newMockClient([]*http.Response{
		newMockResponse(200, `{"name":"Go Basics"}`, nil),
	}, nil)

	var out struct {
		Name string `json:"name"`
	}
	err := DoJSON(context.Background(), client, buildGet(t), &out, fastRetry(1))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out.Name != "Go Basics" {
		t.Errorf("Expected name %q, got %q", "Go Basics", out.Name)
	}
}
