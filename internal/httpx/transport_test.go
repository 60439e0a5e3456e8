package httpx

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"testing"

	"github.com/andybalholm/brotli"
)

type captureTransport struct {
	req  *http.Request
	resp *http.Response
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.req = req
	return c.resp, nil
}

func TestBrotliTransportAdvertisesEncodings(t *testing.T) {
	inner := &captureTransport{resp: newMockResponse(200, "plain", nil)}
	rt := &brotliTransport{next: inner}

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := inner.req.Header.Get("Accept-Encoding"); got != "br, gzip" {
		t.Errorf("Expected Accept-Encoding %q, got %q", "br, gzip", got)
	}
}

func TestBrotliTransportDecodesBr(t *testing.T) {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write([]byte(`{"success":true}`)); err != nil {
		t.Fatal(err)
	}
	w.Close()

	resp := newMockResponse(200, buf.String(), map[string]string{"Content-Encoding": "br"})
	rt := &brotliTransport{next: &captureTransport{resp: resp}}

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	got, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	body, err := io.ReadAll(got.Body)
	if err != nil {
		t.Fatalf("Expected no error reading body, got %v", err)
	}
	if string(body) != `{"success":true}` {
		t.Errorf("Expected body %q, got %q", `{"success":true}`, string(body))
	}
	if got.Header.Get("Content-Encoding") != "" {
		t.Errorf("Expected Content-Encoding stripped, got %q", got.Header.Get("Content-Encoding"))
	}
}

func TestBrotliTransportDecodesGzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	w.Close()

	resp := newMockResponse(200, buf.String(), map[string]string{"Content-Encoding": "gzip"})
	rt := &brotliTransport{next: &captureTransport{resp: resp}}

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	got, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	body, _ := io.ReadAll(got.Body)
	if string(body) != "hello" {
		t.Errorf("Expected body %q, got %q", "hello", string(body))
	}
}

func TestRequestIDTransportStampsHeader(t *testing.T) {
	inner := &captureTransport{resp: newMockResponse(200, "", nil)}
	rt := &requestIDTransport{next: inner}

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if inner.req.Header.Get(requestIDHeader) == "" {
		t.Error("Expected X-Request-Id to be set")
	}

	// A caller-provided id survives.
	req2, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	req2.Header.Set(requestIDHeader, "fixed-id")
	if _, err := rt.RoundTrip(req2); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := inner.req.Header.Get(requestIDHeader); got != "fixed-id" {
		t.Errorf("Expected request id %q, got %q", "fixed-id", got)
	}
}
