package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-Id"

// NewClient builds the http.Client shared by the lms client: pooled
// transport, request ids, client-side pacing and brotli decoding.
// rps <= 0 disables pacing.
func NewClient(timeout time.Duration, rps float64) *http.Client {
	base := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	var rt http.RoundTripper = &brotliTransport{next: base}
	if rps > 0 {
		rt = &pacedTransport{next: rt, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
	}
	rt = &requestIDTransport{next: rt}

	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &http.Client{Timeout: timeout, Transport: rt}
}

// requestIDTransport stamps every outgoing request with an X-Request-Id so
// log lines and server-side traces can be correlated.
type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.NewString())
	}
	return t.next.RoundTrip(req)
}

// pacedTransport spaces requests out client-side. The hosted service starts
// returning 429/504 on bursts, so pacing up front beats retrying after.
type pacedTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}

// brotliTransport advertises br alongside gzip and decodes whichever the
// server picks. Setting Accept-Encoding by hand turns off net/http's
// transparent gzip, so both encodings are handled here.
type brotliTransport struct {
	next http.RoundTripper
}

func (t *brotliTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "br, gzip")
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.Header.Get("Content-Encoding") {
	case "br":
		resp.Body = &decodedBody{r: brotli.NewReader(resp.Body), inner: resp.Body}
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, err
		}
		resp.Body = &decodedBody{r: gz, inner: resp.Body}
	default:
		return resp, nil
	}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	return resp, nil
}

type decodedBody struct {
	r     io.Reader
	inner io.ReadCloser
}

func (b *decodedBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *decodedBody) Close() error               { return b.inner.Close() }
