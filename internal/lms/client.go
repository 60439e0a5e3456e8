// Package lms is the REST client for the remote course service. Every
// outbound call in this repo goes through Client.do: it attaches the bearer
// credential, retries transient failures, decodes the response envelope and
// maps statuses onto the error types in errors.go. A 401 clears the session
// store right here, once, instead of in every caller.
package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"course-studio/internal/httpx"
	"course-studio/internal/session"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client

	Session *session.Store
	Log     *zap.Logger

	Retry httpx.RetryConfig
}

// New builds a client with the shared transport defaults. rps <= 0
// disables client-side pacing.
func New(baseURL string, sess *session.Store, log *zap.Logger, timeout time.Duration, rps float64) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    httpx.NewClient(timeout, rps),
		Session: sess,
		Log:     log,
		Retry:   httpx.DefaultRetryConfig(),
	}
}

// do issues one JSON API call. body may be nil; out may be nil. The
// envelope's data field is what gets unmarshalled into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	return c.request(ctx, method, path, func() (string, []byte, error) {
		if body == nil {
			return "", nil, nil
		}
		b, err := json.Marshal(body)
		if err != nil {
			return "", nil, err
		}
		return "application/json", b, nil
	}, out, c.Retry)
}

// request is the single choke point: credential attach, retry, envelope
// decode, status mapping, 401 session clearing.
func (c *Client) request(
	ctx context.Context,
	method, path string,
	payload func() (contentType string, body []byte, err error),
	out any,
	retry httpx.RetryConfig,
) error {
	token, err := c.Session.Token()
	if err != nil {
		if errors.Is(err, session.ErrNoToken) {
			return &AuthError{Reason: "not logged in"}
		}
		return err
	}

	contentType, bodyBytes, err := payload()
	if err != nil {
		return err
	}

	_, respBody, err := httpx.DoWithRetry(ctx, c.HTTP, func(ctx context.Context) (*http.Request, error) {
		var r *http.Request
		var err error
		if bodyBytes == nil {
			r, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
		} else {
			r, err = http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(bodyBytes))
		}
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			r.Header.Set("Content-Type", contentType)
		}
		r.Header.Set("Accept", "application/json")
		r.Header.Set("Authorization", "Bearer "+token)
		return r, nil
	}, retry)

	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			return c.mapHTTPError(method, path, herr, respBody)
		}
		return fmt.Errorf("lms: %s %s: %w", method, path, err)
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("lms: %s %s: decode envelope: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("lms: %s %s: empty data in response", method, path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("lms: %s %s: decode data: %w", method, path, err)
	}
	return nil
}

func (c *Client) mapHTTPError(method, path string, herr *httpx.HTTPError, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env) // best effort, message only

	switch {
	case herr.StatusCode == http.StatusUnauthorized:
		if err := c.Session.Clear(); err != nil {
			c.Log.Warn("clearing session after 401 failed", zap.Error(err))
		}
		c.Log.Info("session expired, credential cleared",
			zap.String("method", method), zap.String("path", path),
			zap.String("requestId", herr.RequestID))
		return &AuthError{}
	case herr.StatusCode == http.StatusNotFound:
		what := env.Message
		if what == "" {
			what = "resource"
		}
		return &NotFoundError{What: what}
	case herr.StatusCode >= 500:
		return &ServerError{StatusCode: herr.StatusCode, Message: env.Message}
	default:
		return herr
	}
}

/* -------- Courses -------- */

// GetCourse fetches one course with its full curriculum.
func (c *Client) GetCourse(ctx context.Context, courseID string) (CourseDoc, error) {
	var doc CourseDoc
	if err := c.do(ctx, http.MethodGet, "/courses/"+courseID, nil, &doc); err != nil {
		return CourseDoc{}, fmt.Errorf("get course %s: %w", courseID, err)
	}
	return doc, nil
}

// ListCourses fetches the instructor's own courses.
func (c *Client) ListCourses(ctx context.Context) ([]CourseDoc, error) {
	var docs []CourseDoc
	if err := c.do(ctx, http.MethodGet, "/instructors/courses", nil, &docs); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return docs, nil
}

// PutCurriculum replaces the entire curriculum array. There is no partial
// endpoint: every structural change goes through here.
func (c *Client) PutCurriculum(ctx context.Context, courseID string, curriculum []SectionWrite) error {
	payload := struct {
		Curriculum []SectionWrite `json:"curriculum"`
	}{Curriculum: curriculum}

	if err := c.do(ctx, http.MethodPut, "/instructors/courses/"+courseID, payload, nil); err != nil {
		return fmt.Errorf("put curriculum for %s: %w", courseID, err)
	}
	c.Log.Debug("curriculum replaced",
		zap.String("courseId", courseID), zap.Int("sections", len(curriculum)))
	return nil
}

// PutTitle updates only the course title; same endpoint, partial body.
func (c *Client) PutTitle(ctx context.Context, courseID, title string) error {
	payload := struct {
		Title string `json:"title"`
	}{Title: title}
	if err := c.do(ctx, http.MethodPut, "/instructors/courses/"+courseID, payload, nil); err != nil {
		return fmt.Errorf("put title for %s: %w", courseID, err)
	}
	return nil
}

// PutStatus updates only the course status (draft/published/archived).
func (c *Client) PutStatus(ctx context.Context, courseID, status string) error {
	payload := struct {
		Status string `json:"status"`
	}{Status: status}
	if err := c.do(ctx, http.MethodPut, "/instructors/courses/"+courseID, payload, nil); err != nil {
		return fmt.Errorf("put status for %s: %w", courseID, err)
	}
	return nil
}
