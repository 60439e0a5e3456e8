package lms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"course-studio/internal/httpx"
)

// GetProfile fetches the instructor's own profile.
func (c *Client) GetProfile(ctx context.Context) (ProfileDoc, error) {
	var doc ProfileDoc
	if err := c.do(ctx, http.MethodGet, "/instructors/profile", nil, &doc); err != nil {
		return ProfileDoc{}, fmt.Errorf("get profile: %w", err)
	}
	return doc, nil
}

// ProfileUpdate carries the editable profile fields plus an optional new
// avatar. The endpoint is multipart even without a file.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Bio       string

	AvatarFileName string
	Avatar         io.Reader // nil means keep the current avatar
}

// UpdateProfile PUTs the account details; returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, up ProfileUpdate) (ProfileDoc, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"firstName": up.FirstName,
		"lastName":  up.LastName,
		"email":     up.Email,
		"phone":     up.Phone,
		"bio":       up.Bio,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return ProfileDoc{}, fmt.Errorf("update profile: write field %s: %w", k, err)
		}
	}

	if up.Avatar != nil {
		part, err := w.CreateFormFile("avatar", up.AvatarFileName)
		if err != nil {
			return ProfileDoc{}, fmt.Errorf("update profile: create avatar part: %w", err)
		}
		if _, err := io.Copy(part, up.Avatar); err != nil {
			return ProfileDoc{}, fmt.Errorf("update profile: read avatar: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return ProfileDoc{}, err
	}

	body := buf.Bytes()
	contentType := w.FormDataContentType()

	var doc ProfileDoc
	err := c.request(ctx, http.MethodPut, "/auth/updatedetails",
		func() (string, []byte, error) { return contentType, body, nil },
		&doc, httpx.NoRetry())
	if err != nil {
		return ProfileDoc{}, fmt.Errorf("update profile: %w", err)
	}
	return doc, nil
}
