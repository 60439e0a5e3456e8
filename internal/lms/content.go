package lms

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"course-studio/internal/httpx"
)

// ContentUpload is the multipart body for the lecture media endpoint. The
// service wants the lecture metadata alongside the file, and the ids of any
// resources already attached so it keeps them.
type ContentUpload struct {
	SectionID      string
	LectureID      string
	Title          string
	Description    string
	Type           string // always "video" in practice
	IsDownloadable bool
	IsPreview      bool
	Duration       int // seconds

	// Ids of resources already on the lecture, echoed back as
	// videoId[0..n] exactly like the web client did.
	ExistingVideoIDs []string

	FileName string
	File     io.Reader
}

// UploadContent pushes one lecture video plus metadata. Uploads are never
// retried: the body streams a file and the endpoint is not idempotent.
func (c *Client) UploadContent(ctx context.Context, courseID string, up ContentUpload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"sectionId":      up.SectionID,
		"lectureId":      up.LectureID,
		"title":          up.Title,
		"description":    up.Description,
		"type":           up.Type,
		"isDownloadable": strconv.FormatBool(up.IsDownloadable),
		"isPreview":      strconv.FormatBool(up.IsPreview),
		"duration":       strconv.Itoa(up.Duration),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("upload content: write field %s: %w", k, err)
		}
	}
	for i, id := range up.ExistingVideoIDs {
		if id == "" {
			continue
		}
		if err := w.WriteField(fmt.Sprintf("videoId[%d]", i), id); err != nil {
			return fmt.Errorf("upload content: write videoId: %w", err)
		}
	}

	part, err := w.CreateFormFile("content", up.FileName)
	if err != nil {
		return fmt.Errorf("upload content: create file part: %w", err)
	}
	if _, err := io.Copy(part, up.File); err != nil {
		return fmt.Errorf("upload content: read %s: %w", up.FileName, err)
	}
	if err := w.Close(); err != nil {
		return err
	}

	body := buf.Bytes()
	contentType := w.FormDataContentType()

	err = c.request(ctx, http.MethodPost, "/instructors/courses/"+courseID+"/content",
		func() (string, []byte, error) { return contentType, body, nil },
		nil, httpx.NoRetry())
	if err != nil {
		return fmt.Errorf("upload content for lecture %s: %w", up.LectureID, err)
	}

	c.Log.Info("lecture content uploaded",
		zap.String("courseId", courseID),
		zap.String("lectureId", up.LectureID),
		zap.String("file", up.FileName),
		zap.Int("bytes", len(body)))
	return nil
}

// UploadThumbnail pushes a lecture thumbnail and returns the URL the
// service assigned to it.
func (c *Client) UploadThumbnail(ctx context.Context, courseID, sectionID, lectureID, fileName string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("sectionId", sectionID); err != nil {
		return "", err
	}
	if err := w.WriteField("lectureId", lectureID); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("thumbnail", fileName)
	if err != nil {
		return "", fmt.Errorf("upload thumbnail: create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("upload thumbnail: read %s: %w", fileName, err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	body := buf.Bytes()
	contentType := w.FormDataContentType()

	var out struct {
		Thumbnail string `json:"thumbnail"`
	}
	err = c.request(ctx, http.MethodPost, "/instructors/courses/"+courseID+"/thumbnail",
		func() (string, []byte, error) { return contentType, body, nil },
		&out, httpx.NoRetry())
	if err != nil {
		return "", fmt.Errorf("upload thumbnail for lecture %s: %w", lectureID, err)
	}

	c.Log.Info("lecture thumbnail uploaded",
		zap.String("courseId", courseID), zap.String("lectureId", lectureID))
	return out.Thumbnail, nil
}
