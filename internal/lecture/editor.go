// Package lecture edits one topic's metadata and media. Field edits and
// file selection stay client-local; Save runs the three-phase persistence
// sequence against the service and finishes with a local merge into the
// curriculum tree. Curriculum structure never changes here.
package lecture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"course-studio/internal/curriculum"
	"course-studio/internal/domain"
	"course-studio/internal/lms"
)

// PartialSaveError reports a save that failed after an earlier phase had
// already persisted server-side. There is no rollback: the uploaded media
// stays attached on the server even though the local merge never ran.
type PartialSaveError struct {
	Persisted []string // e.g. "video upload"
	Err       error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("lecture: save failed after %s already persisted: %v",
		strings.Join(e.Persisted, ", "), e.Err)
}

func (e *PartialSaveError) Unwrap() error { return e.Err }

// Editor accumulates edits for one lecture. Zero-value fields mean "keep
// what the topic already has"; Save resolves the final values.
type Editor struct {
	model *curriculum.Model
	api   *lms.Client
	log   *zap.Logger

	unitID  string
	topicID string

	title          string
	description    string
	duration       int
	isDownloadable bool

	pendingVideos []PendingMedia
	pendingThumb  *PendingMedia
}

// NewEditor opens an editor for the given lecture. The topic must exist in
// the model's current tree.
func NewEditor(model *curriculum.Model, api *lms.Client, log *zap.Logger, unitID, topicID string) (*Editor, error) {
	if log == nil {
		log = zap.NewNop()
	}

	t, ok := model.Course().FindTopic(unitID, topicID)
	if !ok {
		return nil, &lms.NotFoundError{What: fmt.Sprintf("lecture %s in section %s", topicID, unitID)}
	}

	return &Editor{
		model:       model,
		api:         api,
		log:         log,
		unitID:      unitID,
		topicID:     topicID,
		title:       t.Name,
		description: t.Description,
		duration:    t.Duration,
	}, nil
}

// Local-only field edits. Nothing touches the network until Save.

func (e *Editor) SetTitle(title string)      { e.title = title }
func (e *Editor) SetDescription(desc string) { e.description = desc }
func (e *Editor) SetDuration(seconds int)    { e.duration = seconds }
func (e *Editor) SetDownloadable(v bool)     { e.isDownloadable = v }

// PendingVideos exposes the queued uploads, mostly for display.
func (e *Editor) PendingVideos() []PendingMedia { return e.pendingVideos }

// AttachVideos queues video files for upload. The whole batch is rejected
// if any file is oversized or not MP4; the pending list is left unchanged.
func (e *Editor) AttachVideos(paths ...string) error {
	accepted := make([]PendingMedia, 0, len(paths))
	for _, p := range paths {
		m, err := checkVideoFile(p)
		if err != nil {
			return err
		}
		accepted = append(accepted, m)
	}

	e.pendingVideos = append(e.pendingVideos, accepted...)

	// Fill the duration from the container when nobody set one by hand.
	if e.duration == 0 && len(accepted) > 0 {
		if secs := probeDuration(accepted[0].Path); secs > 0 {
			e.duration = secs
			e.log.Debug("duration probed from video",
				zap.String("file", accepted[0].Name), zap.Int("seconds", secs))
		}
	}
	return nil
}

// AttachThumbnail queues a thumbnail. Non-image files are rejected with no
// state change.
func (e *Editor) AttachThumbnail(path string) error {
	m, err := checkImageFile(path)
	if err != nil {
		return err
	}
	e.pendingThumb = &m
	return nil
}

// Save persists the lecture in three phases: content upload (when a video
// is pending), thumbnail upload (when one is pending), then a local merge
// into the curriculum tree. Any phase failing aborts the rest. The phases
// hit distinct endpoints, so a later failure leaves the earlier uploads in
// place server-side; that case comes back as *PartialSaveError.
func (e *Editor) Save(ctx context.Context) error {
	courseID := e.model.CourseID

	// Confirm the section and lecture still exist before pushing bytes at
	// them: uploading against a deleted target 404s after the transfer.
	doc, err := e.api.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	topic, ok := courseFind(doc, e.unitID, e.topicID)
	if !ok {
		return &lms.NotFoundError{What: "section or lecture (refresh and try again)"}
	}

	var persisted []string
	resources := topic.Resources
	topicType := topic.Type
	thumbnail := topic.Thumbnail

	if len(e.pendingVideos) > 0 {
		up := e.pendingVideos[0]
		f, err := os.Open(up.Path)
		if err != nil {
			return fmt.Errorf("lecture: open %s: %w", up.Path, err)
		}

		existing := make([]string, 0, len(resources))
		for _, r := range resources {
			existing = append(existing, r.VideoID)
		}

		err = e.api.UploadContent(ctx, courseID, lms.ContentUpload{
			SectionID:        e.unitID,
			LectureID:        e.topicID,
			Title:            e.title,
			Description:      e.description,
			Type:             "video",
			IsDownloadable:   e.isDownloadable,
			IsPreview:        topic.IsPreview,
			Duration:         e.duration,
			ExistingVideoIDs: existing,
			FileName:         up.Name,
			File:             f,
		})
		f.Close()
		if err != nil {
			return e.decorate(err, persisted)
		}
		persisted = append(persisted, "video upload")
		topicType = "video"

		// The upload response carries no resource descriptor; read the
		// course back and take the newest resource on this lecture.
		after, err := e.api.GetCourse(ctx, courseID)
		if err != nil {
			return e.decorate(err, persisted)
		}
		if t, ok := courseFind(after, e.unitID, e.topicID); ok {
			resources = t.Resources
		}
	}

	if e.pendingThumb != nil {
		f, err := os.Open(e.pendingThumb.Path)
		if err != nil {
			return e.decorate(fmt.Errorf("lecture: open %s: %w", e.pendingThumb.Path, err), persisted)
		}
		url, err := e.api.UploadThumbnail(ctx, courseID, e.unitID, e.topicID, e.pendingThumb.Name, f)
		f.Close()
		if err != nil {
			return e.decorate(err, persisted)
		}
		if url != "" {
			thumbnail = url
		}
		persisted = append(persisted, "thumbnail upload")
	}

	merged := toDomainResources(resources)
	err = e.model.MergeTopic(e.unitID, e.topicID, curriculum.TopicPatch{
		Name:           &e.title,
		Type:           &topicType,
		Description:    &e.description,
		Duration:       &e.duration,
		IsDownloadable: &e.isDownloadable,
		Thumbnail:      &thumbnail,
		Resources:      merged,
	})
	if err != nil {
		return e.decorate(err, persisted)
	}

	e.pendingVideos = nil
	e.pendingThumb = nil
	e.log.Info("lecture saved",
		zap.String("courseId", courseID),
		zap.String("lectureId", e.topicID),
		zap.Int("resources", len(merged)))
	return nil
}

// decorate maps service errors to the messages instructors act on, and
// wraps in PartialSaveError when earlier phases already landed.
func (e *Editor) decorate(err error, persisted []string) error {
	var serr *lms.ServerError
	if errors.As(err, &serr) && serr.Message == "Unexpected field" {
		err = fmt.Errorf("unexpected field in the request, ensure only valid fields are sent: %w", err)
	}

	if len(persisted) > 0 {
		return &PartialSaveError{Persisted: persisted, Err: err}
	}
	return err
}

func courseFind(doc lms.CourseDoc, sectionID, lectureID string) (lms.LectureDoc, bool) {
	for _, s := range doc.Curriculum {
		if s.ID != sectionID {
			continue
		}
		for _, l := range s.Lectures {
			if l.ID == lectureID {
				return l, true
			}
		}
	}
	return lms.LectureDoc{}, false
}

func toDomainResources(in []lms.ResourceDoc) []domain.Resource {
	out := make([]domain.Resource, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Resource{
			VideoID: r.VideoID,
			Kind:    r.Type,
			Name:    r.Name,
			URL:     r.URL,
		})
	}
	return out
}
