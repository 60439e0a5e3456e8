// Package curriculum holds the unit/topic tree for one course and keeps it
// synchronized with the remote service. The service exposes no partial
// update for curriculum structure: every structural change replaces the
// whole array, and the server reassigns every section/lecture id on each
// replace. The model therefore treats the last authoritative fetch plus the
// one change being saved as the only valid write base.
package curriculum

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"course-studio/internal/domain"
	"course-studio/internal/lms"
	"course-studio/internal/mappers"
)

// Model is the in-memory working copy of one course's curriculum.
//
// Structural saves (add/delete unit/topic) serialize behind mu and rebuild
// their wire payload from a fresh fetch inside the critical section. Two
// saves issued close together therefore land as if sequential; the second
// one starts from the base that includes the first. Without this, the
// second whole-array PUT would silently erase the first edit.
type Model struct {
	CourseID string

	api *lms.Client
	log *zap.Logger

	mu            sync.Mutex
	course        domain.Course
	selectedUnit  string
	selectedTopic string
}

func NewModel(courseID string, api *lms.Client, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	return &Model{CourseID: courseID, api: api, log: log}
}

// Load fetches the course and replaces the local tree with the
// authoritative copy. A selection pointing at an id that no longer exists
// is reset. On error the prior local state is left untouched.
func (m *Model) Load(ctx context.Context) error {
	doc, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(mappers.CourseFromDoc(doc))
	return nil
}

// replaceLocked swaps in a new tree and fixes up the selection. Callers
// hold mu.
func (m *Model) replaceLocked(c domain.Course) {
	m.course = c

	if m.selectedUnit != "" {
		if _, ok := c.FindUnit(m.selectedUnit); !ok {
			m.selectedUnit = ""
			m.selectedTopic = ""
		} else if m.selectedTopic != "" {
			if _, ok := c.FindTopic(m.selectedUnit, m.selectedTopic); !ok {
				m.selectedTopic = ""
			}
		}
	}
}

// Course returns a snapshot of the current working copy.
func (m *Model) Course() domain.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.course
}

// Select records the sidebar selection. topicID may be empty to select just
// the unit.
func (m *Model) Select(unitID, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.course.FindUnit(unitID); !ok {
		return &lms.NotFoundError{What: "section " + unitID}
	}
	if topicID != "" {
		if _, ok := m.course.FindTopic(unitID, topicID); !ok {
			return &lms.NotFoundError{What: "lecture " + topicID}
		}
	}
	m.selectedUnit = unitID
	m.selectedTopic = topicID
	return nil
}

// Selection returns the current unit/topic selection, empty when none.
func (m *Model) Selection() (unitID, topicID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedUnit, m.selectedTopic
}

// AddUnit appends a new section and persists the whole curriculum. An
// empty or whitespace-only name is a silent no-op. On success the tree is
// reloaded so the new section carries its server-assigned id.
func (m *Model) AddUnit(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return err
	}
	fresh := mappers.CourseFromDoc(base)

	payload := append(mappers.CurriculumToWire(fresh.Units), lms.SectionWrite{
		SectionTitle: name,
		Lectures:     []lms.LectureWrite{},
	})

	if err := m.api.PutCurriculum(ctx, m.CourseID, payload); err != nil {
		return err
	}

	m.log.Info("section added", zap.String("courseId", m.CourseID), zap.String("name", name))
	return m.reloadLocked(ctx)
}

// AddTopic appends a new lecture to the given section and persists the
// whole curriculum. All other sections round-trip unchanged.
func (m *Model) AddTopic(ctx context.Context, unitID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return err
	}
	fresh := mappers.CourseFromDoc(base)

	if _, ok := fresh.FindUnit(unitID); !ok {
		return &lms.NotFoundError{What: "section " + unitID}
	}

	payload := make([]lms.SectionWrite, 0, len(fresh.Units))
	for _, u := range fresh.Units {
		sw := mappers.UnitToWire(u)
		if u.ID == unitID {
			sw.Lectures = append(sw.Lectures, lms.LectureWrite{
				Title:       name,
				Description: "",
				Duration:    0,
				IsPreview:   false,
				Type:        "Theory",
				Resources:   []lms.ResourceDoc{},
			})
		}
		payload = append(payload, sw)
	}

	if err := m.api.PutCurriculum(ctx, m.CourseID, payload); err != nil {
		return err
	}

	m.log.Info("lecture added",
		zap.String("courseId", m.CourseID), zap.String("sectionId", unitID), zap.String("name", name))
	return m.reloadLocked(ctx)
}

// DeleteUnit removes a section and persists the remainder. Unlike add,
// the local tree is updated in place on success rather than re-fetched;
// deletes do not need the server-assigned ids of a reload to be useful.
func (m *Model) DeleteUnit(ctx context.Context, unitID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return err
	}
	fresh := mappers.CourseFromDoc(base)

	kept := make([]domain.Unit, 0, len(fresh.Units))
	found := false
	for _, u := range fresh.Units {
		if u.ID == unitID {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return &lms.NotFoundError{What: "section " + unitID}
	}

	if err := m.api.PutCurriculum(ctx, m.CourseID, mappers.CurriculumToWire(kept)); err != nil {
		return err
	}

	fresh.Units = kept
	m.replaceLocked(fresh)
	m.log.Info("section deleted", zap.String("courseId", m.CourseID), zap.String("sectionId", unitID))
	return nil
}

// DeleteTopic removes one lecture from a section and persists the result.
func (m *Model) DeleteTopic(ctx context.Context, unitID, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return err
	}
	fresh := mappers.CourseFromDoc(base)

	if _, ok := fresh.FindTopic(unitID, topicID); !ok {
		return &lms.NotFoundError{What: "lecture " + topicID}
	}

	for i, u := range fresh.Units {
		if u.ID != unitID {
			continue
		}
		kept := make([]domain.Topic, 0, len(u.Topics))
		for _, t := range u.Topics {
			if t.ID == topicID {
				continue
			}
			kept = append(kept, t)
		}
		fresh.Units[i].Topics = kept
	}

	if err := m.api.PutCurriculum(ctx, m.CourseID, mappers.CurriculumToWire(fresh.Units)); err != nil {
		return err
	}

	m.replaceLocked(fresh)
	m.log.Info("lecture deleted",
		zap.String("courseId", m.CourseID), zap.String("sectionId", unitID), zap.String("lectureId", topicID))
	return nil
}

// TopicPatch is a partial topic update. Nil fields are left alone.
type TopicPatch struct {
	Name           *string
	Type           *string
	Description    *string
	Duration       *int
	IsPreview      *bool
	IsDownloadable *bool
	Thumbnail      *string
	Resources      []domain.Resource // nil keeps the current list
}

// MergeTopic folds a patch into the local tree without any network call.
// Lecture content persists through its own upload endpoints (see the
// lecture editor); this merge only refreshes the in-memory view afterwards.
func (m *Model) MergeTopic(unitID, topicID string, patch TopicPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, u := range m.course.Units {
		if u.ID != unitID {
			continue
		}
		for j, t := range u.Topics {
			if t.ID != topicID {
				continue
			}
			applyPatch(&m.course.Units[i].Topics[j], patch)
			return nil
		}
	}
	return &lms.NotFoundError{What: fmt.Sprintf("lecture %s in section %s", topicID, unitID)}
}

func applyPatch(t *domain.Topic, p TopicPatch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	if p.IsPreview != nil {
		t.IsPreview = *p.IsPreview
	}
	if p.IsDownloadable != nil {
		t.IsDownloadable = *p.IsDownloadable
	}
	if p.Thumbnail != nil {
		t.Thumbnail = *p.Thumbnail
	}
	if p.Resources != nil {
		t.Resources = p.Resources
	}
}

// UpdateTitle renames the course. Empty names are a silent no-op.
func (m *Model) UpdateTitle(ctx context.Context, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.PutTitle(ctx, m.CourseID, title); err != nil {
		return err
	}
	m.course.Title = title
	return nil
}

// UpdateStatus moves the course between draft/published/archived.
func (m *Model) UpdateStatus(ctx context.Context, status string) error {
	switch status {
	case "draft", "published", "archived":
	default:
		return fmt.Errorf("curriculum: invalid status %q", status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.PutStatus(ctx, m.CourseID, status); err != nil {
		return err
	}
	m.course.Status = status
	return nil
}

// reloadLocked re-fetches the authoritative tree. Callers hold mu.
func (m *Model) reloadLocked(ctx context.Context) error {
	doc, err := m.api.GetCourse(ctx, m.CourseID)
	if err != nil {
		return fmt.Errorf("reload after save: %w", err)
	}
	m.replaceLocked(mappers.CourseFromDoc(doc))
	return nil
}
