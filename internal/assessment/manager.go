// Package assessment is the CRUD flow over course-scoped quizzes and
// assignments. It is structurally independent of the curriculum tree: a
// different endpoint family and no shared identifiers.
package assessment

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"course-studio/internal/domain"
	"course-studio/internal/lms"
	"course-studio/internal/mappers"
)

// Manager holds the assessment list for one course, mirroring server
// confirmations into local state: deletes remove locally on success,
// publish toggles flip locally on success, never before.
type Manager struct {
	CourseID string

	api *lms.Client
	log *zap.Logger

	mu          sync.Mutex
	assessments []domain.Assessment
}

func NewManager(courseID string, api *lms.Client, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{CourseID: courseID, api: api, log: log}
}

// Load fetches all assessments for the course.
func (m *Manager) Load(ctx context.Context) error {
	docs, err := m.api.ListAssessments(ctx, m.CourseID)
	if err != nil {
		return err
	}

	list := make([]domain.Assessment, 0, len(docs))
	for _, d := range docs {
		list = append(list, mappers.AssessmentFromDoc(d))
	}

	m.mu.Lock()
	m.assessments = list
	m.mu.Unlock()
	return nil
}

// List returns the current local copy.
func (m *Manager) List() []domain.Assessment {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Assessment, len(m.assessments))
	copy(out, m.assessments)
	return out
}

// Get returns one assessment from the local copy.
func (m *Manager) Get(id string) (domain.Assessment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assessments {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Assessment{}, false
}

// Fetch pulls one assessment fresh from the service (the editor wants the
// full question list even when the local copy is stale).
func (m *Manager) Fetch(ctx context.Context, id string) (domain.Assessment, error) {
	doc, err := m.api.GetAssessment(ctx, m.CourseID, id)
	if err != nil {
		return domain.Assessment{}, err
	}
	return mappers.AssessmentFromDoc(doc), nil
}

// Update validates, schema-checks and PUTs the whole document, then
// mirrors it locally. Validation failures never reach the network.
func (m *Manager) Update(ctx context.Context, a domain.Assessment) error {
	if err := Validate(a); err != nil {
		return err
	}
	if err := checkUpdatePayload(a); err != nil {
		return err
	}

	if err := m.api.UpdateAssessment(ctx, m.CourseID, mappers.AssessmentToDoc(a)); err != nil {
		return err
	}

	m.mu.Lock()
	for i := range m.assessments {
		if m.assessments[i].ID == a.ID {
			m.assessments[i] = a
			break
		}
	}
	m.mu.Unlock()

	m.log.Info("assessment updated",
		zap.String("courseId", m.CourseID), zap.String("assessmentId", a.ID),
		zap.Int("questions", len(a.Questions)))
	return nil
}

// Delete removes the assessment server-side, then locally.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.api.DeleteAssessment(ctx, m.CourseID, id); err != nil {
		return err
	}

	m.mu.Lock()
	kept := m.assessments[:0]
	for _, a := range m.assessments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	m.assessments = kept
	m.mu.Unlock()

	m.log.Info("assessment deleted",
		zap.String("courseId", m.CourseID), zap.String("assessmentId", id))
	return nil
}

// TogglePublish flips the published flag via the single-field patch and
// mirrors the new state locally on success only. Returns the new state.
func (m *Manager) TogglePublish(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	var current *domain.Assessment
	for i := range m.assessments {
		if m.assessments[i].ID == id {
			current = &m.assessments[i]
			break
		}
	}
	if current == nil {
		m.mu.Unlock()
		return false, &lms.NotFoundError{What: "assessment " + id}
	}
	next := !current.IsPublished
	m.mu.Unlock()

	if err := m.api.PatchAssessmentPublished(ctx, m.CourseID, id, next); err != nil {
		return !next, err
	}

	m.mu.Lock()
	for i := range m.assessments {
		if m.assessments[i].ID == id {
			m.assessments[i].IsPublished = next
			break
		}
	}
	m.mu.Unlock()
	return next, nil
}

// Submissions fetches the grading-view rows for the course.
func (m *Manager) Submissions(ctx context.Context) ([]domain.Submission, error) {
	docs, err := m.api.ListSubmittedAssessments(ctx, m.CourseID)
	if err != nil {
		return nil, err
	}
	subs := make([]domain.Submission, 0, len(docs))
	for _, d := range docs {
		subs = append(subs, mappers.SubmissionFromDoc(d))
	}
	return subs, nil
}
