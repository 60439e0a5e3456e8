package lms

import (
	"encoding/json"
	"time"
)

// envelope is the service's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// CourseDoc is a course as the service returns it.
type CourseDoc struct {
	ID         string       `json:"_id"`
	Title      string       `json:"title"`
	Status     string       `json:"status"`
	Curriculum []SectionDoc `json:"curriculum"`
}

// SectionDoc is one curriculum section as fetched. Ids are server-assigned.
type SectionDoc struct {
	ID           string       `json:"_id"`
	SectionTitle string       `json:"sectionTitle"`
	Lectures     []LectureDoc `json:"lectures"`
}

type LectureDoc struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Type        string        `json:"type"`
	Description string        `json:"description"`
	Duration    int           `json:"duration"`
	IsPreview   bool          `json:"isPreview"`
	Thumbnail   string        `json:"thumbnail"`
	Resources   []ResourceDoc `json:"resources"`
}

type ResourceDoc struct {
	VideoID string `json:"videoId,omitempty"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
}

// SectionWrite is the wire shape for a whole-curriculum PUT. Server-assigned
// ids and thumbnails are deliberately absent: the service reassigns ids on
// every replace and thumbnails travel through their own upload endpoint.
type SectionWrite struct {
	SectionTitle string         `json:"sectionTitle"`
	Lectures     []LectureWrite `json:"lectures"`
}

type LectureWrite struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    int           `json:"duration"`
	IsPreview   bool          `json:"isPreview"`
	Type        string        `json:"type"`
	Resources   []ResourceDoc `json:"resources"`
}

// AssessmentDoc is an assessment as the service sends and receives it.
// Updates PUT the entire document back, questions and all.
type AssessmentDoc struct {
	ID           string        `json:"_id,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Type         string        `json:"type"`
	Questions    []QuestionDoc `json:"questions"`
	PassingScore int           `json:"passingScore"`
	TimeLimit    int           `json:"timeLimit"`
	IsPublished  bool          `json:"isPublished"`
	CreatedAt    time.Time     `json:"createdAt,omitzero"`
	UpdatedAt    time.Time     `json:"updatedAt,omitzero"`
}

type QuestionDoc struct {
	Text    string      `json:"text"`
	Type    string      `json:"type"`
	Options []OptionDoc `json:"options"`
	Points  int         `json:"points"`
}

type OptionDoc struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// SubmissionDoc is one row of the grading view.
type SubmissionDoc struct {
	AssessmentID    string    `json:"assessmentId"`
	AssessmentTitle string    `json:"assessmentTitle"`
	StudentName     string    `json:"studentName"`
	StudentEmail    string    `json:"studentEmail"`
	Score           int       `json:"score"`
	MaxScore        int       `json:"maxScore"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// ProfileDoc is the instructor account record.
type ProfileDoc struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
}
