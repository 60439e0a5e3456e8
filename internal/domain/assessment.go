package domain

import "time"

// Assessment is a quiz/assignment/exam scoped to a course. It lives in its
// own endpoint family and shares no identifiers with the curriculum tree.
type Assessment struct {
	ID           string
	Title        string
	Description  string
	Type         string // "quiz", "assignment", "exam"
	Questions    []Question
	PassingScore int // percentage
	TimeLimit    int // minutes
	IsPublished  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Question carries its options in answer order.
type Question struct {
	Text    string
	Type    string // "multiple_choice"
	Options []Option
	Points  int
}

type Option struct {
	Text      string
	IsCorrect bool
}

// Submission is one student's graded attempt, as the grading view sees it.
type Submission struct {
	AssessmentID    string
	AssessmentTitle string
	StudentName     string
	StudentEmail    string
	Score           int
	MaxScore        int
	SubmittedAt     time.Time
}

// TotalPoints sums the point values of all questions.
func (a Assessment) TotalPoints() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}
