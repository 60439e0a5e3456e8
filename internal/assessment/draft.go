package assessment

import (
	"fmt"
	"strings"

	"course-studio/internal/domain"
)

// MaxDraftQuestions caps a quick-draft quiz, same as the add-assignment
// form always did.
const MaxDraftQuestions = 5

// Draft is the simple authoring flow: options are plain strings and one of
// them is named as correct by its text. The service has no create endpoint
// for assessments today, so a draft's output is a ready-to-send document
// waiting on one; converting (and validating) is still useful for review
// and for YAML-authored quizzes.
type Draft struct {
	Title       string
	Description string
	Questions   []DraftQuestion
}

// DraftQuestion designates the correct answer by text, not by flag.
type DraftQuestion struct {
	Question      string
	Options       []string
	CorrectOption string
}

// AddQuestion appends a blank four-option question, up to the cap.
func (d *Draft) AddQuestion() error {
	if len(d.Questions) >= MaxDraftQuestions {
		return &ValidationError{Reason: fmt.Sprintf("you can only add up to %d questions", MaxDraftQuestions)}
	}
	d.Questions = append(d.Questions, DraftQuestion{Options: make([]string, 4)})
	return nil
}

// Validate enforces the draft rule set: every text present, and the chosen
// correct option must match exactly one option.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Reason: "title must not be empty"}
	}
	if len(d.Questions) == 0 {
		return &ValidationError{Reason: "at least one question is required"}
	}

	for i, q := range d.Questions {
		n := i + 1
		if strings.TrimSpace(q.Question) == "" {
			return &ValidationError{Question: n, Reason: "question text must not be empty"}
		}
		matches := 0
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return &ValidationError{Question: n, Reason: "option text must not be empty"}
			}
			if opt == q.CorrectOption {
				matches++
			}
		}
		if matches != 1 {
			return &ValidationError{Question: n, Reason: "the correct option must match exactly one option"}
		}
	}
	return nil
}

// ToAssessment converts a valid draft into the full document shape, one
// point per question.
func (d *Draft) ToAssessment(typ string, passingScore, timeLimit int) (domain.Assessment, error) {
	if err := d.Validate(); err != nil {
		return domain.Assessment{}, err
	}

	questions := make([]domain.Question, 0, len(d.Questions))
	for _, q := range d.Questions {
		options := make([]domain.Option, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, domain.Option{
				Text:      opt,
				IsCorrect: opt == q.CorrectOption,
			})
		}
		questions = append(questions, domain.Question{
			Text:    q.Question,
			Type:    "multiple_choice",
			Options: options,
			Points:  1,
		})
	}

	return domain.Assessment{
		Title:        d.Title,
		Description:  d.Description,
		Type:         typ,
		Questions:    questions,
		PassingScore: passingScore,
		TimeLimit:    timeLimit,
	}, nil
}
