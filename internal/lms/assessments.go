package lms

import (
	"context"
	"fmt"
	"net/http"
)

// ListAssessments fetches every assessment scoped to the course.
func (c *Client) ListAssessments(ctx context.Context, courseID string) ([]AssessmentDoc, error) {
	var docs []AssessmentDoc
	err := c.do(ctx, http.MethodGet, "/instructors/courses/"+courseID+"/assessments", nil, &docs)
	if err != nil {
		return nil, fmt.Errorf("list assessments for %s: %w", courseID, err)
	}
	return docs, nil
}

// GetAssessment fetches one assessment with its full question list.
func (c *Client) GetAssessment(ctx context.Context, courseID, assessmentID string) (AssessmentDoc, error) {
	var doc AssessmentDoc
	err := c.do(ctx, http.MethodGet,
		"/instructors/courses/"+courseID+"/assessments/"+assessmentID, nil, &doc)
	if err != nil {
		return AssessmentDoc{}, fmt.Errorf("get assessment %s: %w", assessmentID, err)
	}
	return doc, nil
}

// UpdateAssessment PUTs the whole document back, questions and options
// included. Same whole-document replace discipline as the curriculum.
func (c *Client) UpdateAssessment(ctx context.Context, courseID string, doc AssessmentDoc) error {
	payload := struct {
		Title        string        `json:"title"`
		Description  string        `json:"description"`
		Type         string        `json:"type"`
		Questions    []QuestionDoc `json:"questions"`
		PassingScore int           `json:"passingScore"`
		TimeLimit    int           `json:"timeLimit"`
		IsPublished  bool          `json:"isPublished"`
	}{
		Title:        doc.Title,
		Description:  doc.Description,
		Type:         doc.Type,
		Questions:    doc.Questions,
		PassingScore: doc.PassingScore,
		TimeLimit:    doc.TimeLimit,
		IsPublished:  doc.IsPublished,
	}

	err := c.do(ctx, http.MethodPut,
		"/instructors/courses/"+courseID+"/assessments/"+doc.ID, payload, nil)
	if err != nil {
		return fmt.Errorf("update assessment %s: %w", doc.ID, err)
	}
	return nil
}

// PatchAssessmentPublished flips only the published flag; the service
// accepts the single-field body on the same endpoint.
func (c *Client) PatchAssessmentPublished(ctx context.Context, courseID, assessmentID string, published bool) error {
	payload := struct {
		IsPublished bool `json:"isPublished"`
	}{IsPublished: published}

	err := c.do(ctx, http.MethodPut,
		"/instructors/courses/"+courseID+"/assessments/"+assessmentID, payload, nil)
	if err != nil {
		return fmt.Errorf("set published=%v on assessment %s: %w", published, assessmentID, err)
	}
	return nil
}

// DeleteAssessment removes the assessment by id.
func (c *Client) DeleteAssessment(ctx context.Context, courseID, assessmentID string) error {
	err := c.do(ctx, http.MethodDelete,
		"/instructors/courses/"+courseID+"/assessments/"+assessmentID, nil, nil)
	if err != nil {
		return fmt.Errorf("delete assessment %s: %w", assessmentID, err)
	}
	return nil
}

// ListSubmittedAssessments fetches the grading view rows for the course.
func (c *Client) ListSubmittedAssessments(ctx context.Context, courseID string) ([]SubmissionDoc, error) {
	var docs []SubmissionDoc
	err := c.do(ctx, http.MethodGet,
		"/instructors/courses/"+courseID+"/assessments/submitted", nil, &docs)
	if err != nil {
		return nil, fmt.Errorf("list submitted assessments for %s: %w", courseID, err)
	}
	return docs, nil
}
