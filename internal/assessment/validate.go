package assessment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"course-studio/internal/domain"
	"course-studio/internal/mappers"
)

// ValidationError is a client-side rejection; nothing reached the network.
// One message for the first failing question, matching how the editor
// reports it, rather than a per-field error list.
type ValidationError struct {
	Question int // 1-based; 0 means the assessment itself
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Question == 0 {
		return "assessment: " + e.Reason
	}
	return fmt.Sprintf("assessment: question %d: %s", e.Question, e.Reason)
}

// Validate applies the submission policy: the first invalid question stops
// everything and produces a single aggregated message.
func Validate(a domain.Assessment) error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Reason: "title must not be empty"}
	}

	for i, q := range a.Questions {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Question: n, Reason: "question text must not be empty"}
		}
		if len(q.Options) == 0 {
			return &ValidationError{Question: n, Reason: "at least one option is required"}
		}
		correct := 0
		for _, o := range q.Options {
			if strings.TrimSpace(o.Text) == "" {
				return &ValidationError{Question: n, Reason: "option text must not be empty"}
			}
			if o.IsCorrect {
				correct++
			}
		}
		if correct == 0 {
			return &ValidationError{Question: n, Reason: "no correct option designated"}
		}
		if q.Points <= 0 {
			return &ValidationError{Question: n, Reason: "point value must be positive"}
		}
	}
	return nil
}

// updateSchema guards the shape of the whole-document update payload. The
// service swallows unknown shapes badly ("Unexpected field" 500s), so the
// payload is checked here before it travels.
const updateSchema = `{
  "type": "object",
  "required": ["title", "type", "questions", "passingScore", "timeLimit", "isPublished"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "type": {"enum": ["quiz", "assignment", "exam"]},
    "passingScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "timeLimit": {"type": "integer", "minimum": 0},
    "isPublished": {"type": "boolean"},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "type", "options", "points"],
        "properties": {
          "text": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "points": {"type": "integer", "minimum": 1},
          "options": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["text", "isCorrect"],
              "properties": {
                "text": {"type": "string", "minLength": 1},
                "isCorrect": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

// checkUpdatePayload runs the wire document through the JSON schema.
func checkUpdatePayload(a domain.Assessment) error {
	doc := mappers.AssessmentToDoc(a)
	doc.ID = "" // not part of the body

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(updateSchema),
		gojsonschema.NewBytesLoader(b),
	)
	if err != nil {
		return fmt.Errorf("assessment: schema check: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return &ValidationError{Reason: "payload rejected: " + strings.Join(msgs, "; ")}
}
