// Package mappers projects between the service's wire documents and the
// canonical domain model. Reads are tolerant (missing fields get the same
// defaults the service itself fills in); writes are strict about what they
// drop: server-assigned ids and thumbnails never travel in a curriculum
// replace.
package mappers

import (
	"course-studio/internal/domain"
	"course-studio/internal/lms"
)

const defaultTopicType = "Theory"

// CourseFromDoc projects a fetched course into the domain model.
func CourseFromDoc(doc lms.CourseDoc) domain.Course {
	status := doc.Status
	if status == "" {
		status = "draft"
	}

	units := make([]domain.Unit, 0, len(doc.Curriculum))
	for _, s := range doc.Curriculum {
		units = append(units, unitFromDoc(s))
	}

	return domain.Course{
		ID:     doc.ID,
		Title:  doc.Title,
		Status: status,
		Units:  units,
	}
}

func unitFromDoc(s lms.SectionDoc) domain.Unit {
	topics := make([]domain.Topic, 0, len(s.Lectures))
	for _, l := range s.Lectures {
		topics = append(topics, topicFromDoc(l))
	}
	return domain.Unit{
		ID:     s.ID,
		Name:   s.SectionTitle,
		Topics: topics,
	}
}

func topicFromDoc(l lms.LectureDoc) domain.Topic {
	typ := l.Type
	if typ == "" {
		typ = defaultTopicType
	}

	resources := make([]domain.Resource, 0, len(l.Resources))
	for _, r := range l.Resources {
		resources = append(resources, domain.Resource{
			VideoID: r.VideoID,
			Kind:    r.Type,
			Name:    r.Name,
			URL:     r.URL,
		})
	}

	return domain.Topic{
		ID:          l.ID,
		Name:        l.Title,
		Type:        typ,
		Description: l.Description,
		Duration:    l.Duration,
		IsPreview:   l.IsPreview,
		Thumbnail:   l.Thumbnail,
		Resources:   resources,
	}
}

// CurriculumToWire flattens the tree back to the replace payload. Ids are
// dropped on purpose: the service reassigns them on every whole-array PUT.
func CurriculumToWire(units []domain.Unit) []lms.SectionWrite {
	out := make([]lms.SectionWrite, 0, len(units))
	for _, u := range units {
		out = append(out, UnitToWire(u))
	}
	return out
}

// UnitToWire serializes one unit to the wire shape.
func UnitToWire(u domain.Unit) lms.SectionWrite {
	lectures := make([]lms.LectureWrite, 0, len(u.Topics))
	for _, t := range u.Topics {
		lectures = append(lectures, TopicToWire(t))
	}
	return lms.SectionWrite{
		SectionTitle: u.Name,
		Lectures:     lectures,
	}
}

// TopicToWire serializes one topic. Resources keep their ids: those identify
// uploaded media, not curriculum positions.
func TopicToWire(t domain.Topic) lms.LectureWrite {
	typ := t.Type
	if typ == "" {
		typ = defaultTopicType
	}

	resources := make([]lms.ResourceDoc, 0, len(t.Resources))
	for _, r := range t.Resources {
		resources = append(resources, lms.ResourceDoc{
			VideoID: r.VideoID,
			Type:    r.Kind,
			Name:    r.Name,
			URL:     r.URL,
		})
	}

	return lms.LectureWrite{
		Title:       t.Name,
		Description: t.Description,
		Duration:    t.Duration,
		IsPreview:   t.IsPreview,
		Type:        typ,
		Resources:   resources,
	}
}

// AssessmentFromDoc projects a fetched assessment into the domain model.
func AssessmentFromDoc(doc lms.AssessmentDoc) domain.Assessment {
	questions := make([]domain.Question, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		options := make([]domain.Option, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, domain.Option{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		typ := q.Type
		if typ == "" {
			typ = "multiple_choice"
		}
		questions = append(questions, domain.Question{
			Text:    q.Text,
			Type:    typ,
			Options: options,
			Points:  q.Points,
		})
	}

	return domain.Assessment{
		ID:           doc.ID,
		Title:        doc.Title,
		Description:  doc.Description,
		Type:         doc.Type,
		Questions:    questions,
		PassingScore: doc.PassingScore,
		TimeLimit:    doc.TimeLimit,
		IsPublished:  doc.IsPublished,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// AssessmentToDoc serializes an assessment for a full-document update.
func AssessmentToDoc(a domain.Assessment) lms.AssessmentDoc {
	questions := make([]lms.QuestionDoc, 0, len(a.Questions))
	for _, q := range a.Questions {
		options := make([]lms.OptionDoc, 0, len(q.Options))
		for _, o := range q.Options {
			options = append(options, lms.OptionDoc{Text: o.Text, IsCorrect: o.IsCorrect})
		}
		questions = append(questions, lms.QuestionDoc{
			Text:    q.Text,
			Type:    q.Type,
			Options: options,
			Points:  q.Points,
		})
	}

	return lms.AssessmentDoc{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Type:         a.Type,
		Questions:    questions,
		PassingScore: a.PassingScore,
		TimeLimit:    a.TimeLimit,
		IsPublished:  a.IsPublished,
	}
}

// SubmissionFromDoc projects one grading-view row.
func SubmissionFromDoc(doc lms.SubmissionDoc) domain.Submission {
	return domain.Submission{
		AssessmentID:    doc.AssessmentID,
		AssessmentTitle: doc.AssessmentTitle,
		StudentName:     doc.StudentName,
		StudentEmail:    doc.StudentEmail,
		Score:           doc.Score,
		MaxScore:        doc.MaxScore,
		SubmittedAt:     doc.SubmittedAt,
	}
}

// ProfileFromDoc projects the instructor profile.
func ProfileFromDoc(doc lms.ProfileDoc) domain.Profile {
	return domain.Profile{
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
		Email:     doc.Email,
		Phone:     doc.Phone,
		Bio:       doc.Bio,
		Avatar:    doc.Avatar,
	}
}
