package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"course-studio/internal/domain"
)

func TestWriteGradebook(t *testing.T) {
	subs := []domain.Submission{
		{
			AssessmentTitle: "Go Basics Quiz",
			StudentName:     "Sam",
			StudentEmail:    "sam@example.com",
			Score:           8,
			MaxScore:        10,
			SubmittedAt:     time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			AssessmentTitle: "Final Exam",
			StudentName:     "Alex",
			Score:           0,
			MaxScore:        0, // ungraded; percent must not divide by zero
		},
	}

	var buf bytes.Buffer
	if err := WriteGradebook(&buf, subs); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Expected readable workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(gradebookSheet)
	if err != nil {
		t.Fatalf("Expected Submissions sheet, got %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "Assessment" {
		t.Errorf("Expected header row, got %v", rows[0])
	}
	if rows[1][1] != "Sam" || rows[1][5] != "80.0%" {
		t.Errorf("Expected Sam at 80.0%%, got %v", rows[1])
	}
	if rows[2][5] != "0.0%" {
		t.Errorf("Expected 0.0%% for ungraded, got %v", rows[2])
	}
}

func TestWriteGradebookEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGradebook(&buf, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Expected readable workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(gradebookSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected header only, got %d rows", len(rows))
	}
}
