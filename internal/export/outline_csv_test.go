package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"course-studio/internal/domain"
)

func TestWriteOutlineCSV(t *testing.T) {
	c := domain.Course{
		ID:     "c1",
		Title:  "Intro to Go",
		Status: "draft",
		Units: []domain.Unit{
			{ID: "s1", Name: "Basics", Topics: []domain.Topic{
				{ID: "l1", Name: "Hello", Type: "video", Duration: 300, IsPreview: true,
					Resources: []domain.Resource{{VideoID: "v1"}}},
				{ID: "l2", Name: "Types", Type: "Theory"},
			}},
			{ID: "s2", Name: "No lectures yet"},
		},
	}

	var buf bytes.Buffer
	if err := WriteOutlineCSV(&buf, c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(buf.String(), "\r\n") {
		t.Error("Expected CRLF line endings")
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Expected parsable CSV, got %v", err)
	}
	// header + 2 lectures + 1 empty-section row
	if len(rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(rows))
	}

	header := rows[0]
	if header[0] != "COURSE_ID" || header[len(header)-1] != "RESOURCE_COUNT" {
		t.Errorf("Expected fixed header order, got %v", header)
	}

	first := rows[1]
	want := []string{"c1", "Intro to Go", "draft", "1", "Basics", "1", "Hello", "video", "300", "true", "1"}
	if len(first) != len(want) {
		t.Fatalf("Expected %d columns, got %d", len(want), len(first))
	}
	for i := range want {
		if first[i] != want[i] {
			t.Errorf("Expected column %d = %q, got %q", i, want[i], first[i])
		}
	}

	empty := rows[3]
	if empty[4] != "No lectures yet" || empty[6] != "" {
		t.Errorf("Expected bare section row, got %v", empty)
	}
}
