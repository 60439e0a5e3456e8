package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"course-studio/internal/domain"
)

// Curriculum outline CSV. Keep header order EXACT: review spreadsheets
// downstream reference columns by position.
var outlineHeader = []string{
	"COURSE_ID",
	"COURSE_TITLE",
	"COURSE_STATUS",
	"SECTION_POSITION",
	"SECTION",
	"LECTURE_POSITION",
	"LECTURE",
	"TYPE",
	"DURATION_SECONDS",
	"PREVIEW",
	"RESOURCE_COUNT",
}

// WriteOutlineCSV writes one row per lecture; sections without lectures
// still get a row so the outline shows them.
func WriteOutlineCSV(w io.Writer, c domain.Course) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(outlineHeader); err != nil {
		return err
	}

	for si, u := range c.Units {
		if len(u.Topics) == 0 {
			row := []string{
				c.ID, c.Title, c.Status,
				strconv.Itoa(si + 1), u.Name,
				"", "", "", "", "", "",
			}
			if err := cw.Write(row); err != nil {
				return err
			}
			continue
		}
		for ti, t := range u.Topics {
			row := []string{
				c.ID,
				c.Title,
				c.Status,
				strconv.Itoa(si + 1),
				u.Name,
				strconv.Itoa(ti + 1),
				t.Name,
				t.Type,
				strconv.Itoa(t.Duration),
				strconv.FormatBool(t.IsPreview),
				strconv.Itoa(len(t.Resources)),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
