package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"course-studio/internal/domain"
)

const gradebookSheet = "Submissions"

// WriteGradebook writes graded submissions to an xlsx workbook, one row per
// attempt, with a computed percentage column. Rows keep the order the
// service returned them in.
func WriteGradebook(w io.Writer, subs []domain.Submission) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(gradebookSheet)
	if err != nil {
		return fmt.Errorf("gradebook: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("gradebook: %w", err)
	}

	header := []any{"Assessment", "Student", "Email", "Score", "Max score", "Percent", "Submitted at"}
	if err := f.SetSheetRow(gradebookSheet, "A1", &header); err != nil {
		return fmt.Errorf("gradebook: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("gradebook: %w", err)
	}
	if err := f.SetRowStyle(gradebookSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("gradebook: %w", err)
	}

	for i, s := range subs {
		percent := 0.0
		if s.MaxScore > 0 {
			percent = float64(s.Score) / float64(s.MaxScore) * 100
		}
		row := []any{
			s.AssessmentTitle,
			s.StudentName,
			s.StudentEmail,
			s.Score,
			s.MaxScore,
			fmt.Sprintf("%.1f%%", percent),
			s.SubmittedAt.Format("2006-01-02 15:04"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(gradebookSheet, cell, &row); err != nil {
			return fmt.Errorf("gradebook row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(gradebookSheet, "A", "C", 28); err != nil {
		return fmt.Errorf("gradebook: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("gradebook: write: %w", err)
	}
	return nil
}
