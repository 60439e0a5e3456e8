package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"course-studio/internal/concurrency"
	"course-studio/internal/domain"
	"course-studio/internal/lms"
	"course-studio/internal/mappers"
)

// Snapshot is a point-in-time JSON dump of every course the instructor
// owns, curriculum included. Backups upload exactly this.
type Snapshot struct {
	TakenAt time.Time       `json:"takenAt"`
	Courses []domain.Course `json:"courses"`
}

// TakeSnapshot lists the instructor's courses and fetches each one's full
// curriculum in parallel. The listing endpoint returns summaries only, so
// one extra GET per course is unavoidable.
func TakeSnapshot(ctx context.Context, api *lms.Client, opts concurrency.ParallelOptions) (Snapshot, error) {
	docs, err := api.ListCourses(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	full, errs := concurrency.Map(ctx, docs, opts,
		func(ctx context.Context, _ int, doc lms.CourseDoc) (domain.Course, error) {
			d, err := api.GetCourse(ctx, doc.ID)
			if err != nil {
				return domain.Course{}, err
			}
			return mappers.CourseFromDoc(d), nil
		})
	if len(errs) > 0 {
		return Snapshot{}, fmt.Errorf("snapshot: %d of %d courses failed: %w", len(errs), len(docs), errs[0])
	}

	return Snapshot{TakenAt: time.Now().UTC(), Courses: full}, nil
}

// WriteSnapshot writes the snapshot as indented JSON.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
