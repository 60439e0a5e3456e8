package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"course-studio/internal/httpx"
	"course-studio/internal/lms"
	"course-studio/internal/session"
)

// fakeAssessmentServer backs the assessment endpoint family for one course.
type fakeAssessmentServer struct {
	mu   sync.Mutex
	docs []lms.AssessmentDoc

	requests int
}

func (f *fakeAssessmentServer) find(id string) int {
	for i, d := range f.docs {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeAssessmentServer) handler(t *testing.T) http.Handler {
	reply := func(w http.ResponseWriter, status int, data any, message string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		payload := map[string]any{"success": status < 300, "message": message}
		if data != nil {
			payload["data"] = data
		}
		json.NewEncoder(w).Encode(payload)
	}

	prefix := "/instructors/courses/c1/assessments"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++

		rest := strings.TrimPrefix(r.URL.Path, prefix)
		rest = strings.TrimPrefix(rest, "/")

		switch {
		case r.Method == http.MethodGet && rest == "":
			reply(w, 200, f.docs, "")

		case r.Method == http.MethodGet && rest == "submitted":
			reply(w, 200, []lms.SubmissionDoc{
				{AssessmentID: "a1", AssessmentTitle: "Quiz", StudentName: "Sam", Score: 8, MaxScore: 10},
			}, "")

		case r.Method == http.MethodGet:
			if i := f.find(rest); i >= 0 {
				reply(w, 200, f.docs[i], "")
				return
			}
			reply(w, 404, nil, "Assessment not found")

		case r.Method == http.MethodPut:
			i := f.find(rest)
			if i < 0 {
				reply(w, 404, nil, "Assessment not found")
				return
			}
			var body map[string]json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode put body: %v", err)
			}
			if raw, ok := body["isPublished"]; ok && len(body) == 1 {
				// single-field publish patch
				json.Unmarshal(raw, &f.docs[i].IsPublished)
			} else {
				if _, ok := body["_id"]; ok {
					t.Error("Expected no _id field in update body")
				}
				var doc lms.AssessmentDoc
				b, _ := json.Marshal(body)
				json.Unmarshal(b, &doc)
				doc.ID = rest
				f.docs[i] = doc
			}
			reply(w, 200, map[string]any{}, "")

		case r.Method == http.MethodDelete:
			if i := f.find(rest); i >= 0 {
				f.docs = append(f.docs[:i], f.docs[i+1:]...)
				reply(w, 200, map[string]any{}, "")
				return
			}
			reply(w, 404, nil, "Assessment not found")

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func newTestManager(t *testing.T, f *fakeAssessmentServer) *Manager {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	sess := session.NewStore(filepath.Join(t.TempDir(), "token.json"))
	if err := sess.Save("test-token"); err != nil {
		t.Fatal(err)
	}
	api := lms.New(srv.URL, sess, zap.NewNop(), 10*time.Second, 0)
	api.Retry = httpx.NoRetry()

	m := NewManager("c1", api, zap.NewNop())
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Expected no error loading, got %v", err)
	}
	return m
}

func seededServer() *fakeAssessmentServer {
	return &fakeAssessmentServer{docs: []lms.AssessmentDoc{
		{
			ID:           "a1",
			Title:        "Go Basics Quiz",
			Type:         "quiz",
			PassingScore: 70,
			TimeLimit:    15,
			Questions: []lms.QuestionDoc{
				{Text: "What does := do?", Type: "multiple_choice", Points: 2, Options: []lms.OptionDoc{
					{Text: "Declares and assigns", IsCorrect: true},
					{Text: "Compares", IsCorrect: false},
				}},
			},
		},
		{ID: "a2", Title: "Final Exam", Type: "exam", IsPublished: true},
	}}
}

func TestLoadAndList(t *testing.T) {
	m := newTestManager(t, seededServer())

	list := m.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 assessments, got %d", len(list))
	}
	if list[0].Title != "Go Basics Quiz" || list[1].Type != "exam" {
		t.Errorf("Expected seeded assessments, got %+v", list)
	}
}

func TestUpdateMirrorsLocally(t *testing.T) {
	f := seededServer()
	m := newTestManager(t, f)

	a, _ := m.Get("a1")
	a.Title = "Go Basics Quiz v2"
	if err := m.Update(context.Background(), a); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	got, _ := m.Get("a1")
	if got.Title != "Go Basics Quiz v2" {
		t.Errorf("Expected local mirror updated, got %q", got.Title)
	}
	if f.docs[0].Title != "Go Basics Quiz v2" {
		t.Errorf("Expected server updated, got %q", f.docs[0].Title)
	}
}

func TestUpdateInvalidNeverReachesNetwork(t *testing.T) {
	f := seededServer()
	m := newTestManager(t, f)
	before := f.requests

	a, _ := m.Get("a1")
	a.Questions[0].Points = 0

	err := m.Update(context.Background(), a)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if f.requests != before {
		t.Errorf("Expected no request for invalid assessment, got %d", f.requests-before)
	}

	got, _ := m.Get("a1")
	if got.Questions[0].Points != 2 {
		t.Errorf("Expected local copy untouched, got %d points", got.Questions[0].Points)
	}
}

func TestDeleteRemovesLocallyAfterServer(t *testing.T) {
	f := seededServer()
	m := newTestManager(t, f)

	if err := m.Delete(context.Background(), "a2"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := m.Get("a2"); ok {
		t.Error("Expected a2 removed locally")
	}
	if len(f.docs) != 1 {
		t.Errorf("Expected 1 assessment on server, got %d", len(f.docs))
	}

	// Deleting again fails server-side and the local list stays put.
	err := m.Delete(context.Background(), "a2")
	var nf *lms.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected *NotFoundError, got %v", err)
	}
	if len(m.List()) != 1 {
		t.Errorf("Expected local list unchanged on failed delete, got %d", len(m.List()))
	}
}

func TestTogglePublishRoundTrips(t *testing.T) {
	f := seededServer()
	m := newTestManager(t, f)

	now, err := m.TogglePublish(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !now {
		t.Error("Expected a1 published after first toggle")
	}
	if !f.docs[0].IsPublished {
		t.Error("Expected server state published")
	}

	now, err = m.TogglePublish(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if now {
		t.Error("Expected a1 unpublished after second toggle")
	}
	got, _ := m.Get("a1")
	if got.IsPublished {
		t.Error("Expected local mirror unpublished")
	}
}

func TestTogglePublishUnknownID(t *testing.T) {
	f := seededServer()
	m := newTestManager(t, f)
	before := f.requests

	_, err := m.TogglePublish(context.Background(), "missing")
	var nf *lms.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Expected *NotFoundError, got %v", err)
	}
	if f.requests != before {
		t.Errorf("Expected no request for unknown id, got %d", f.requests-before)
	}
}

func TestSubmissions(t *testing.T) {
	m := newTestManager(t, seededServer())

	subs, err := m.Submissions(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(subs) != 1 || subs[0].StudentName != "Sam" || subs[0].Score != 8 {
		t.Errorf("Expected Sam's submission, got %+v", subs)
	}
}
