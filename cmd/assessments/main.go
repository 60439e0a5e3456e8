package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"course-studio/internal/assessment"
	"course-studio/internal/config"
	"course-studio/internal/domain"
	"course-studio/internal/export"
	"course-studio/internal/lms"
	"course-studio/internal/logging"
	"course-studio/internal/mappers"
	"course-studio/internal/session"
)

const usage = `usage: assessments -course ID <command> [args]

commands:
  list                     list assessments for the course
  show ASSESSMENT_ID       print one assessment as JSON
  update-from-file PATH    PUT an assessment from a JSON file
  delete ASSESSMENT_ID
  publish ASSESSMENT_ID
  unpublish ASSESSMENT_ID
  submissions              print graded submissions
  gradebook PATH           write submissions to an xlsx workbook
`

func main() {
	var (
		cfgPath  = flag.String("config", "", "config file path")
		courseID = flag.String("course", "", "course id (required)")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *courseID == "" || flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Log)
	defer logger.Sync()

	sess := session.NewStore(cfg.Session.TokenPath)
	api := lms.New(cfg.API.BaseURL, sess, logger, cfg.API.Timeout, cfg.API.RateLimitRPS)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	mgr := assessment.NewManager(*courseID, api, logger)
	if err := mgr.Load(ctx); err != nil {
		log.Fatal(err)
	}

	if err := run(ctx, mgr, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, mgr *assessment.Manager, cmd string, args []string) error {
	switch cmd {
	case "list":
		for _, a := range mgr.List() {
			state := "draft"
			if a.IsPublished {
				state = "published"
			}
			fmt.Printf("%s  %-9s %-10s %3d question(s)  %s\n",
				a.ID, a.Type, state, len(a.Questions), a.Title)
		}
		return nil

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show wants ASSESSMENT_ID")
		}
		a, err := mgr.Fetch(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(mappers.AssessmentToDoc(a))

	case "update-from-file":
		if len(args) != 1 {
			return fmt.Errorf("update-from-file wants PATH")
		}
		a, err := readAssessment(args[0])
		if err != nil {
			return err
		}
		return mgr.Update(ctx, a)

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete wants ASSESSMENT_ID")
		}
		return mgr.Delete(ctx, args[0])

	case "publish", "unpublish":
		if len(args) != 1 {
			return fmt.Errorf("%s wants ASSESSMENT_ID", cmd)
		}
		return setPublished(ctx, mgr, args[0], cmd == "publish")

	case "submissions":
		subs, err := mgr.Submissions(ctx)
		if err != nil {
			return err
		}
		for _, s := range subs {
			fmt.Printf("%-30s %-24s %3d/%3d  %s\n",
				s.AssessmentTitle, s.StudentName, s.Score, s.MaxScore,
				s.SubmittedAt.Format("2006-01-02 15:04"))
		}
		return nil

	case "gradebook":
		if len(args) != 1 {
			return fmt.Errorf("gradebook wants PATH")
		}
		subs, err := mgr.Submissions(ctx)
		if err != nil {
			return err
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteGradebook(f, subs); err != nil {
			return err
		}
		fmt.Printf("wrote %d submission(s) to %s\n", len(subs), args[0])
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// setPublished converges on the requested state; the server side is a
// toggle, so flip only when the local mirror disagrees.
func setPublished(ctx context.Context, mgr *assessment.Manager, id string, want bool) error {
	a, ok := mgr.Get(id)
	if !ok {
		return fmt.Errorf("assessment %s not found", id)
	}
	if a.IsPublished == want {
		fmt.Printf("%s already %s\n", id, stateWord(want))
		return nil
	}
	now, err := mgr.TogglePublish(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", id, stateWord(now))
	return nil
}

func stateWord(published bool) string {
	if published {
		return "published"
	}
	return "unpublished"
}

func readAssessment(path string) (domain.Assessment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Assessment{}, err
	}
	var doc lms.AssessmentDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return domain.Assessment{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return mappers.AssessmentFromDoc(doc), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
