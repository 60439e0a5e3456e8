package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"course-studio/internal/config"
	"course-studio/internal/curriculum"
	"course-studio/internal/lecture"
	"course-studio/internal/lms"
	"course-studio/internal/logging"
	"course-studio/internal/session"
)

type videoList []string

func (v *videoList) String() string { return strings.Join(*v, ",") }
func (v *videoList) Set(path string) error {
	*v = append(*v, path)
	return nil
}

func main() {
	var videos videoList
	var (
		cfgPath      = flag.String("config", "", "config file path")
		courseID     = flag.String("course", "", "course id (required)")
		unitID       = flag.String("unit", "", "section id (required)")
		topicID      = flag.String("topic", "", "lecture id (required)")
		title        = flag.String("title", "", "new lecture title")
		description  = flag.String("description", "", "new lecture description")
		duration     = flag.Int("duration", 0, "duration in seconds (0 = probe from video)")
		downloadable = flag.Bool("downloadable", false, "mark the lecture downloadable")
		thumbnail    = flag.String("thumbnail", "", "thumbnail image path")
	)
	flag.Var(&videos, "video", "video file path (repeatable)")
	flag.Parse()

	if *courseID == "" || *unitID == "" || *topicID == "" {
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

	model := curriculum.NewModel(*courseID, api, logger)
	if err := model.Load(ctx); err != nil {
		log.Fatal(err)
	}

	ed, err := lecture.NewEditor(model, api, logger, *unitID, *topicID)
	if err != nil {
		log.Fatal(err)
	}

	// Only flags the caller actually passed become edits.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			ed.SetTitle(*title)
		case "description":
			ed.SetDescription(*description)
		case "duration":
			ed.SetDuration(*duration)
		case "downloadable":
			ed.SetDownloadable(*downloadable)
		}
	})

	if len(videos) > 0 {
		if err := ed.AttachVideos(videos...); err != nil {
			log.Fatal(err)
		}
	}
	if *thumbnail != "" {
		if err := ed.AttachThumbnail(*thumbnail); err != nil {
			log.Fatal(err)
		}
	}

	if err := ed.Save(ctx); err != nil {
		var partial *lecture.PartialSaveError
		if errors.As(err, &partial) {
			log.Printf("WARN: save incomplete, already persisted: %s",
				strings.Join(partial.Persisted, ", "))
		}
		log.Fatal(err)
	}

	t, ok := model.Course().FindTopic(*unitID, *topicID)
	if !ok {
		log.Fatal("saved lecture not found locally")
	}
	fmt.Printf("saved %s (%s) %ds, %d resource(s)\n", t.Name, t.ID, t.Duration, len(t.Resources))
}
