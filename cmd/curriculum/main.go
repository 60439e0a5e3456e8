package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"course-studio/internal/config"
	"course-studio/internal/curriculum"
	"course-studio/internal/devutil"
	"course-studio/internal/export"
	"course-studio/internal/lms"
	"course-studio/internal/logging"
	"course-studio/internal/session"
)

const usage = `usage: curriculum -course ID <command> [args]

commands:
  show                         print the curriculum tree
  add-unit NAME                append a section
  add-topic UNIT_ID NAME       append a lecture to a section
  delete-unit UNIT_ID          remove a section and its lectures
  delete-topic UNIT_ID TOPIC_ID
  set-title TITLE              rename the course
  set-status STATUS            draft | published | archived
  export-yaml PATH             write the curriculum as YAML
  export-csv PATH              write the outline as CSV
  import-yaml PATH             append sections from a YAML file
`

func main() {
	var (
		cfgPath  = flag.String("config", "", "config file path")
		courseID = flag.String("course", "", "course id (required)")
		dump     = flag.String("dump", "", "comma-separated fields to dump as JSON on show")
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

	model := curriculum.NewModel(*courseID, api, logger)
	if err := model.Load(ctx); err != nil {
		log.Fatal(err)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	if err := run(ctx, model, cmd, args, *dump); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, model *curriculum.Model, cmd string, args []string, dump string) error {
	switch cmd {
	case "show":
		printTree(model, dump)
		return nil

	case "add-unit":
		if len(args) != 1 {
			return fmt.Errorf("add-unit wants NAME")
		}
		if err := model.AddUnit(ctx, args[0]); err != nil {
			return err
		}
		printTree(model, "")
		return nil

	case "add-topic":
		if len(args) != 2 {
			return fmt.Errorf("add-topic wants UNIT_ID NAME")
		}
		if err := model.AddTopic(ctx, args[0], args[1]); err != nil {
			return err
		}
		printTree(model, "")
		return nil

	case "delete-unit":
		if len(args) != 1 {
			return fmt.Errorf("delete-unit wants UNIT_ID")
		}
		return model.DeleteUnit(ctx, args[0])

	case "delete-topic":
		if len(args) != 2 {
			return fmt.Errorf("delete-topic wants UNIT_ID TOPIC_ID")
		}
		return model.DeleteTopic(ctx, args[0], args[1])

	case "set-title":
		if len(args) != 1 {
			return fmt.Errorf("set-title wants TITLE")
		}
		return model.UpdateTitle(ctx, args[0])

	case "set-status":
		if len(args) != 1 {
			return fmt.Errorf("set-status wants STATUS")
		}
		return model.UpdateStatus(ctx, args[0])

	case "export-yaml":
		if len(args) != 1 {
			return fmt.Errorf("export-yaml wants PATH")
		}
		return curriculum.WriteYAML(args[0], model.Course())

	case "export-csv":
		if len(args) != 1 {
			return fmt.Errorf("export-csv wants PATH")
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return export.WriteOutlineCSV(f, model.Course())

	case "import-yaml":
		if len(args) != 1 {
			return fmt.Errorf("import-yaml wants PATH")
		}
		units, err := curriculum.ReadYAML(args[0])
		if err != nil {
			return err
		}
		if err := model.AppendUnits(ctx, units); err != nil {
			return err
		}
		printTree(model, "")
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printTree(model *curriculum.Model, dump string) {
	c := model.Course()

	if dump != "" {
		fields := strings.Split(dump, ",")
		fmt.Printf("%v\n", devutil.Pick(c, fields...))
		return
	}

	fmt.Printf("%s [%s] (%s)\n", c.Title, c.Status, c.ID)
	for _, u := range c.Units {
		fmt.Printf("  %s (%s)\n", u.Name, u.ID)
		for _, t := range u.Topics {
			mark := " "
			if len(t.Resources) > 0 {
				mark = "*"
			}
			fmt.Printf("    %s %s (%s) %s %ds\n", mark, t.Name, t.ID, t.Type, t.Duration)
		}
	}
}
