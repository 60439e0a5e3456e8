package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"course-studio/internal/config"
	"course-studio/internal/domain"
	"course-studio/internal/lms"
	"course-studio/internal/logging"
	"course-studio/internal/mappers"
	"course-studio/internal/session"
)

const usage = `usage: profile <command> [flags]

commands:
  login     read a bearer token from stdin and store it
  logout    discard the stored token
  show      print the instructor profile
  update    change account details (pass at least one of the update flags)

update flags: -first -last -email -phone -bio -avatar
`

func main() {
	var (
		cfgPath = flag.String("config", "", "config file path")
		first   = flag.String("first", "", "first name")
		last    = flag.String("last", "", "last name")
		email   = flag.String("email", "", "email address")
		phone   = flag.String("phone", "", "phone number")
		bio     = flag.String("bio", "", "bio text")
		avatar  = flag.String("avatar", "", "avatar image path")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
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

	switch flag.Arg(0) {
	case "login":
		fmt.Fprint(os.Stderr, "paste token: ")
		tok, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			log.Fatal(err)
		}
		tok = strings.TrimSpace(tok)
		if tok == "" {
			log.Fatal("empty token")
		}
		if err := sess.Save(tok); err != nil {
			log.Fatal(err)
		}
		fmt.Println("token stored")
		return

	case "logout":
		if err := sess.Clear(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("logged out")
		return
	}

	api := lms.New(cfg.API.BaseURL, sess, logger, cfg.API.Timeout, cfg.API.RateLimitRPS)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()

	switch flag.Arg(0) {
	case "show":
		doc, err := api.GetProfile(ctx)
		if err != nil {
			log.Fatal(err)
		}
		printProfile(mappers.ProfileFromDoc(doc))

	case "update":
		doc, err := api.GetProfile(ctx)
		if err != nil {
			log.Fatal(err)
		}

		// The endpoint replaces all detail fields at once; start from the
		// current record and overlay only the flags the caller passed.
		up := lms.ProfileUpdate{
			FirstName: doc.FirstName,
			LastName:  doc.LastName,
			Email:     doc.Email,
			Phone:     doc.Phone,
			Bio:       doc.Bio,
		}
		changed := false
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "first":
				up.FirstName, changed = *first, true
			case "last":
				up.LastName, changed = *last, true
			case "email":
				up.Email, changed = *email, true
			case "phone":
				up.Phone, changed = *phone, true
			case "bio":
				up.Bio, changed = *bio, true
			case "avatar":
				changed = true
			}
		})
		if !changed {
			log.Fatal("update wants at least one of -first -last -email -phone -bio -avatar")
		}

		if *avatar != "" {
			f, err := os.Open(*avatar)
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			up.Avatar = f
			up.AvatarFileName = filepath.Base(*avatar)
		}

		updated, err := api.UpdateProfile(ctx, up)
		if err != nil {
			log.Fatal(err)
		}
		printProfile(mappers.ProfileFromDoc(updated))

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printProfile(p domain.Profile) {
	fmt.Printf("%s %s <%s>\n", p.FirstName, p.LastName, p.Email)
	if p.Phone != "" {
		fmt.Printf("phone:  %s\n", p.Phone)
	}
	if p.Avatar != "" {
		fmt.Printf("avatar: %s\n", p.Avatar)
	}
	if p.Bio != "" {
		fmt.Printf("bio:    %s\n", p.Bio)
	}
}
