package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"course-studio/internal/concurrency"
	"course-studio/internal/config"
	"course-studio/internal/export"
	"course-studio/internal/lms"
	"course-studio/internal/logging"
	"course-studio/internal/session"
	"course-studio/internal/sftpclient"
)

func main() {
	var (
		cfgPath    = flag.String("config", "", "config file path")
		outPath    = flag.String("out", "", "output path (default snapshot-YYYYMMDD-HHMMSS.json)")
		workers    = flag.Int("workers", 0, "parallel course fetches (0 = default)")
		uploadSFTP = flag.Bool("sftp", false, "upload the snapshot via SFTP")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Log)
	defer logger.Sync()

	sess := session.NewStore(cfg.Session.TokenPath)
	api := lms.New(cfg.API.BaseURL, sess, logger, cfg.API.Timeout, cfg.API.RateLimitRPS)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	opts := concurrency.DefaultOptions()
	if *workers > 0 {
		opts.MaxWorkers = *workers
	}

	snap, err := export.TakeSnapshot(ctx, api, opts)
	if err != nil {
		log.Fatal(err)
	}

	path := *outPath
	if path == "" {
		path = "snapshot-" + snap.TakenAt.Format("20060102-150405") + ".json"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := export.WriteSnapshot(&buf, snap); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %d course(s) to %s\n", len(snap.Courses), path)

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:      cfg.SFTP.Host,
			Port:      cfg.SFTP.Port,
			User:      cfg.SFTP.User,
			Pass:      cfg.SFTP.Pass,
			RemoteDir: cfg.SFTP.RemoteDir,
		}
		if err := sftpclient.Upload(ctx, upCfg, bytes.NewReader(buf.Bytes()), filepath.Base(path)); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("uploaded %s to %s:%s\n", filepath.Base(path), upCfg.Host, upCfg.RemoteDir)
	}
}
