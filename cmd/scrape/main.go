// Command scrape runs one full scrape of the course-search tool and exits.
// It shares the server's configuration and storage; use it to seed or
// refresh the timetable database without the API running.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/roomscout/roomscout-api/internal/repository"
	"github.com/roomscout/roomscout-api/internal/scraper"
	"github.com/roomscout/roomscout-api/internal/service"
	"github.com/roomscout/roomscout-api/pkg/config"
	"github.com/roomscout/roomscout-api/pkg/database"
	"github.com/roomscout/roomscout-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	classroomRepo := repository.NewClassroomRepository(db)
	if err := classroomRepo.InitSchema(ctx); err != nil {
		logr.Sugar().Fatalw("failed to init schema", "error", err)
	}

	siteClient := scraper.NewClient(cfg.Scrape, logr)
	scrapeSvc := service.NewScrapeService(siteClient, classroomRepo, nil, nil, cfg.Scrape, logr)

	report, err := scrapeSvc.Run(ctx)
	if err != nil {
		logr.Sugar().Errorw("scrape failed", "error", err)
		os.Exit(1)
	}

	logr.Sugar().Infow("scrape finished",
		"run_id", report.RunID,
		"subjects", report.Subjects,
		"sessions", report.Sessions,
		"skipped", report.Skipped,
		"unit_failures", len(report.Failures),
	)
}
