package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/roomscout/roomscout-api/internal/handler"
	"github.com/roomscout/roomscout-api/internal/middleware"
	"github.com/roomscout/roomscout-api/internal/repository"
	"github.com/roomscout/roomscout-api/internal/scraper"
	"github.com/roomscout/roomscout-api/internal/service"
	"github.com/roomscout/roomscout-api/pkg/cache"
	"github.com/roomscout/roomscout-api/pkg/config"
	"github.com/roomscout/roomscout-api/pkg/database"
	"github.com/roomscout/roomscout-api/pkg/jobs"
	"github.com/roomscout/roomscout-api/pkg/logger"
	corsmiddleware "github.com/roomscout/roomscout-api/pkg/middleware/cors"
	reqidmiddleware "github.com/roomscout/roomscout-api/pkg/middleware/requestid"
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer db.Close()

	classroomRepo := repository.NewClassroomRepository(db)
	if err := classroomRepo.InitSchema(context.Background()); err != nil {
		logr.Sugar().Fatalw("failed to init schema", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	// The vacancy cache is an optimisation; the service runs without it.
	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Vacancy.CacheTTL, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	validate := validator.New()
	vacancySvc := service.NewVacancyService(classroomRepo, cacheSvc, validate, logr)

	siteClient := scraper.NewClient(cfg.Scrape, logr)
	scrapeSvc := service.NewScrapeService(siteClient, classroomRepo, cacheSvc, metricsSvc, cfg.Scrape, logr)

	queue := jobs.NewQueue("scrape", func(ctx context.Context, job jobs.Job) error {
		_, err := scrapeSvc.Run(ctx)
		return err
	}, jobs.QueueConfig{Workers: 1, BufferSize: 1, Logger: logr})
	queue.Start(context.Background())
	defer queue.Stop()

	vacancyHandler := handler.NewVacancyHandler(vacancySvc, cfg.Vacancy.DefaultMinFreeMins)
	scrapeHandler := handler.NewScrapeHandler(scrapeSvc, queue)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/vacancies/floor", vacancyHandler.Floor)
		api.GET("/vacancies/room", vacancyHandler.Room)

		admin := api.Group("", middleware.AdminJWT(cfg.Auth.JWTSecret))
		{
			admin.POST("/scrape", scrapeHandler.Trigger)
			admin.GET("/scrape/status", scrapeHandler.Status)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
