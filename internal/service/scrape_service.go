package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roomscout/roomscout-api/internal/models"
	"github.com/roomscout/roomscout-api/internal/scraper"
	"github.com/roomscout/roomscout-api/pkg/config"
	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
)

type siteClient interface {
	FetchSubjects(ctx context.Context) ([]models.Subject, error)
	FetchResultsPage(ctx context.Context, filter scraper.SearchFilter) (string, error)
}

type sessionStore interface {
	UpsertSession(ctx context.Context, s models.ClassSession) error
}

// ScrapeService walks every subject/career combination of the course-search
// tool, one request in flight at a time, and persists the normalized class
// sessions. A failure in one combination never aborts the rest; only a
// failed subject enumeration is fatal.
type ScrapeService struct {
	client  siteClient
	store   sessionStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger

	delayMin time.Duration
	delayMax time.Duration

	mu      sync.Mutex
	running bool
	last    *models.ScrapeReport
}

// NewScrapeService instantiates ScrapeService.
func NewScrapeService(client siteClient, store sessionStore, cache *CacheService, metrics *MetricsService, cfg config.ScrapeConfig, logger *zap.Logger) *ScrapeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScrapeService{
		client:   client,
		store:    store,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		delayMin: cfg.DelayMin,
		delayMax: cfg.DelayMax,
	}
}

// Running reports whether a scrape run is currently in flight.
func (s *ScrapeService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastReport returns the report of the most recently finished run, or nil.
func (s *ScrapeService) LastReport() *models.ScrapeReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Run executes one full scrape. The remote system is rate-sensitive:
// requests stay strictly sequential and a randomized politeness delay
// separates consecutive subject/career queries. Cancellation is honored
// between combinations, not mid-request.
func (s *ScrapeService) Run(ctx context.Context) (*models.ScrapeReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, appErrors.ErrScrapeBusy
	}
	s.running = true
	s.mu.Unlock()

	report := &models.ScrapeReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	defer func() {
		report.FinishedAt = time.Now().UTC()
		s.mu.Lock()
		s.running = false
		s.last = report
		s.mu.Unlock()
	}()

	subjects, err := s.client.FetchSubjects(ctx)
	if err != nil {
		report.Err = err.Error()
		s.metrics.ObserveScrapeRun("failed", time.Since(report.StartedAt), 0, 0, 0)
		return report, appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "subject enumeration failed")
	}
	report.Subjects = len(subjects)

	s.logger.Info("scrape run started",
		zap.String("run_id", report.RunID),
		zap.Int("subjects", len(subjects)))

	for _, subject := range subjects {
		for _, career := range models.Careers {
			if err := ctx.Err(); err != nil {
				report.Err = err.Error()
				s.metrics.ObserveScrapeRun("canceled", time.Since(report.StartedAt), report.Sessions, report.Skipped, len(report.Failures))
				return report, err
			}

			s.processUnit(ctx, scraper.SearchFilter{Subject: subject, Career: career}, report)

			if err := s.politenessDelay(ctx); err != nil {
				report.Err = err.Error()
				s.metrics.ObserveScrapeRun("canceled", time.Since(report.StartedAt), report.Sessions, report.Skipped, len(report.Failures))
				return report, err
			}
		}
	}

	if err := s.cache.InvalidateVacancies(ctx); err != nil {
		s.logger.Warn("vacancy cache invalidation failed", zap.Error(err))
	}

	s.metrics.ObserveScrapeRun("ok", time.Since(report.StartedAt), report.Sessions, report.Skipped, len(report.Failures))
	s.logger.Info("scrape run finished",
		zap.String("run_id", report.RunID),
		zap.Int("sessions", report.Sessions),
		zap.Int("skipped", report.Skipped),
		zap.Int("failures", len(report.Failures)))

	return report, nil
}

// processUnit handles one subject/career combination end to end. Every
// failure inside it is recoverable at this granularity.
func (s *ScrapeService) processUnit(ctx context.Context, filter scraper.SearchFilter, report *models.ScrapeReport) {
	page, err := s.client.FetchResultsPage(ctx, filter)
	if err != nil {
		s.logger.Warn("results fetch failed",
			zap.String("subject", filter.Subject.Code),
			zap.String("career", filter.Career.Code),
			zap.Error(err))
		report.Failures = append(report.Failures, models.UnitFailure{
			Subject: filter.Subject.Code,
			Career:  filter.Career.Code,
			Reason:  err.Error(),
		})
		return
	}

	meetings, shapeErrs := scraper.ExtractMeetings(page)
	for _, shapeErr := range shapeErrs {
		report.Skipped++
		s.logger.Warn("section skipped",
			zap.String("subject", filter.Subject.Code),
			zap.Error(shapeErr))
	}

	for _, meeting := range meetings {
		sessions, err := normalizeMeeting(meeting)
		if err != nil {
			report.Skipped++
			s.logger.Debug("record dropped",
				zap.String("room", meeting.Room),
				zap.String("times", meeting.Times),
				zap.Error(err))
			continue
		}
		for _, session := range sessions {
			if err := s.store.UpsertSession(ctx, session); err != nil {
				report.Skipped++
				s.logger.Warn("session upsert failed",
					zap.String("building", session.Building),
					zap.String("room", session.Room),
					zap.Error(err))
				continue
			}
			report.Sessions++
		}
	}
}

// normalizeMeeting converts one raw scraped pair into zero or more class
// sessions, one per weekday in the compact day token.
func normalizeMeeting(meeting scraper.Meeting) ([]models.ClassSession, error) {
	building, room, floor, err := scraper.ParseRoom(meeting.Room)
	if err != nil {
		return nil, err
	}

	dayToken, start, end, err := scraper.ParseMeetingTimes(meeting.Times)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, appErrors.Clone(appErrors.ErrBadFormat, "meeting does not fit within a single day")
	}

	var sessions []models.ClassSession
	for _, day := range scraper.DecodeDays(dayToken) {
		sessions = append(sessions, models.ClassSession{
			Building:  building,
			Floor:     floor,
			Room:      room,
			Day:       day,
			StartTime: start,
			EndTime:   end,
		})
	}
	return sessions, nil
}

// politenessDelay sleeps a uniformly random duration within the configured
// bounds, honoring cancellation. Bounding the request rate is a hard
// constraint of the scrape target, not an optimization.
func (s *ScrapeService) politenessDelay(ctx context.Context) error {
	delay := s.delayMin
	if spread := s.delayMax - s.delayMin; spread > 0 {
		delay += time.Duration(rand.Int63n(int64(spread)))
	}
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
