package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/roomscout/roomscout-api/internal/models"
	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
)

// Operating day window within which occupancy is inverted into vacancy.
// Fixed by design; not configurable per call.
const (
	dayStartMinutes = 7 * 60  // 07:00
	dayEndMinutes   = 22 * 60 // 22:00
)

// InvertForRoom turns a room's busy intervals for one day into the free
// intervals of at least minFreeMinutes within the operating day window.
//
// The cursor only ever advances, which absorbs overlapping or unsorted
// input without a separate merge pass. Callers depend on this exact
// behavior for tied and overlapping intervals; do not replace it with
// interval merging.
func InvertForRoom(busy []models.Interval, minFreeMinutes int) []models.Interval {
	ordered := make([]models.Interval, len(busy))
	copy(ordered, busy)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := clockMinutes(ordered[i].Start), clockMinutes(ordered[j].Start)
		if si != sj {
			return si < sj
		}
		return clockMinutes(ordered[i].End) < clockMinutes(ordered[j].End)
	})

	free := []models.Interval{}
	cursor := dayStartMinutes

	for _, interval := range ordered {
		start := clockMinutes(interval.Start)
		end := clockMinutes(interval.End)

		if cursor < start && start-cursor >= minFreeMinutes {
			free = append(free, models.Interval{Start: minutesClock(cursor), End: minutesClock(start)})
		}
		if end > cursor {
			cursor = end
		}
	}

	if cursor < dayEndMinutes && dayEndMinutes-cursor >= minFreeMinutes {
		free = append(free, models.Interval{Start: minutesClock(cursor), End: minutesClock(dayEndMinutes)})
	}

	return free
}

// InvertForFloor applies the room inversion independently per room. Only
// rooms present in the input appear in the output: a room with no recorded
// occupancy that day is indistinguishable from a room not on the floor, so
// none are fabricated.
func InvertForFloor(busyByRoom map[string][]models.Interval, minFreeMinutes int) map[string][]models.Interval {
	free := make(map[string][]models.Interval, len(busyByRoom))
	for room, busy := range busyByRoom {
		free[room] = InvertForRoom(busy, minFreeMinutes)
	}
	return free
}

// clockMinutes converts a canonical "HH:MM" string to minutes since
// midnight. Storage is canonical, so a malformed value indicates corrupted
// input; it sorts to the start of day and cannot extend the cursor.
func clockMinutes(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

func minutesClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

type busyIntervalRepository interface {
	BusyByFloor(ctx context.Context, building string, floor int, day string) ([]models.RoomInterval, error)
	BusyByRoom(ctx context.Context, building, room, day string) ([]models.Interval, error)
}

// FloorVacancyQuery selects a whole floor for one weekday.
type FloorVacancyQuery struct {
	Building       string `validate:"required"`
	Floor          int    `validate:"gte=0"`
	Day            string `validate:"required"`
	MinFreeMinutes int    `validate:"gte=0"`
}

// RoomVacancyQuery selects a single room for one weekday.
type RoomVacancyQuery struct {
	Building       string `validate:"required"`
	Room           string `validate:"required"`
	Day            string `validate:"required"`
	MinFreeMinutes int    `validate:"gte=0"`
}

// VacancyService answers free-interval queries from the persisted timetable.
type VacancyService struct {
	repo      busyIntervalRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVacancyService instantiates VacancyService.
func NewVacancyService(repo busyIntervalRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *VacancyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacancyService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// FloorVacancies returns the free intervals per room for a whole floor. An
// empty busy set yields a fully free day for every known room, which for a
// floor with no rows means an empty mapping, not an error.
func (s *VacancyService) FloorVacancies(ctx context.Context, q FloorVacancyQuery) (map[string][]models.Interval, error) {
	if err := s.validateDay(q, q.Day); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("vacancy:floor:%s:%d:%s:%d", q.Building, q.Floor, q.Day, q.MinFreeMinutes)
	var cached map[string][]models.Interval
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	rows, err := s.repo.BusyByFloor(ctx, q.Building, q.Floor, q.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load floor occupancy")
	}

	busyByRoom := make(map[string][]models.Interval, len(rows))
	for _, row := range rows {
		busyByRoom[row.Room] = append(busyByRoom[row.Room], models.Interval{Start: row.Start, End: row.End})
	}

	free := InvertForFloor(busyByRoom, q.MinFreeMinutes)
	_ = s.cache.Set(ctx, key, free, 0)
	return free, nil
}

// RoomVacancies returns the free intervals for one room. A room with no
// recorded occupancy is free for the whole operating day.
func (s *VacancyService) RoomVacancies(ctx context.Context, q RoomVacancyQuery) ([]models.Interval, error) {
	if err := s.validateDay(q, q.Day); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("vacancy:room:%s:%s:%s:%d", q.Building, q.Room, q.Day, q.MinFreeMinutes)
	var cached []models.Interval
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	busy, err := s.repo.BusyByRoom(ctx, q.Building, q.Room, q.Day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room occupancy")
	}

	free := InvertForRoom(busy, q.MinFreeMinutes)
	_ = s.cache.Set(ctx, key, free, 0)
	return free, nil
}

func (s *VacancyService) validateDay(q interface{}, day string) error {
	if err := s.validator.Struct(q); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacancy query")
	}
	if !models.IsWeekday(day) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown weekday %q, use one of %v", day, models.Weekdays))
	}
	return nil
}
