package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomscout/roomscout-api/internal/models"
)

func intervals(pairs ...[2]string) []models.Interval {
	out := make([]models.Interval, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, models.Interval{Start: p[0], End: p[1]})
	}
	return out
}

func TestInvertForRoomEmptyBusySet(t *testing.T) {
	free := InvertForRoom(nil, 0)
	assert.Equal(t, intervals([2]string{"07:00", "22:00"}), free)
}

func TestInvertForRoomFullDayCoverage(t *testing.T) {
	busy := intervals(
		[2]string{"07:00", "12:00"},
		[2]string{"12:00", "18:00"},
		[2]string{"18:00", "22:00"},
	)
	assert.Empty(t, InvertForRoom(busy, 1))
	assert.Empty(t, InvertForRoom(busy, 60))
}

func TestInvertForRoomExampleSchedule(t *testing.T) {
	busy := intervals(
		[2]string{"09:00", "10:00"},
		[2]string{"13:00", "14:30"},
	)

	free := InvertForRoom(busy, 60)
	assert.Equal(t, intervals(
		[2]string{"07:00", "09:00"},
		[2]string{"10:00", "13:00"},
		[2]string{"14:30", "22:00"},
	), free)

	// gaps are 120 and 180 minutes, the tail is 450; only the tail survives
	free = InvertForRoom(busy, 200)
	assert.Equal(t, intervals([2]string{"14:30", "22:00"}), free)
}

func TestInvertForRoomOverlapTolerance(t *testing.T) {
	overlapping := intervals(
		[2]string{"09:00", "11:00"},
		[2]string{"10:00", "12:00"},
	)
	merged := intervals([2]string{"09:00", "12:00"})

	assert.Equal(t, InvertForRoom(merged, 0), InvertForRoom(overlapping, 0))
	assert.Equal(t, InvertForRoom(merged, 90), InvertForRoom(overlapping, 90))
}

func TestInvertForRoomUnsortedInput(t *testing.T) {
	busy := intervals(
		[2]string{"13:00", "14:30"},
		[2]string{"09:00", "10:00"},
	)
	assert.Equal(t, intervals(
		[2]string{"07:00", "09:00"},
		[2]string{"10:00", "13:00"},
		[2]string{"14:30", "22:00"},
	), InvertForRoom(busy, 0))
}

func TestInvertForRoomThresholdMonotonicity(t *testing.T) {
	busy := intervals(
		[2]string{"08:00", "09:30"},
		[2]string{"11:00", "12:15"},
		[2]string{"15:40", "18:00"},
	)

	prev := len(InvertForRoom(busy, 0))
	for threshold := 15; threshold <= 600; threshold += 15 {
		count := len(InvertForRoom(busy, threshold))
		assert.LessOrEqual(t, count, prev, "threshold %d", threshold)
		prev = count
	}
}

func TestInvertForRoomThresholdIsInclusive(t *testing.T) {
	// the morning gap is exactly 60 minutes
	busy := intervals(
		[2]string{"08:00", "21:00"},
	)
	free := InvertForRoom(busy, 60)
	assert.Equal(t, intervals([2]string{"07:00", "08:00"}, [2]string{"21:00", "22:00"}), free)

	assert.Empty(t, InvertForRoom(busy, 61))
}

func TestInvertForFloorOnlyKnownRooms(t *testing.T) {
	busyByRoom := map[string][]models.Interval{
		"150": intervals([2]string{"09:00", "10:00"}),
		"152": intervals([2]string{"07:00", "22:00"}),
	}

	free := InvertForFloor(busyByRoom, 120)
	require.Len(t, free, 2)
	assert.Equal(t, intervals([2]string{"10:00", "22:00"}), free["150"])
	assert.Empty(t, free["152"])
}

type busyRepoStub struct {
	floorRows []models.RoomInterval
	roomRows  []models.Interval
	err       error
}

func (s *busyRepoStub) BusyByFloor(ctx context.Context, building string, floor int, day string) ([]models.RoomInterval, error) {
	return s.floorRows, s.err
}

func (s *busyRepoStub) BusyByRoom(ctx context.Context, building, room, day string) ([]models.Interval, error) {
	return s.roomRows, s.err
}

func TestVacancyServiceFloorVacancies(t *testing.T) {
	repo := &busyRepoStub{floorRows: []models.RoomInterval{
		{Room: "150", Start: "09:00", End: "10:00"},
		{Room: "150", Start: "13:00", End: "14:30"},
		{Room: "152", Start: "07:00", End: "22:00"},
	}}
	svc := NewVacancyService(repo, nil, nil, nil)

	free, err := svc.FloorVacancies(context.Background(), FloorVacancyQuery{
		Building: "Kiely Hall", Floor: 1, Day: "Mo", MinFreeMinutes: 60,
	})
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, intervals(
		[2]string{"07:00", "09:00"},
		[2]string{"10:00", "13:00"},
		[2]string{"14:30", "22:00"},
	), free["150"])
	assert.Empty(t, free["152"])
}

func TestVacancyServiceRoomWithNoRowsIsFreeAllDay(t *testing.T) {
	svc := NewVacancyService(&busyRepoStub{}, nil, nil, nil)

	free, err := svc.RoomVacancies(context.Background(), RoomVacancyQuery{
		Building: "Kiely Hall", Room: "150", Day: "Su",
	})
	require.NoError(t, err)
	assert.Equal(t, intervals([2]string{"07:00", "22:00"}), free)
}

func TestVacancyServiceValidation(t *testing.T) {
	svc := NewVacancyService(&busyRepoStub{}, nil, nil, nil)

	_, err := svc.RoomVacancies(context.Background(), RoomVacancyQuery{
		Building: "", Room: "150", Day: "Mo",
	})
	assert.Error(t, err)

	_, err = svc.RoomVacancies(context.Background(), RoomVacancyQuery{
		Building: "Kiely Hall", Room: "150", Day: "Monday",
	})
	assert.Error(t, err, "full weekday names are not valid day codes")
}

func TestVacancyServiceRepoFailure(t *testing.T) {
	svc := NewVacancyService(&busyRepoStub{err: errors.New("disk gone")}, nil, nil, nil)

	_, err := svc.FloorVacancies(context.Background(), FloorVacancyQuery{
		Building: "Kiely Hall", Floor: 1, Day: "Mo",
	})
	assert.Error(t, err)
}
