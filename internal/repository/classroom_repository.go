package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/roomscout/roomscout-api/internal/models"
)

// ClassroomRepository persists scraped classroom occupancy.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// InitSchema creates the timetable tables when they do not exist.
func (r *ClassroomRepository) InitSchema(ctx context.Context) error {
	const classrooms = `CREATE TABLE IF NOT EXISTS classrooms (
		building TEXT,
		floor INTEGER,
		room TEXT,
		PRIMARY KEY (building, floor, room)
	)`
	const times = `CREATE TABLE IF NOT EXISTS times (
		building TEXT REFERENCES classrooms(building) ON DELETE CASCADE,
		floor INTEGER REFERENCES classrooms(floor) ON DELETE CASCADE,
		room TEXT REFERENCES classrooms(room) ON DELETE CASCADE,
		day TEXT,
		start_time TEXT,
		end_time TEXT,
		PRIMARY KEY (building, floor, room, day, start_time, end_time)
	)`

	if _, err := r.db.ExecContext(ctx, classrooms); err != nil {
		return fmt.Errorf("create classrooms table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, times); err != nil {
		return fmt.Errorf("create times table: %w", err)
	}
	return nil
}

// UpsertSession stores one normalized class session, replacing any previous
// row with the same natural key. Re-scraping is therefore idempotent.
func (r *ClassroomRepository) UpsertSession(ctx context.Context, s models.ClassSession) error {
	const insertRoom = `INSERT OR REPLACE INTO classrooms (building, floor, room) VALUES (:building, :floor, :room)`
	if _, err := r.db.NamedExecContext(ctx, insertRoom, s); err != nil {
		return fmt.Errorf("upsert classroom %s %s: %w", s.Building, s.Room, err)
	}

	const insertTime = `INSERT OR REPLACE INTO times (building, floor, room, day, start_time, end_time) VALUES (:building, :floor, :room, :day, :start_time, :end_time)`
	if _, err := r.db.NamedExecContext(ctx, insertTime, s); err != nil {
		return fmt.Errorf("upsert session %s %s %s: %w", s.Building, s.Room, s.Day, err)
	}
	return nil
}

// BusyByFloor returns the busy intervals recorded for every room on a floor
// on the given weekday, ordered by room then start time.
func (r *ClassroomRepository) BusyByFloor(ctx context.Context, building string, floor int, day string) ([]models.RoomInterval, error) {
	const query = `SELECT room, start_time, end_time FROM times WHERE building = ? AND floor = ? AND day = ? ORDER BY room, start_time`
	var intervals []models.RoomInterval
	if err := r.db.SelectContext(ctx, &intervals, query, building, floor, day); err != nil {
		return nil, fmt.Errorf("busy intervals for floor %d of %s: %w", floor, building, err)
	}
	return intervals, nil
}

// BusyByRoom returns the busy intervals recorded for one room on the given
// weekday, ordered by start time.
func (r *ClassroomRepository) BusyByRoom(ctx context.Context, building, room, day string) ([]models.Interval, error) {
	const query = `SELECT start_time, end_time FROM times WHERE building = ? AND room = ? AND day = ? ORDER BY start_time`
	var intervals []models.Interval
	if err := r.db.SelectContext(ctx, &intervals, query, building, room, day); err != nil {
		return nil, fmt.Errorf("busy intervals for room %s of %s: %w", room, building, err)
	}
	return intervals, nil
}
