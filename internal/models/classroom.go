package models

// Weekday codes as they appear in the scraped day tokens and in storage.
// Two-letter codes are chosen by the source site so that no code is a
// substring of another ("Tu" never matches "Th"), which makes substring
// containment a safe decoding strategy.
var Weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// IsWeekday reports whether code is one of the known 2-letter day codes.
func IsWeekday(code string) bool {
	for _, d := range Weekdays {
		if d == code {
			return true
		}
	}
	return false
}

// Classroom identifies a physical room.
type Classroom struct {
	Building string `db:"building" json:"building"`
	Floor    int    `db:"floor" json:"floor"`
	Room     string `db:"room" json:"room"`
}

// ClassSession is the normalized unit of occupancy: one class meeting in one
// room on one weekday, with canonical 24-hour "HH:MM" times. Its natural key
// is the full six-column tuple; re-scraping replaces rather than merges.
type ClassSession struct {
	Building  string `db:"building" json:"building"`
	Floor     int    `db:"floor" json:"floor"`
	Room      string `db:"room" json:"room"`
	Day       string `db:"day" json:"day"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// Interval is a (start, end) pair of canonical "HH:MM" times within one day.
// It represents either recorded occupancy (busy) or derived vacancy (free).
type Interval struct {
	Start string `db:"start_time" json:"start"`
	End   string `db:"end_time" json:"end"`
}

// RoomInterval is a busy interval scoped to a room, as read back for a
// whole-floor query.
type RoomInterval struct {
	Room  string `db:"room" json:"room"`
	Start string `db:"start_time" json:"start"`
	End   string `db:"end_time" json:"end"`
}
