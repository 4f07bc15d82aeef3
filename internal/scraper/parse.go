package scraper

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/roomscout/roomscout-api/internal/models"
	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
)

// placeholderRooms are labels that carry no physical-occupancy meaning and
// are dropped during extraction.
var placeholderRooms = map[string]struct{}{
	"Online-Asynchronous": {},
	"Online-Synchronous":  {},
	"TBA":                 {},
	"Off-Campus":          {},
	"Soccer Field":        {},
}

// IsPlaceholderRoom reports whether a room label denotes a non-physical
// location such as an online or unassigned section.
func IsPlaceholderRoom(label string) bool {
	_, ok := placeholderRooms[label]
	return ok
}

// ParseRoom splits a room label such as "Kiely Hall 150" into building, room
// number and floor. The building is every token except the last; the floor
// digit is the first character of the room token, or the second when the
// first is alphabetic ("B12" is floor 1).
//
// This heuristic is bespoke to the source institution's room-naming
// convention: it assumes at most a single leading letter before the floor
// digit. Multi-letter prefixes are not handled.
func ParseRoom(label string) (building, room string, floor int, err error) {
	tokens := strings.Fields(label)
	if len(tokens) < 2 {
		return "", "", 0, appErrors.Wrap(
			fmt.Errorf("room label %q has no building part", label),
			appErrors.ErrBadFormat.Code, appErrors.ErrBadFormat.Status, "unparseable room label")
	}

	room = tokens[len(tokens)-1]
	building = strings.Join(tokens[:len(tokens)-1], " ")

	floorPos := 0
	if unicode.IsLetter(rune(room[0])) {
		floorPos = 1
	}
	if floorPos >= len(room) || !unicode.IsDigit(rune(room[floorPos])) {
		return "", "", 0, appErrors.Wrap(
			fmt.Errorf("room token %q has no floor digit", room),
			appErrors.ErrBadFormat.Code, appErrors.ErrBadFormat.Status, "unparseable room label")
	}

	floor, _ = strconv.Atoi(string(room[floorPos]))
	return building, room, floor, nil
}

// ConvertTo24Hour converts a 12-hour clock string such as "10:45AM" (no
// leading zero required) into the canonical 24-hour "HH:MM" form.
func ConvertTo24Hour(clock string) (string, error) {
	t, err := time.Parse("3:04PM", clock)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrBadFormat.Code, appErrors.ErrBadFormat.Status, "unparseable meeting time")
	}
	return t.Format("15:04"), nil
}

// DecodeDays expands a compact day token such as "MoWe" into the individual
// weekday codes it contains, by substring containment. The code set is
// collision-free (no code is a substring of another), so containment cannot
// misfire.
func DecodeDays(token string) []string {
	var days []string
	for _, day := range models.Weekdays {
		if strings.Contains(token, day) {
			days = append(days, day)
		}
	}
	return days
}

// ParseMeetingTimes splits a raw meeting-time string such as
// "MoWe 10:45AM - 12:00PM" into its day token and canonical start/end times.
func ParseMeetingTimes(raw string) (dayToken, start, end string, err error) {
	fields := strings.Fields(raw)
	if len(fields) < 4 {
		return "", "", "", appErrors.Wrap(
			fmt.Errorf("meeting time %q has too few fields", raw),
			appErrors.ErrBadFormat.Code, appErrors.ErrBadFormat.Status, "unparseable meeting time")
	}

	start, err = ConvertTo24Hour(fields[len(fields)-3])
	if err != nil {
		return "", "", "", err
	}
	end, err = ConvertTo24Hour(fields[len(fields)-1])
	if err != nil {
		return "", "", "", err
	}

	return fields[0], start, end, nil
}
