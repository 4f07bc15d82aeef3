// Package timefmt holds the small time-text conversions shared by the API
// surface: the user-facing duration shorthand ("1h30m", "70m", "3h") and the
// 12-hour rendering of the canonical 24-hour "HH:MM" strings used everywhere
// in storage.
package timefmt

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
)

var durationPattern = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)

// ParseMinutes converts a duration shorthand such as "1h30m", "1h 30m",
// "70m" or "3h" into total minutes. At least one of the hour and minute
// components must be present; anything else is a user input error.
func ParseMinutes(raw string) (int, error) {
	normalized := strings.ToLower(strings.ReplaceAll(raw, " ", ""))

	match := durationPattern.FindStringSubmatch(normalized)
	if match == nil || (match[1] == "" && match[2] == "") {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid duration, use formats like '1h30m', '70m' or '3h'")
	}

	hours := 0
	if match[1] != "" {
		hours, _ = strconv.Atoi(match[1])
	}
	minutes := 0
	if match[2] != "" {
		minutes, _ = strconv.Atoi(match[2])
	}

	return hours*60 + minutes, nil
}

// Clock12 renders a canonical 24-hour "HH:MM" string in 12-hour
// "hh:mm AM/PM" form. Input that is not canonical is returned unchanged;
// rendering is presentation only and must not fail a response.
func Clock12(hhmm string) string {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("03:04 PM")
}
