package timefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"1h30m", 90},
		{"1h 30m", 90},
		{"70m", 70},
		{"3h", 180},
		{"2H", 120},
		{"0m", 0},
	}
	for _, tc := range cases {
		got, err := ParseMinutes(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseMinutesRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "xyz", "h30m", "30", "1m2h", "1.5h"} {
		_, err := ParseMinutes(input)
		assert.Error(t, err, input)
	}
}

func TestClock12(t *testing.T) {
	assert.Equal(t, "07:00 AM", Clock12("07:00"))
	assert.Equal(t, "12:00 PM", Clock12("12:00"))
	assert.Equal(t, "12:00 AM", Clock12("00:00"))
	assert.Equal(t, "10:00 PM", Clock12("22:00"))
	assert.Equal(t, "not a time", Clock12("not a time"))
}
