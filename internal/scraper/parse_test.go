package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoom(t *testing.T) {
	building, room, floor, err := ParseRoom("Kiely Hall 150")
	require.NoError(t, err)
	assert.Equal(t, "Kiely Hall", building)
	assert.Equal(t, "150", room)
	assert.Equal(t, 1, floor)

	building, room, floor, err = ParseRoom("G Building B12")
	require.NoError(t, err)
	assert.Equal(t, "G Building", building)
	assert.Equal(t, "B12", room)
	assert.Equal(t, 1, floor)

	building, room, floor, err = ParseRoom("Science Building 340A")
	require.NoError(t, err)
	assert.Equal(t, "Science Building", building)
	assert.Equal(t, "340A", room)
	assert.Equal(t, 3, floor)
}

func TestParseRoomErrors(t *testing.T) {
	_, _, _, err := ParseRoom("150")
	assert.Error(t, err, "single token has no building")

	_, _, _, err = ParseRoom("Kiely Hall Annex")
	assert.Error(t, err, "room token without a digit")

	_, _, _, err = ParseRoom("Kiely Hall B")
	assert.Error(t, err, "letter-only room token")
}

func TestConvertTo24Hour(t *testing.T) {
	cases := map[string]string{
		"10:45AM": "10:45",
		"12:00PM": "12:00",
		"12:00AM": "00:00",
		"1:05PM":  "13:05",
		"9:00AM":  "09:00",
	}
	for input, want := range cases {
		got, err := ConvertTo24Hour(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestConvertTo24HourRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "25:00PM", "10:45", "noon"} {
		_, err := ConvertTo24Hour(input)
		assert.Error(t, err, input)
	}
}

func TestDecodeDays(t *testing.T) {
	assert.Equal(t, []string{"Mo", "We"}, DecodeDays("MoWe"))
	assert.Equal(t, []string{"Tu", "Th"}, DecodeDays("TuTh"))
	assert.Equal(t, []string{"Fr"}, DecodeDays("Fr"))
	assert.Empty(t, DecodeDays("TBA"))

	// Tu must not fire on a Thursday-only token
	assert.Equal(t, []string{"Th"}, DecodeDays("Th"))
}

func TestParseMeetingTimes(t *testing.T) {
	days, start, end, err := ParseMeetingTimes("MoWe 10:45AM - 12:00PM")
	require.NoError(t, err)
	assert.Equal(t, "MoWe", days)
	assert.Equal(t, "10:45", start)
	assert.Equal(t, "12:00", end)

	_, _, _, err = ParseMeetingTimes("TBA")
	assert.Error(t, err)

	_, _, _, err = ParseMeetingTimes("MoWe sometime - later")
	assert.Error(t, err)
}

func TestIsPlaceholderRoom(t *testing.T) {
	assert.True(t, IsPlaceholderRoom("Online-Asynchronous"))
	assert.True(t, IsPlaceholderRoom("TBA"))
	assert.False(t, IsPlaceholderRoom("Kiely Hall 150"))
}
