package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `
<html><body>
<table class="classinfo">
  <tbody>
    <tr>
    <td data-label="Section">01-LEC Regular</td>
    <td data-label="DaysAndTimes">MoWe 10:45AM - 12:00PM</td>
    <td data-label="Room">Kiely Hall 150</td>
    </tr>
  </tbody>
  <tbody>
    <tr>
    <td data-label="Section">02-LEC Winter Session</td>
    <td data-label="DaysAndTimes">TuTh 9:00AM - 10:15AM</td>
    <td data-label="Room">Kiely Hall 150</td>
    </tr>
  </tbody>
</table>
<table class="classinfo">
  <tbody>
    <tr>
    <td data-label="Section">01-LEC Regular</td>
    <td data-label="DaysAndTimes">TuTh 1:40PM - 2:55PM<br>Fr 1:40PM - 2:55PM</td>
    <td data-label="Room">Science Building 340A<br>Online-Synchronous</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestExtractMeetings(t *testing.T) {
	meetings, shapeErrs := ExtractMeetings(resultsPage)
	require.Empty(t, shapeErrs)

	// the Winter section and the online room are dropped
	require.Len(t, meetings, 2)
	assert.Equal(t, Meeting{Room: "Kiely Hall 150", Times: "MoWe 10:45AM - 12:00PM"}, meetings[0])
	assert.Equal(t, Meeting{Room: "Science Building 340A", Times: "TuTh 1:40PM - 2:55PM"}, meetings[1])
}

func TestExtractMeetingsShapeMismatch(t *testing.T) {
	page := `
<table class="classinfo">
  <tbody>
    <tr>
    <td data-label="Section">01-LEC Regular</td>
    <td data-label="DaysAndTimes">MoWe 10:45AM - 12:00PM<br>Fr 10:45AM - 12:00PM</td>
    <td data-label="Room">Kiely Hall 150</td>
    </tr>
  </tbody>
  <tbody>
    <tr>
    <td data-label="Section">02-LEC Regular</td>
    <td data-label="DaysAndTimes">TuTh 9:00AM - 10:15AM</td>
    <td data-label="Room">Remsen Hall 201</td>
    </tr>
  </tbody>
</table>`

	meetings, shapeErrs := ExtractMeetings(page)

	// the broken section fails fast, the healthy one still extracts
	require.Len(t, shapeErrs, 1)
	assert.ErrorContains(t, shapeErrs[0], "2 meeting times vs 1 rooms")
	require.Len(t, meetings, 1)
	assert.Equal(t, "Remsen Hall 201", meetings[0].Room)
}

func TestExtractMeetingsEmptyPage(t *testing.T) {
	meetings, shapeErrs := ExtractMeetings("<html><body><p>No classes found.</p></body></html>")
	assert.Empty(t, meetings)
	assert.Empty(t, shapeErrs)
}
