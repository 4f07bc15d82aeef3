package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
)

// nonCalendarToken marks sections that belong to a compressed special term
// rather than the weekly timetable.
const nonCalendarToken = "Winter"

// Meeting is one raw scraped line item: a room label paired with the
// meeting-time string occupying it. Both are exactly as printed on the
// results page; normalization happens later.
type Meeting struct {
	Room  string
	Times string
}

// ExtractMeetings parses one results page into raw meetings. Each course
// section contributes the positional zip of its meeting-time cells and room
// cells: position i of the times corresponds to position i of the rooms.
// A section whose two lists differ in length violates that page invariant
// and is reported as a shape error and skipped, never silently truncated.
// Placeholder rooms are dropped after zipping.
func ExtractMeetings(pageHTML string) ([]Meeting, []error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, []error{appErrors.Wrap(err, appErrors.ErrPageShape.Code, appErrors.ErrPageShape.Status, "unparseable results page")}
	}

	var meetings []Meeting
	var shapeErrs []error

	doc.Find("table.classinfo tbody").Each(func(_ int, section *goquery.Selection) {
		label := strings.TrimSpace(section.Find("td[data-label=Section]").First().Text())
		if strings.Contains(label, nonCalendarToken) {
			return
		}

		times := cellLines(section.Find("td[data-label=DaysAndTimes]"))
		rooms := cellLines(section.Find("td[data-label=Room]"))

		if len(times) != len(rooms) {
			shapeErrs = append(shapeErrs, appErrors.Wrap(
				fmt.Errorf("section %q: %d meeting times vs %d rooms", label, len(times), len(rooms)),
				appErrors.ErrPageShape.Code, appErrors.ErrPageShape.Status, "mismatched times/rooms lists"))
			return
		}

		for i, room := range rooms {
			if IsPlaceholderRoom(room) {
				continue
			}
			meetings = append(meetings, Meeting{Room: room, Times: times[i]})
		}
	})

	return meetings, shapeErrs
}

// cellLines collects the trimmed, non-empty text fragments of the selected
// cells in document order, one entry per text node. Cells hold one line per
// scheduled meeting.
func cellLines(cells *goquery.Selection) []string {
	var lines []string
	var walk func(s *goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				if text := strings.TrimSpace(child.Text()); text != "" {
					lines = append(lines, text)
				}
				return
			}
			walk(child)
		})
	}
	walk(cells)
	return lines
}
