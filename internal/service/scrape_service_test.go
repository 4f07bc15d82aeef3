package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomscout/roomscout-api/internal/models"
	"github.com/roomscout/roomscout-api/internal/scraper"
	"github.com/roomscout/roomscout-api/pkg/config"
)

const sampleResultsPage = `
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
    <td data-label="Section">02-LEC Regular</td>
    <td data-label="DaysAndTimes">Fr 9:00AM - 10:15AM</td>
    <td data-label="Room">Razran Hall 340</td>
    </tr>
  </tbody>
</table>`

type clientStub struct {
	subjects    []models.Subject
	subjectsErr error
	pages       map[string]string
	pageErr     map[string]error
	fetches     []scraper.SearchFilter
}

func (c *clientStub) FetchSubjects(ctx context.Context) ([]models.Subject, error) {
	return c.subjects, c.subjectsErr
}

func (c *clientStub) FetchResultsPage(ctx context.Context, filter scraper.SearchFilter) (string, error) {
	c.fetches = append(c.fetches, filter)
	if err := c.pageErr[filter.Subject.Code]; err != nil {
		return "", err
	}
	return c.pages[filter.Subject.Code], nil
}

type storeStub struct {
	sessions []models.ClassSession
	err      error
}

func (s *storeStub) UpsertSession(ctx context.Context, session models.ClassSession) error {
	if s.err != nil {
		return s.err
	}
	s.sessions = append(s.sessions, session)
	return nil
}

func newTestScrapeService(client siteClient, store sessionStore) *ScrapeService {
	// zero delay bounds keep tests fast without touching the loop structure
	return NewScrapeService(client, store, nil, nil, config.ScrapeConfig{}, nil)
}

func TestScrapeServiceRun(t *testing.T) {
	client := &clientStub{
		subjects: []models.Subject{{Name: "Computer Science", Code: "CSCI"}},
		pages:    map[string]string{"CSCI": sampleResultsPage},
	}
	store := &storeStub{}
	svc := newTestScrapeService(client, store)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	// one subject is queried once per career
	require.Len(t, client.fetches, 2)
	assert.Equal(t, "UGRD", client.fetches[0].Career.Code)
	assert.Equal(t, "GRAD", client.fetches[1].Career.Code)

	// MoWe splits into two sessions, Fr into one, for each of two careers
	require.Len(t, store.sessions, 6)
	assert.Contains(t, store.sessions, models.ClassSession{
		Building: "Kiely Hall", Floor: 1, Room: "150",
		Day: "Mo", StartTime: "10:45", EndTime: "12:00",
	})
	assert.Contains(t, store.sessions, models.ClassSession{
		Building: "Razran Hall", Floor: 3, Room: "340",
		Day: "Fr", StartTime: "09:00", EndTime: "10:15",
	})

	assert.Equal(t, 6, report.Sessions)
	assert.Equal(t, 1, report.Subjects)
	assert.Empty(t, report.Failures)
	assert.Equal(t, report, svc.LastReport())
}

func TestScrapeServiceSubjectEnumerationIsFatal(t *testing.T) {
	client := &clientStub{subjectsErr: errors.New("gateway timeout")}
	svc := newTestScrapeService(client, &storeStub{})

	report, err := svc.Run(context.Background())
	assert.Error(t, err)
	assert.NotEmpty(t, report.Err)
	assert.Empty(t, client.fetches)
}

func TestScrapeServiceUnitFailureDoesNotAbortRun(t *testing.T) {
	client := &clientStub{
		subjects: []models.Subject{
			{Name: "Computer Science", Code: "CSCI"},
			{Name: "Mathematics", Code: "MATH"},
		},
		pages:   map[string]string{"MATH": sampleResultsPage},
		pageErr: map[string]error{"CSCI": errors.New("connection reset")},
	}
	store := &storeStub{}
	svc := newTestScrapeService(client, store)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	// both careers of the broken subject are recorded, the rest proceeds
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "CSCI", report.Failures[0].Subject)
	assert.Equal(t, 6, report.Sessions)
	assert.Len(t, client.fetches, 4)
}

func TestScrapeServiceRecordsFormatProblems(t *testing.T) {
	page := `
<table class="classinfo">
  <tbody>
    <tr>
    <td data-label="Section">01-LEC Regular</td>
    <td data-label="DaysAndTimes">TBA</td>
    <td data-label="Room">Kiely Hall 150</td>
    </tr>
  </tbody>
</table>`
	client := &clientStub{
		subjects: []models.Subject{{Name: "Computer Science", Code: "CSCI"}},
		pages:    map[string]string{"CSCI": page},
	}
	store := &storeStub{}
	svc := newTestScrapeService(client, store)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sessions)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, store.sessions)
}

func TestScrapeServiceCancellationBetweenUnits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &clientStub{
		subjects: []models.Subject{{Name: "Computer Science", Code: "CSCI"}},
		pages:    map[string]string{"CSCI": sampleResultsPage},
	}
	svc := newTestScrapeService(client, &storeStub{})

	report, err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.fetches)
	assert.NotEmpty(t, report.Err)
}

func TestScrapeServiceRejectsConcurrentRuns(t *testing.T) {
	svc := newTestScrapeService(&clientStub{}, &storeStub{})
	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	_, err := svc.Run(context.Background())
	assert.Error(t, err)
}

func TestNormalizeMeetingRejectsInvertedTimes(t *testing.T) {
	_, err := normalizeMeeting(scraper.Meeting{
		Room:  "Kiely Hall 150",
		Times: "Mo 10:00PM - 1:00AM",
	})
	assert.Error(t, err)
}
