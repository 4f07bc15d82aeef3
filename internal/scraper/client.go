package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/roomscout/roomscout-api/internal/models"
	"github.com/roomscout/roomscout-api/pkg/config"
	appErrors "github.com/roomscout/roomscout-api/pkg/errors"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Target is the immutable description of the remote course-search tool: its
// controller URL and the fixed institution/term selection. Scoped to one
// scrape run; never ambient state.
type Target struct {
	SearchURL       string
	InstitutionName string
	InstitutionCode string
	TermName        string
	TermCode        string
}

// TargetFromConfig builds a Target from the scrape configuration.
func TargetFromConfig(cfg config.ScrapeConfig) Target {
	return Target{
		SearchURL:       cfg.SearchURL,
		InstitutionName: cfg.InstitutionName,
		InstitutionCode: cfg.InstitutionCode,
		TermName:        cfg.TermName,
		TermCode:        cfg.TermCode,
	}
}

// SearchFilter selects one subject/career combination for a results query.
// It is a plain value: the actual form payload is built fresh from it for
// every request, so no mutable request state is ever shared between calls.
type SearchFilter struct {
	Subject models.Subject
	Career  models.Career
}

// institutionValues is the step-1 payload selecting institution and term.
func (t Target) institutionValues() url.Values {
	return url.Values{
		"selectedInstName": {t.InstitutionName},
		"inst_selection":   {t.InstitutionCode},
		"selectedTermName": {t.TermName},
		"term_value":       {t.TermCode},
		"next_btn":         {"Next"},
	}
}

// searchValues is the step-2 payload carrying the subject/career selection
// plus the fixed search criteria the tool expects on every query.
func (t Target) searchValues(filter SearchFilter) url.Values {
	return url.Values{
		"selectedSubjectName":      {filter.Subject.Name},
		"subject_name":             {filter.Subject.Code},
		"selectedCCareerName":      {filter.Career.Name},
		"courseCareer":             {filter.Career.Code},
		"selectedCAttrName":        {""},
		"courseAttr":               {""},
		"selectedCAttrVName":       {""},
		"courseAttValue":           {""},
		"selectedReqDName":         {""},
		"reqDesignation":           {""},
		"selectedSessionName":      {""},
		"class_session":            {""},
		"selectedModeInsName":      {""},
		"meetingStart":             {""},
		"selectedMeetingStartName": {"less than"},
		"AndMeetingStartText":      {""},
		"meetingStartText":         {""},
		"meetingEnd":               {"LE"},
		"selectedMeetingEndName":   {"less than or equal to"},
		"meetingEndText":           {""},
		"AndMeetingEndText":        {""},
		"daysOfWeek":               {"I"},
		"selectedDaysOfWeekName":   {"include only these days"},
		"instructor":               {"B"},
		"selectedInstructorName":   {"begins with"},
		"instructorName":           {""},
		"search_btn_search":        {"Search"},
	}
}

// Client drives the multi-step form workflow against the course-search tool.
// Each workflow gets its own cookie jar: the tool keys the search criteria
// to session cookies issued by the institution-selection step.
type Client struct {
	target  Target
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient constructs a site client for one scrape target.
func NewClient(cfg config.ScrapeConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		target:  TargetFromConfig(cfg),
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}
}

// newSession returns an HTTP client with a fresh cookie jar.
func (c *Client) newSession() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{
		Jar:     jar,
		Timeout: c.timeout,
	}
}

// FetchSubjects posts the institution/term selection and reads the subject
// dropdown off the returned criteria page. A failure here is fatal for a
// scrape run: without the enumeration nothing can be queried.
func (c *Client) FetchSubjects(ctx context.Context) ([]models.Subject, error) {
	session := c.newSession()

	page, err := c.postForm(ctx, session, c.target.institutionValues())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPageShape.Code, appErrors.ErrPageShape.Status, "unparseable criteria page")
	}

	options := doc.Find("select.form-search-display option")
	if options.Length() == 0 {
		return nil, appErrors.Clone(appErrors.ErrPageShape, "criteria page has no subject dropdown")
	}

	var subjects []models.Subject
	options.Each(func(i int, opt *goquery.Selection) {
		if i == 0 {
			// first option is the "select a subject" placeholder
			return
		}
		code, _ := opt.Attr("value")
		subjects = append(subjects, models.Subject{
			Name: strings.TrimSpace(opt.Text()),
			Code: code,
		})
	})

	c.logger.Info("subjects enumerated", zap.Int("count", len(subjects)))
	return subjects, nil
}

// FetchResultsPage runs one subject/career query: it re-posts the
// institution selection to seed the session cookies, then posts the search
// criteria on the same session and returns the results page body.
func (c *Client) FetchResultsPage(ctx context.Context, filter SearchFilter) (string, error) {
	session := c.newSession()

	if _, err := c.postForm(ctx, session, c.target.institutionValues()); err != nil {
		return "", err
	}

	return c.postForm(ctx, session, c.target.searchValues(filter))
}

func (c *Client) postForm(ctx context.Context, session *http.Client, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target.SearchURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "building search request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := session.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", appErrors.Wrap(
			fmt.Errorf("unexpected status %s", resp.Status),
			appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "search request failed")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrFetchFailed.Code, appErrors.ErrFetchFailed.Status, "reading search response")
	}
	return string(body), nil
}
