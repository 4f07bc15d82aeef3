package models

import "time"

// Subject is one major as enumerated by the course-search tool: the display
// name shown in the subject dropdown and the internal code posted back in
// the search form. Immutable for the lifetime of a scrape run.
type Subject struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Career is an academic level selectable in the search form.
type Career struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Careers enumerated on every scrape run, in request order.
var Careers = []Career{
	{Name: "Undergraduate", Code: "UGRD"},
	{Name: "Graduate", Code: "GRAD"},
}

// UnitFailure records one subject/career pair that could not be processed.
// Per-unit failures never abort the remaining pairs.
type UnitFailure struct {
	Subject string `json:"subject"`
	Career  string `json:"career"`
	Reason  string `json:"reason"`
}

// ScrapeReport summarises one scrape run.
type ScrapeReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Subjects   int           `json:"subjects"`
	Sessions   int           `json:"sessions"`
	Skipped    int           `json:"skipped"`
	Failures   []UnitFailure `json:"failures,omitempty"`
	Err        string        `json:"error,omitempty"`
}
