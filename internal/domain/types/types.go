// Package types contains the JSON shapes served by the HTTP API.
package types

import (
	"time"

	"github.com/okian/pvsa/internal/domain/model"
)

// HourDetail is one category's hours on a date.
type HourDetail struct {
	Type  string  `json:"type"`
	Hours float64 `json:"hours"`
	Count int     `json:"count"`
}

// DateGroup is every category logged on one date.
type DateGroup struct {
	Date        string       `json:"date"`
	RawDate     string       `json:"raw_date"`
	HourDetails []HourDetail `json:"hour_details"`
}

// Eligibility is the award evaluation outcome.
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	AgeGroup string `json:"age_group,omitempty"`
	Award    string `json:"award,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// LookupResponse answers GET /lookup.
type LookupResponse struct {
	Found       bool         `json:"found"`
	MatchCount  int          `json:"match_count"`
	TotalHours  float64      `json:"total_hours"`
	AnnualHours float64      `json:"annual_pvsa_hours"`
	ByDate      []DateGroup  `json:"by_date_and_type"`
	Eligibility *Eligibility `json:"eligibility,omitempty"`
}

// Countdown is the time left until the period's target date.
type Countdown struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	TotalMs int64 `json:"total_ms"`
}

// PeriodResponse answers GET /period.
type PeriodResponse struct {
	Status           string    `json:"status"`
	Message          string    `json:"message"`
	OpenDate         time.Time `json:"open_date"`
	CloseDate        time.Time `json:"close_date"`
	TargetDate       time.Time `json:"target_date"`
	Countdown        Countdown `json:"countdown"`
	ProgramYearStart time.Time `json:"program_year_start"`
	ProgramYearEnd   time.Time `json:"program_year_end"`
	AgeCutoff        time.Time `json:"age_cutoff"`
}

// FromEligibility converts a domain eligibility.
func FromEligibility(e model.Eligibility) Eligibility {
	return Eligibility{
		Eligible: e.Eligible,
		AgeGroup: e.AgeGroup,
		Award:    string(e.Award),
		Reason:   e.Reason,
	}
}

// FromSearchResult converts a lookup result. ByDate is never nil so it
// encodes as an empty array.
func FromSearchResult(r model.SearchResult) LookupResponse {
	out := LookupResponse{
		Found:       r.Found,
		MatchCount:  r.MatchCount,
		TotalHours:  r.Breakdown.TotalHours,
		AnnualHours: r.Breakdown.AnnualHours,
		ByDate:      make([]DateGroup, 0, len(r.Breakdown.DateGroups)),
	}
	for _, g := range r.Breakdown.DateGroups {
		details := make([]HourDetail, 0, len(g.HourDetails))
		for _, d := range g.HourDetails {
			details = append(details, HourDetail{Type: d.Category, Hours: d.Hours, Count: d.Count})
		}
		out.ByDate = append(out.ByDate, DateGroup{Date: g.DisplayDate, RawDate: g.RawDate, HourDetails: details})
	}
	if r.Eligibility != nil {
		e := FromEligibility(*r.Eligibility)
		out.Eligibility = &e
	}
	return out
}

// FromPeriod converts period information.
func FromPeriod(p model.PeriodInfo) PeriodResponse {
	return PeriodResponse{
		Status:     string(p.Period.Status),
		Message:    p.Period.Message,
		OpenDate:   p.Period.OpenDate,
		CloseDate:  p.Period.CloseDate,
		TargetDate: p.Period.TargetDate,
		Countdown: Countdown{
			Days:    p.Remaining.Days,
			Hours:   p.Remaining.Hours,
			Minutes: p.Remaining.Minutes,
			Seconds: p.Remaining.Seconds,
			TotalMs: p.Remaining.TotalMs,
		},
		ProgramYearStart: p.ProgramYear.Start,
		ProgramYearEnd:   p.ProgramYear.End,
		AgeCutoff:        p.Cutoff,
	}
}
