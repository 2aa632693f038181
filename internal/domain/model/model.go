// Package model contains domain models passed between layers.
package model

import "time"

// Column positions in the volunteer log export.
const (
	ColumnDate        = 1 // activity date, MM/DD/YYYY
	ColumnIdentity    = 3 // volunteer name and/or id
	ColumnDescription = 7 // free-text activity description
)

// Row is one non-blank line of the sheet export split on commas.
type Row struct {
	Line   string
	Fields []string
}

// Field returns the i-th field and whether the row has it.
func (r Row) Field(i int) (string, bool) {
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	return r.Fields[i], true
}

// HourDetail is one category's aggregated contribution for one date.
type HourDetail struct {
	Category string
	Hours    float64
	Count    int
}

// DateGroup holds every category logged on one raw date, sorted by hours desc.
type DateGroup struct {
	RawDate     string // as it appears in the sheet
	DisplayDate string // "Jan 2, 2006", or RawDate when unparseable
	HourDetails []HourDetail
}

// Breakdown is the aggregated view of a volunteer's matched rows.
type Breakdown struct {
	DateGroups  []DateGroup
	TotalHours  float64
	AnnualHours float64 // hours inside the current program year
}

// Award is a PVSA award level.
type Award string

// Award levels. AwardNone means no threshold was met.
const (
	AwardNone   Award = ""
	AwardBronze Award = "Bronze"
	AwardSilver Award = "Silver"
	AwardGold   Award = "Gold"
)

// Eligibility is the outcome of an award evaluation.
type Eligibility struct {
	Eligible bool
	AgeGroup string // empty when no tier applies
	Award    Award
	Reason   string
}

// ProgramYear is the Sep 1 to Aug 31 window annual hours are counted in.
type ProgramYear struct {
	Start time.Time
	End   time.Time // last instant of Aug 31
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (p ProgramYear) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// PeriodStatus is the phase of the annual application window.
type PeriodStatus string

// Application window phases.
const (
	PeriodBefore PeriodStatus = "before"
	PeriodDuring PeriodStatus = "during"
	PeriodAfter  PeriodStatus = "after"
)

// ApplicationPeriod describes where "now" sits relative to the window.
type ApplicationPeriod struct {
	Status     PeriodStatus
	OpenDate   time.Time
	CloseDate  time.Time
	TargetDate time.Time
	Message    string
}

// TimeRemaining is a countdown split into whole units.
type TimeRemaining struct {
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
	TotalMs int64
}

// SearchResult is the full answer to one volunteer lookup.
type SearchResult struct {
	Found       bool
	MatchCount  int
	Breakdown   Breakdown
	Eligibility *Eligibility // nil when no birthdate was supplied
}

// Query identifies a volunteer. At least one of Name or ID must be set;
// Birthdate (DD/MM/YYYY) is optional and enables the award evaluation.
type Query struct {
	Name      string
	ID        string
	Birthdate string
}

// PeriodInfo is the application window seen from one instant.
type PeriodInfo struct {
	Period      ApplicationPeriod
	Remaining   TimeRemaining
	ProgramYear ProgramYear
	Cutoff      time.Time // date ages are measured on
}
