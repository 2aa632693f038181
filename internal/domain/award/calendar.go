// Package award evaluates President's Volunteer Service Award eligibility
// against the fixed annual award calendar.
package award

import (
	"time"

	"github.com/okian/pvsa/internal/domain/model"
)

// Calendar constants. Applications are due on September 15; the program
// year starts on September 1.
const (
	programYearStartMonth = time.September
	applicationMonth      = time.September
	applicationDay        = 15
	cutoffMonthsBefore    = 6
)

// ProgramYear returns the Sep 1 to Aug 31 window containing now. Before
// September the window started the previous year.
func ProgramYear(now time.Time) model.ProgramYear {
	startYear := now.Year()
	if now.Month() < programYearStartMonth {
		startYear--
	}
	loc := now.Location()
	return model.ProgramYear{
		Start: time.Date(startYear, programYearStartMonth, 1, 0, 0, 0, 0, loc),
		End:   time.Date(startYear+1, time.August, 31, 23, 59, 59, int(time.Second-time.Nanosecond), loc),
	}
}

// NextApplicationDate returns September 15 of this year while today is on or
// before it, otherwise September 15 of next year.
func NextApplicationDate(now time.Time) time.Time {
	year := now.Year()
	if now.Month() > applicationMonth || (now.Month() == applicationMonth && now.Day() > applicationDay) {
		year++
	}
	return time.Date(year, applicationMonth, applicationDay, 0, 0, 0, 0, now.Location())
}

// EligibilityCutoff is the date an applicant's age is fixed on: six calendar
// months before the next application date.
func EligibilityCutoff(now time.Time) time.Time {
	return NextApplicationDate(now).AddDate(0, -cutoffMonthsBefore, 0)
}

// AgeOn returns the age in whole years of someone born on birth, as of on.
func AgeOn(birth, on time.Time) int {
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age
}
