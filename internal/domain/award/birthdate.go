package award

import (
	"strings"
	"time"

	"github.com/okian/pvsa/internal/domain/records"
)

// ParseBirthdate parses a DD/MM/YYYY birthdate in loc. Note the day-first
// order differs from the MM/DD/YYYY activity dates in the sheet.
//
// It reports false for anything that is not three numeric parts naming a
// real calendar day, so 31/02/2020 is rejected rather than rolled over.
func ParseBirthdate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, ok := records.LeadingInt(parts[0])
	if !ok {
		return time.Time{}, false
	}
	month, ok := records.LeadingInt(parts[1])
	if !ok {
		return time.Time{}, false
	}
	year, ok := records.LeadingInt(parts[2])
	if !ok {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}
