// Package period reports the state of the annual PVSA application window.
package period

import (
	"time"

	"github.com/okian/pvsa/internal/domain/model"
)

// Messages shown for each phase.
const (
	MessageBefore = "Applications Open In:"
	MessageDuring = "Application Deadline:"
	MessageAfter  = "Applications are now closed. See you next year!"
)

const (
	windowMonth    = time.September
	windowOpenDay  = 1
	windowCloseDay = 15
)

// Application returns the phase of now's year's window. The window runs from
// Sep 1 00:00 through the end of Sep 15.
func Application(now time.Time) model.ApplicationPeriod {
	loc := now.Location()
	year := now.Year()
	open := time.Date(year, windowMonth, windowOpenDay, 0, 0, 0, 0, loc)
	closeAt := time.Date(year, windowMonth, windowCloseDay, 23, 59, 59, int(time.Second-time.Nanosecond), loc)

	p := model.ApplicationPeriod{OpenDate: open, CloseDate: closeAt}
	switch {
	case now.Before(open):
		p.Status = model.PeriodBefore
		p.TargetDate = open
		p.Message = MessageBefore
	case !now.After(closeAt):
		p.Status = model.PeriodDuring
		p.TargetDate = closeAt
		p.Message = MessageDuring
	default:
		p.Status = model.PeriodAfter
		p.TargetDate = time.Date(year+1, windowMonth, windowOpenDay, 0, 0, 0, 0, loc)
		p.Message = MessageAfter
	}
	return p
}

const (
	msPerSecond = int64(time.Second / time.Millisecond)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Countdown splits the time from now to target into floored units. Each unit
// is taken from the remainder of the next larger one; when target has passed
// the components come out negative.
func Countdown(target, now time.Time) model.TimeRemaining {
	diff := target.Sub(now).Milliseconds()
	return model.TimeRemaining{
		Days:    floorDiv(diff, msPerDay),
		Hours:   floorDiv(diff%msPerDay, msPerHour),
		Minutes: floorDiv(diff%msPerHour, msPerMinute),
		Seconds: floorDiv(diff%msPerMinute, msPerSecond),
		TotalMs: diff,
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
