// Package aggregate turns matched sheet rows into a per-date hour breakdown.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/pvsa/internal/domain/award"
	"github.com/okian/pvsa/internal/domain/classify"
	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/records"
	"github.com/okian/pvsa/pkg/metrics"
)

// UnknownDate labels rows whose date column is blank.
const UnknownDate = "Unknown Date"

const (
	minFields     = model.ColumnDescription + 1
	displayLayout = "Jan 2, 2006"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithClock sets the time source used to pick the program year.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithClassifier sets the classifier used for descriptions.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *Aggregator) {
		if c != nil {
			a.classifier = c
		}
	}
}

// Aggregator groups classified rows by date and category.
type Aggregator struct {
	now        func() time.Time
	classifier *classify.Classifier
}

// New creates an Aggregator using the wall clock and default rules.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now, classifier: classify.New()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type dateBucket struct {
	raw     string
	date    time.Time
	parsed  bool
	order   int
	details []model.HourDetail
	index   map[string]int
}

// Aggregate builds the breakdown for rows. Rows with fewer than eight
// fields and entries worth no hours are skipped.
func (a *Aggregator) Aggregate(rows []model.Row) model.Breakdown {
	now := a.now()
	year := award.ProgramYear(now)

	var out model.Breakdown
	buckets := make(map[string]*dateBucket)
	var ordered []*dateBucket

	for _, row := range rows {
		if len(row.Fields) < minFields {
			continue
		}
		raw := strings.TrimSpace(row.Fields[model.ColumnDate])
		if raw == "" {
			raw = UnknownDate
		}
		res := a.classifier.Classify(strings.TrimSpace(row.Fields[model.ColumnDescription]))
		if res.Hours <= 0 {
			continue
		}

		b, ok := buckets[raw]
		if !ok {
			b = &dateBucket{raw: raw, order: len(ordered), index: make(map[string]int)}
			b.date, b.parsed = ParseActivityDate(raw, now.Location())
			buckets[raw] = b
			ordered = append(ordered, b)
		}
		i, ok := b.index[res.Category]
		if !ok {
			i = len(b.details)
			b.index[res.Category] = i
			b.details = append(b.details, model.HourDetail{Category: res.Category})
		}
		b.details[i].Hours += res.Hours
		b.details[i].Count++
		metrics.RecordClassifiedEntry(res.Category)

		out.TotalHours += res.Hours
		if b.parsed && year.Contains(b.date) {
			out.AnnualHours += res.Hours
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		x, y := ordered[i], ordered[j]
		if x.parsed != y.parsed {
			return x.parsed
		}
		if x.parsed && !x.date.Equal(y.date) {
			return x.date.After(y.date)
		}
		return x.order < y.order
	})

	out.DateGroups = make([]model.DateGroup, 0, len(ordered))
	for _, b := range ordered {
		sort.SliceStable(b.details, func(i, j int) bool {
			return b.details[i].Hours > b.details[j].Hours
		})
		display := b.raw
		if b.parsed {
			display = b.date.Format(displayLayout)
		}
		out.DateGroups = append(out.DateGroups, model.DateGroup{
			RawDate:     b.raw,
			DisplayDate: display,
			HourDetails: b.details,
		})
	}
	return out
}

// ParseActivityDate reads an activity date in MM/DD/YYYY order. Each part is
// read as a leading integer so a trailing time of day is ignored, and
// out-of-range days or months roll over into the following month or year.
func ParseActivityDate(raw string, loc *time.Location) (time.Time, bool) {
	parts := strings.Split(raw, "/")
	if len(parts) < 3 {
		return time.Time{}, false
	}
	month, ok := records.LeadingInt(parts[0])
	if !ok {
		return time.Time{}, false
	}
	day, ok := records.LeadingInt(parts[1])
	if !ok {
		return time.Time{}, false
	}
	year, ok := records.LeadingInt(parts[2])
	if !ok {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
}
