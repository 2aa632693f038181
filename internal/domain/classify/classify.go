// Package classify maps free-text activity descriptions to hour categories.
package classify

import (
	"strings"

	"github.com/okian/pvsa/internal/domain/records"
)

// Category names.
const (
	CategoryReferral  = "Volunteer Referral"
	CategoryEvent     = "Volunteer Event"
	CategoryMeeting   = "Meeting Attendance"
	CategoryInstagram = "Instagram Repost"
	CategoryOther     = "Other"
)

// Rule credits fixed hours to Category when the lower-cased description
// contains any of Keywords.
type Rule struct {
	Keywords []string
	Category string
	Hours    float64
}

func (r Rule) matches(desc string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// DefaultRules returns the standard rules in priority order. The first
// matching rule wins, so "referral event" is a referral.
func DefaultRules() []Rule {
	return []Rule{
		{Keywords: []string{"referral"}, Category: CategoryReferral, Hours: 0.5},
		{Keywords: []string{"event"}, Category: CategoryEvent, Hours: 2},
		{Keywords: []string{"meeting"}, Category: CategoryMeeting, Hours: 1},
		{Keywords: []string{"instagram", "repost"}, Category: CategoryInstagram, Hours: 0.5},
	}
}

// Result is a classified description.
type Result struct {
	Category string
	Hours    float64
}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithRules replaces the rule list. An empty list is ignored.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		if len(rules) > 0 {
			c.rules = append([]Rule(nil), rules...)
		}
	}
}

// WithCategoryHours overrides the fixed hours of existing categories.
// Unknown categories and negative values are ignored.
func WithCategoryHours(hours map[string]float64) Option {
	return func(c *Classifier) {
		for i := range c.rules {
			if h, ok := hours[c.rules[i].Category]; ok && h >= 0 {
				c.rules[i].Hours = h
			}
		}
	}
}

// Classifier applies an ordered rule list, falling back to CategoryOther
// with hours read from a "(N hours)" note.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier with the default rules and the given options.
func New(opts ...Option) *Classifier {
	c := &Classifier{rules: DefaultRules()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rules returns a copy of the active rules.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the category and hours for description.
func (c *Classifier) Classify(description string) Result {
	desc := strings.ToLower(description)
	for _, r := range c.rules {
		if r.matches(desc) {
			return Result{Category: r.Category, Hours: r.Hours}
		}
	}
	hours, _ := ExtractHours(desc)
	return Result{Category: CategoryOther, Hours: float64(hours)}
}

var defaultClassifier = New() //nolint:gochecknoglobals // immutable default

// Classify uses the default rules.
func Classify(description string) Result {
	return defaultClassifier.Classify(description)
}

// ExtractHours reads N from text like "Tutoring (3 hours)": the integer
// prefix between the first "(" and the first " hour" after it. The second
// return is false when either marker is missing or no integer is present.
func ExtractHours(text string) (int, bool) {
	open := strings.Index(text, "(")
	if open < 0 {
		return 0, false
	}
	rest := text[open+1:]
	end := strings.Index(rest, " hour")
	if end < 0 {
		return 0, false
	}
	return records.LeadingInt(rest[:end])
}
