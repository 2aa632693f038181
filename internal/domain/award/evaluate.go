package award

import (
	"fmt"
	"strconv"
	"time"

	"github.com/okian/pvsa/internal/domain/model"
)

// Reasons reported for ineligible results.
const (
	ReasonBirthdateRequired = "Valid birthdate is required"
)

// Tier is an age group with its hour thresholds.
type Tier struct {
	MinAge int
	MaxAge int
	Group  string
	Bronze float64
	Silver float64
	Gold   float64
}

// Tiers returns the age groups that can earn an award.
func Tiers() []Tier {
	return []Tier{
		{MinAge: 11, MaxAge: 15, Group: "Teens (11-15)", Bronze: 50, Silver: 75, Gold: 100},
		{MinAge: 16, MaxAge: 25, Group: "Young Adults (16-25)", Bronze: 100, Silver: 175, Gold: 250},
	}
}

// TierForAge returns the tier covering age.
func TierForAge(age int) (Tier, bool) {
	for _, t := range Tiers() {
		if age >= t.MinAge && age <= t.MaxAge {
			return t, true
		}
	}
	return Tier{}, false
}

// Level returns the highest award whose threshold hours meets.
func (t Tier) Level(hours float64) model.Award {
	switch {
	case hours >= t.Gold:
		return model.AwardGold
	case hours >= t.Silver:
		return model.AwardSilver
	case hours >= t.Bronze:
		return model.AwardBronze
	default:
		return model.AwardNone
	}
}

// Evaluate determines eligibility for annual hours. A zero birth means no
// valid birthdate was given. Age is taken on the cutoff date derived from now.
func Evaluate(birth time.Time, hours float64, now time.Time) model.Eligibility {
	if birth.IsZero() {
		return model.Eligibility{Reason: ReasonBirthdateRequired}
	}

	age := AgeOn(birth, EligibilityCutoff(now))
	tier, ok := TierForAge(age)
	if !ok {
		return model.Eligibility{
			Reason: fmt.Sprintf("Age %d is outside the eligible age groups (11-25 years)", age),
		}
	}

	level := tier.Level(hours)
	if level == model.AwardNone {
		return model.Eligibility{
			AgeGroup: tier.Group,
			Reason: fmt.Sprintf("Insufficient volunteer hours (%s). Minimum required: %s",
				formatHours(hours), formatHours(tier.Bronze)),
		}
	}

	return model.Eligibility{Eligible: true, AgeGroup: tier.Group, Award: level}
}

// EvaluateBirthdate parses a DD/MM/YYYY birthdate in now's location and
// evaluates it. Unparseable input is treated as missing.
func EvaluateBirthdate(birthdate string, hours float64, now time.Time) model.Eligibility {
	birth, ok := ParseBirthdate(birthdate, now.Location())
	if !ok {
		birth = time.Time{}
	}
	return Evaluate(birth, hours, now)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
