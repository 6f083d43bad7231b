package entity

import (
	"math"
	"strings"
	"time"
)

// Filter selects the entries of one owner whose onset lies in [From, To].
// Nil optional predicates are not applied; all supplied predicates must hold.
type Filter struct {
	Username        string
	From            time.Time
	To              time.Time
	MinIntensity    *int
	HasAura         *bool
	TriggerContains *string
	MealGapHours    *float64
}

// MaxMealGapHours is the largest meal gap whose threshold fits in int64 seconds.
const MaxMealGapHours = float64(math.MaxInt64) / 3600

// ValidMealGapHours reports whether h is a finite, non-negative gap within MaxMealGapHours.
func ValidMealGapHours(h float64) bool {
	return !math.IsNaN(h) && h >= 0 && h*3600 < float64(math.MaxInt64)
}

// MealGapThresholdSeconds converts MealGapHours into the smallest whole number of
// seconds that satisfies it. ok is false when the predicate is not set.
// Gaps beyond MaxMealGapHours and NaN saturate to math.MaxInt64, which no entry reaches.
func (f Filter) MealGapThresholdSeconds() (seconds int64, ok bool) {
	if f.MealGapHours == nil {
		return 0, false
	}
	h := *f.MealGapHours
	if math.IsNaN(h) || h*3600 >= float64(math.MaxInt64) {
		return math.MaxInt64, true
	}
	return int64(math.Ceil(h * 3600)), true
}

// Matches evaluates every predicate of the filter against e.
// The document backend relies on it; the relational backend expresses the same rules in SQL.
func (f Filter) Matches(e *Entry) bool {
	if e.Username != f.Username {
		return false
	}
	if e.StartedAt.Before(f.From) || e.StartedAt.After(f.To) {
		return false
	}
	if f.MinIntensity != nil && e.Intensity < *f.MinIntensity {
		return false
	}
	if f.HasAura != nil && e.Symptoms.Aura != *f.HasAura {
		return false
	}
	if f.TriggerContains != nil && !anyContainsFold(e.Triggers, *f.TriggerContains) {
		return false
	}
	if threshold, ok := f.MealGapThresholdSeconds(); ok && e.MealGapSeconds() < threshold {
		return false
	}
	return true
}

func anyContainsFold(tags []string, needle string) bool {
	n := strings.ToLower(needle)
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), n) {
			return true
		}
	}
	return false
}

// Less orders entries by StartedAt descending, then by ID ascending.
func Less(a, b *Entry) bool {
	if !a.StartedAt.Equal(b.StartedAt) {
		return a.StartedAt.After(b.StartedAt)
	}
	return a.ID < b.ID
}
