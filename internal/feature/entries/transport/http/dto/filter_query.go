package dto

import (
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// FilterQuery is bound from the query string of the list and export endpoints.
// Instants use RFC 3339.
type FilterQuery struct {
	From            time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	To              time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	MinIntensity    *int      `form:"min_intensity"`
	HasAura         *bool     `form:"has_aura"`
	TriggerContains *string   `form:"trigger_contains"`
	MealGapHours    *float64  `form:"meal_gap_hours"`
	Locale          string    `form:"locale"`
}

// ToFilter scopes the query to owner. An empty trigger_contains is ignored.
func (q FilterQuery) ToFilter(owner string) entity.Filter {
	f := entity.Filter{
		Username:     owner,
		From:         q.From.UTC(),
		To:           q.To.UTC(),
		MinIntensity: q.MinIntensity,
		HasAura:      q.HasAura,
		MealGapHours: q.MealGapHours,
	}
	if q.TriggerContains != nil && *q.TriggerContains != "" {
		f.TriggerContains = q.TriggerContains
	}
	return f
}

// InsightsQuery is bound from the query string of the insights endpoint.
type InsightsQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}
