package dto

import (
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
)

// CreatedResponse is returned by POST /entries.
type CreatedResponse struct {
	ID string `json:"id"`
}

// EntryResponse is the JSON representation of an entry.
type EntryResponse struct {
	ID           string             `json:"id"`
	Username     string             `json:"username"`
	StartedAt    time.Time          `json:"started_at"`
	EndedAt      *time.Time         `json:"ended_at"`
	Intensity    int                `json:"intensity"`
	KeySymptoms  entity.Symptoms    `json:"key_symptoms"`
	LastMealAt   time.Time          `json:"last_meal_at"`
	LastMealDesc *string            `json:"last_meal_desc"`
	Triggers     []string           `json:"triggers_quick"`
	Medication   *entity.Medication `json:"medication_quick"`
	SleepHours   *float64           `json:"sleep_hours"`
	HydrationML  *int               `json:"hydration_ml"`
	PainLocation []string           `json:"pain_location"`
	PainType     *string            `json:"pain_type"`
	Notes        *string            `json:"notes"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at"`
}

// NewEntryResponse maps a domain entry to its JSON form.
func NewEntryResponse(e *entity.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		Username:     e.Username,
		StartedAt:    e.StartedAt,
		EndedAt:      e.EndedAt,
		Intensity:    e.Intensity,
		KeySymptoms:  e.Symptoms,
		LastMealAt:   e.LastMealAt,
		LastMealDesc: e.LastMealDesc,
		Triggers:     e.Triggers,
		Medication:   e.Medication,
		SleepHours:   e.SleepHours,
		HydrationML:  e.HydrationML,
		PainLocation: e.PainLocation,
		PainType:     e.PainType,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// TriggerCountResponse is one entry of the top triggers list.
type TriggerCountResponse struct {
	Trigger string `json:"trigger"`
	Count   int    `json:"count"`
}

// InsightsResponse is returned by GET /entries/insights.
type InsightsResponse struct {
	From             time.Time              `json:"from"`
	To               time.Time              `json:"to"`
	TotalEpisodes    int                    `json:"total_episodes"`
	AvgIntensity     float64                `json:"avg_intensity"`
	AuraRatePercent  int                    `json:"aura_rate_percent"`
	TopTriggers      []TriggerCountResponse `json:"top_triggers"`
	DaysWithEpisodes int                    `json:"days_with_episodes"`
}

// NewInsightsResponse maps use case insights to their JSON form.
func NewInsightsResponse(in *usecase.Insights) InsightsResponse {
	top := make([]TriggerCountResponse, 0, len(in.TopTriggers))
	for _, t := range in.TopTriggers {
		top = append(top, TriggerCountResponse{Trigger: t.Trigger, Count: t.Count})
	}
	return InsightsResponse{
		From:             in.From,
		To:               in.To,
		TotalEpisodes:    in.TotalEpisodes,
		AvgIntensity:     in.AvgIntensity,
		AuraRatePercent:  in.AuraRatePercent,
		TopTriggers:      top,
		DaysWithEpisodes: in.DaysWithEpisodes,
	}
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
