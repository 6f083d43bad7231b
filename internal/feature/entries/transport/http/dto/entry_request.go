// Package dto defines data transfer objects for the entries feature's HTTP transport layer.
package dto

import (
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
)

// CreateEntryRequest is the body of POST /entries.
// Required fields are validated by the use case so that every violation maps to the same error.
type CreateEntryRequest struct {
	StartedAt    *time.Time         `json:"started_at"`
	EndedAt      *time.Time         `json:"ended_at"`
	Intensity    *int               `json:"intensity"`
	KeySymptoms  *entity.Symptoms   `json:"key_symptoms"`
	LastMealAt   *time.Time         `json:"last_meal_at"`
	LastMealDesc *string            `json:"last_meal_desc"`
	Triggers     []string           `json:"triggers_quick"`
	Medication   *entity.Medication `json:"medication_quick"`
	SleepHours   *float64           `json:"sleep_hours"`
	HydrationML  *int               `json:"hydration_ml"`
	PainLocation []string           `json:"pain_location"`
	PainType     *string            `json:"pain_type"`
	Notes        *string            `json:"notes"`
}

// ToInput binds the request to the authenticated owner.
func (r CreateEntryRequest) ToInput(owner string) usecase.CreateEntryInput {
	return usecase.CreateEntryInput{
		Username:     owner,
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		Intensity:    r.Intensity,
		Symptoms:     r.KeySymptoms,
		LastMealAt:   r.LastMealAt,
		LastMealDesc: r.LastMealDesc,
		Triggers:     r.Triggers,
		Medication:   r.Medication,
		SleepHours:   r.SleepHours,
		HydrationML:  r.HydrationML,
		PainLocation: r.PainLocation,
		PainType:     r.PainType,
		Notes:        r.Notes,
	}
}

// UpdateEntryRequest is the body of PATCH /entries/:id.
// Only keys present in the body are applied; explicit nulls clear nullable fields.
type UpdateEntryRequest struct {
	StartedAt    entity.Optional[time.Time]         `json:"started_at"`
	EndedAt      entity.Optional[time.Time]         `json:"ended_at"`
	Intensity    entity.Optional[int]               `json:"intensity"`
	KeySymptoms  entity.Optional[entity.Symptoms]   `json:"key_symptoms"`
	LastMealAt   entity.Optional[time.Time]         `json:"last_meal_at"`
	LastMealDesc entity.Optional[string]            `json:"last_meal_desc"`
	Triggers     entity.Optional[[]string]          `json:"triggers_quick"`
	Medication   entity.Optional[entity.Medication] `json:"medication_quick"`
	SleepHours   entity.Optional[float64]           `json:"sleep_hours"`
	HydrationML  entity.Optional[int]               `json:"hydration_ml"`
	PainLocation entity.Optional[[]string]          `json:"pain_location"`
	PainType     entity.Optional[string]            `json:"pain_type"`
	Notes        entity.Optional[string]            `json:"notes"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateEntryRequest) ToPatch() entity.EntryPatch {
	return entity.EntryPatch{
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
		Intensity:    r.Intensity,
		Symptoms:     r.KeySymptoms,
		LastMealAt:   r.LastMealAt,
		LastMealDesc: r.LastMealDesc,
		Triggers:     r.Triggers,
		Medication:   r.Medication,
		SleepHours:   r.SleepHours,
		HydrationML:  r.HydrationML,
		PainLocation: r.PainLocation,
		PainType:     r.PainType,
		Notes:        r.Notes,
	}
}
