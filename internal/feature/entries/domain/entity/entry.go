// Package entity defines the domain entities for the entries feature.
package entity

import "time"

// MinIntensity and MaxIntensity bound the pain scale.
const (
	MinIntensity = 1
	MaxIntensity = 10

	// MaxEffectiveness is the upper bound of the medication effectiveness scale (0..10).
	MaxEffectiveness = 10
)

// Symptoms is the fixed-shape record of key symptom flags.
// All four keys are always present.
type Symptoms struct {
	Nausea      bool `json:"nausea"`
	Photophobia bool `json:"photophobia"`
	Phonophobia bool `json:"phonophobia"`
	Aura        bool `json:"aura"`
}

// Medication describes a medication taken during an episode.
type Medication struct {
	Taken         bool       `json:"taken"`
	Name          *string    `json:"name"`
	Dose          *string    `json:"dose"`
	TakenAt       *time.Time `json:"taken_at"`
	Effectiveness *int       `json:"effectiveness"`
}

// Entry is one logged episode.
// Optional fields are pointers (or nil slices) so that "present but null" survives
// storage in both backends.
type Entry struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	StartedAt    time.Time   `json:"started_at"`
	EndedAt      *time.Time  `json:"ended_at"`
	Intensity    int         `json:"intensity"`
	Symptoms     Symptoms    `json:"key_symptoms"`
	LastMealAt   time.Time   `json:"last_meal_at"`
	LastMealDesc *string     `json:"last_meal_desc"`
	Triggers     []string    `json:"triggers_quick"`
	Medication   *Medication `json:"medication_quick"`
	SleepHours   *float64    `json:"sleep_hours"`
	HydrationML  *int        `json:"hydration_ml"`
	PainLocation []string    `json:"pain_location"`
	PainType     *string     `json:"pain_type"`
	Notes        *string     `json:"notes"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at"`
}

// MealGapSeconds returns the elapsed time between the last meal and the onset,
// floored to whole seconds. Negative gaps (meal logged after onset) are kept.
func (e *Entry) MealGapSeconds() int64 {
	d := e.StartedAt.Sub(e.LastMealAt)
	s := int64(d / time.Second)
	if d%time.Second < 0 {
		s--
	}
	return s
}

// MedicationTaken reports whether a medication record exists and is flagged as taken.
func (e *Entry) MedicationTaken() bool {
	return e.Medication != nil && e.Medication.Taken
}

// NormalizeInstant converts t to UTC with millisecond precision,
// the resolution every backend preserves.
func NormalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NormalizeInstantPtr is NormalizeInstant for optional instants.
func NormalizeInstantPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := NormalizeInstant(*t)
	return &n
}

// Normalize rewrites every instant in the entry with NormalizeInstant.
func (e *Entry) Normalize() {
	e.StartedAt = NormalizeInstant(e.StartedAt)
	e.EndedAt = NormalizeInstantPtr(e.EndedAt)
	e.LastMealAt = NormalizeInstant(e.LastMealAt)
	if !e.CreatedAt.IsZero() {
		e.CreatedAt = NormalizeInstant(e.CreatedAt)
	}
	e.UpdatedAt = NormalizeInstantPtr(e.UpdatedAt)
	if e.Medication != nil {
		e.Medication.TakenAt = NormalizeInstantPtr(e.Medication.TakenAt)
	}
}
