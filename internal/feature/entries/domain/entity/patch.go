package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

// Optional distinguishes a field that was not supplied from one explicitly set to null.
// Set is true when the key was present; Value is nil for an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// IsNull reports whether the field was supplied as null.
func (o Optional[T]) IsNull() bool {
	return o.Set && o.Value == nil
}

// UnmarshalJSON is only invoked when the key is present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// EntryPatch is a partial update. Fields left unset keep their stored value.
type EntryPatch struct {
	StartedAt    Optional[time.Time]
	EndedAt      Optional[time.Time]
	Intensity    Optional[int]
	Symptoms     Optional[Symptoms]
	LastMealAt   Optional[time.Time]
	LastMealDesc Optional[string]
	Triggers     Optional[[]string]
	Medication   Optional[Medication]
	SleepHours   Optional[float64]
	HydrationML  Optional[int]
	PainLocation Optional[[]string]
	PainType     Optional[string]
	Notes        Optional[string]
}

// Apply merges the supplied fields of p into e.
// Required fields are only overwritten with non-null values; callers validate beforehand.
func (e *Entry) Apply(p EntryPatch) {
	if p.StartedAt.Value != nil {
		e.StartedAt = NormalizeInstant(*p.StartedAt.Value)
	}
	if p.EndedAt.Set {
		e.EndedAt = NormalizeInstantPtr(p.EndedAt.Value)
	}
	if p.Intensity.Value != nil {
		e.Intensity = *p.Intensity.Value
	}
	if p.Symptoms.Value != nil {
		e.Symptoms = *p.Symptoms.Value
	}
	if p.LastMealAt.Value != nil {
		e.LastMealAt = NormalizeInstant(*p.LastMealAt.Value)
	}
	if p.LastMealDesc.Set {
		e.LastMealDesc = p.LastMealDesc.Value
	}
	if p.Triggers.Set {
		e.Triggers = derefSlice(p.Triggers.Value)
	}
	if p.Medication.Set {
		if p.Medication.Value == nil {
			e.Medication = nil
		} else {
			m := *p.Medication.Value
			m.TakenAt = NormalizeInstantPtr(m.TakenAt)
			e.Medication = &m
		}
	}
	if p.SleepHours.Set {
		e.SleepHours = p.SleepHours.Value
	}
	if p.HydrationML.Set {
		e.HydrationML = p.HydrationML.Value
	}
	if p.PainLocation.Set {
		e.PainLocation = derefSlice(p.PainLocation.Value)
	}
	if p.PainType.Set {
		e.PainType = p.PainType.Value
	}
	if p.Notes.Set {
		e.Notes = p.Notes.Value
	}
}

func derefSlice(s *[]string) []string {
	if s == nil {
		return nil
	}
	return *s
}
