package usecase

import (
	"fmt"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateIntensity(v int) error {
	if v < entity.MinIntensity || v > entity.MaxIntensity {
		return invalid("intensity must be between %d and %d", entity.MinIntensity, entity.MaxIntensity)
	}
	return nil
}

func validateOptionals(sleep *float64, hydration *int, med *entity.Medication) error {
	if sleep != nil && *sleep < 0 {
		return invalid("sleep_hours must not be negative")
	}
	if hydration != nil && *hydration < 0 {
		return invalid("hydration_ml must not be negative")
	}
	if med != nil && med.Effectiveness != nil {
		if *med.Effectiveness < 0 || *med.Effectiveness > entity.MaxEffectiveness {
			return invalid("medication effectiveness must be between 0 and %d", entity.MaxEffectiveness)
		}
	}
	return nil
}

func validatePatch(p entity.EntryPatch) error {
	switch {
	case p.StartedAt.IsNull():
		return invalid("started_at cannot be null")
	case p.Intensity.IsNull():
		return invalid("intensity cannot be null")
	case p.Symptoms.IsNull():
		return invalid("key_symptoms cannot be null")
	case p.LastMealAt.IsNull():
		return invalid("last_meal_at cannot be null")
	}
	if p.StartedAt.Value != nil && p.StartedAt.Value.IsZero() {
		return invalid("started_at is required")
	}
	if p.LastMealAt.Value != nil && p.LastMealAt.Value.IsZero() {
		return invalid("last_meal_at is required")
	}
	if p.Intensity.Value != nil {
		if err := validateIntensity(*p.Intensity.Value); err != nil {
			return err
		}
	}
	return validateOptionals(p.SleepHours.Value, p.HydrationML.Value, p.Medication.Value)
}

func validateFilter(f entity.Filter) error {
	if f.Username == "" {
		return invalid("owner is required")
	}
	if f.From.IsZero() || f.To.IsZero() {
		return invalid("from and to are required")
	}
	if f.From.After(f.To) {
		return invalid("from must not be after to")
	}
	if f.MealGapHours != nil && !entity.ValidMealGapHours(*f.MealGapHours) {
		return invalid("meal_gap_hours must be a finite number between 0 and %.0f", entity.MaxMealGapHours)
	}
	return nil
}
