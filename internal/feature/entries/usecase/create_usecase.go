package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// EventEntryCreated is emitted once per successfully persisted entry.
const EventEntryCreated = "entry_created"

// EventTracker delivers observability events. Implementations are best effort.
type EventTracker interface {
	Track(ctx context.Context, name string, props map[string]any) error
}

// CreateEntryInput is the payload accepted by Create.
// Pointer fields distinguish "not supplied" from zero values.
type CreateEntryInput struct {
	Username     string
	StartedAt    *time.Time
	EndedAt      *time.Time
	Intensity    *int
	Symptoms     *entity.Symptoms
	LastMealAt   *time.Time
	LastMealDesc *string
	Triggers     []string
	Medication   *entity.Medication
	SleepHours   *float64
	HydrationML  *int
	PainLocation []string
	PainType     *string
	Notes        *string
}

// createUsecase validates and persists new entries.
type createUsecase struct {
	entries EntryRepository
	tracker EventTracker
	salt    string
	now     func() time.Time
}

// NewCreateUsecase builds the create use case. tracker may be nil.
// salt keys the username hash carried by telemetry events.
func NewCreateUsecase(entries EntryRepository, tracker EventTracker, salt string) *createUsecase {
	return &createUsecase{
		entries: entries,
		tracker: tracker,
		salt:    salt,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create validates in, fills defaults, persists the entry and emits one telemetry event.
func (u *createUsecase) Create(ctx context.Context, in CreateEntryInput) (string, error) {
	if err := validateCreate(in); err != nil {
		return "", err
	}

	e := u.build(in)
	id, err := u.entries.Create(ctx, e)
	if err != nil {
		return "", err
	}

	u.emitCreated(ctx, &e)
	return id, nil
}

func validateCreate(in CreateEntryInput) error {
	switch {
	case in.Username == "":
		return invalid("owner is required")
	case in.Intensity == nil:
		return invalid("intensity is required")
	case in.Symptoms == nil:
		return invalid("key_symptoms is required")
	case in.LastMealAt == nil || in.LastMealAt.IsZero():
		return invalid("last_meal_at is required")
	}
	if err := validateIntensity(*in.Intensity); err != nil {
		return err
	}
	return validateOptionals(in.SleepHours, in.HydrationML, in.Medication)
}

func (u *createUsecase) build(in CreateEntryInput) entity.Entry {
	started := u.now()
	if in.StartedAt != nil && !in.StartedAt.IsZero() {
		started = *in.StartedAt
	}

	e := entity.Entry{
		Username:     in.Username,
		StartedAt:    started,
		EndedAt:      in.EndedAt,
		Intensity:    *in.Intensity,
		Symptoms:     *in.Symptoms,
		LastMealAt:   *in.LastMealAt,
		LastMealDesc: nonEmpty(in.LastMealDesc),
		Triggers:     in.Triggers,
		SleepHours:   in.SleepHours,
		HydrationML:  in.HydrationML,
		PainLocation: in.PainLocation,
		PainType:     nonEmpty(in.PainType),
		Notes:        nonEmpty(in.Notes),
	}
	if in.Medication != nil {
		m := *in.Medication
		e.Medication = &m
	}
	e.Normalize()
	return e
}

// nonEmpty maps an empty string to null.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func (u *createUsecase) emitCreated(ctx context.Context, e *entity.Entry) {
	if u.tracker == nil {
		return
	}
	props := map[string]any{
		"username_hash":    HashUsername(u.salt, e.Username),
		"intensity":        e.Intensity,
		"has_aura":         e.Symptoms.Aura,
		"triggers_count":   len(e.Triggers),
		"medication_taken": e.MedicationTaken(),
	}
	if err := u.tracker.Track(context.WithoutCancel(ctx), EventEntryCreated, props); err != nil {
		slog.Warn("telemetry event dropped", "event", EventEntryCreated, "error", err)
	}
}

// HashUsername returns a non-reversible identifier for username.
func HashUsername(salt, username string) string {
	sum := sha256.Sum256([]byte(salt + username))
	return hex.EncodeToString(sum[:])[:16]
}
