package adapters

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// EntryModel is the GORM model for the entries table.
type EntryModel struct {
	ID             string     `gorm:"primaryKey;size:36"`
	Username       string     `gorm:"size:255;not null;index:idx_entries_owner_started,priority:1"`
	StartedAt      time.Time  `gorm:"not null;index:idx_entries_owner_started,priority:2"`
	EndedAt        *time.Time
	Intensity      int        `gorm:"not null"`
	Nausea         bool       `gorm:"not null;default:false"`
	Photophobia    bool       `gorm:"not null;default:false"`
	Phonophobia    bool       `gorm:"not null;default:false"`
	Aura           bool       `gorm:"not null;default:false"`
	LastMealAt     time.Time  `gorm:"not null"`
	MealGapSeconds int64      `gorm:"not null"` // derived from StartedAt - LastMealAt
	LastMealDesc   *string    `gorm:"type:text"`
	Triggers       datatypes.JSON
	Medication     datatypes.JSON
	SleepHours     *float64
	HydrationML    *int       `gorm:"column:hydration_ml"`
	PainLocation   datatypes.JSON
	PainType       *string    `gorm:"size:64"`
	Notes          *string    `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      *time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for GORM.
func (EntryModel) TableName() string {
	return "entries"
}

// EntryTriggerModel indexes lower-cased trigger tags for substring search.
type EntryTriggerModel struct {
	ID       uint   `gorm:"primaryKey"`
	EntryID  string `gorm:"size:36;not null;index"`
	TagLower string `gorm:"size:255;not null;index"`
}

// TableName returns the table name for GORM.
func (EntryTriggerModel) TableName() string {
	return "entry_triggers"
}

func toModel(e *entity.Entry) (*EntryModel, error) {
	triggers, err := encodeJSON(e.Triggers)
	if err != nil {
		return nil, err
	}
	medication, err := encodeJSON(e.Medication)
	if err != nil {
		return nil, err
	}
	painLocation, err := encodeJSON(e.PainLocation)
	if err != nil {
		return nil, err
	}
	return &EntryModel{
		ID:             e.ID,
		Username:       e.Username,
		StartedAt:      e.StartedAt,
		EndedAt:        e.EndedAt,
		Intensity:      e.Intensity,
		Nausea:         e.Symptoms.Nausea,
		Photophobia:    e.Symptoms.Photophobia,
		Phonophobia:    e.Symptoms.Phonophobia,
		Aura:           e.Symptoms.Aura,
		LastMealAt:     e.LastMealAt,
		MealGapSeconds: e.MealGapSeconds(),
		LastMealDesc:   e.LastMealDesc,
		Triggers:       triggers,
		Medication:     medication,
		SleepHours:     e.SleepHours,
		HydrationML:    e.HydrationML,
		PainLocation:   painLocation,
		PainType:       e.PainType,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}, nil
}

// ToEntity converts the GORM model to a domain entity.
func (m *EntryModel) ToEntity() (*entity.Entry, error) {
	e := &entity.Entry{
		ID:        m.ID,
		Username:  m.Username,
		StartedAt: m.StartedAt,
		EndedAt:   m.EndedAt,
		Intensity: m.Intensity,
		Symptoms: entity.Symptoms{
			Nausea:      m.Nausea,
			Photophobia: m.Photophobia,
			Phonophobia: m.Phonophobia,
			Aura:        m.Aura,
		},
		LastMealAt:   m.LastMealAt,
		LastMealDesc: m.LastMealDesc,
		SleepHours:   m.SleepHours,
		HydrationML:  m.HydrationML,
		PainType:     m.PainType,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if err := decodeJSON(m.Triggers, &e.Triggers); err != nil {
		return nil, err
	}
	if err := decodeJSON(m.Medication, &e.Medication); err != nil {
		return nil, err
	}
	if err := decodeJSON(m.PainLocation, &e.PainLocation); err != nil {
		return nil, err
	}
	e.Normalize()
	return e, nil
}

func triggerRows(e *entity.Entry) []EntryTriggerModel {
	rows := make([]EntryTriggerModel, 0, len(e.Triggers))
	for _, t := range e.Triggers {
		rows = append(rows, EntryTriggerModel{EntryID: e.ID, TagLower: strings.ToLower(t)})
	}
	return rows
}

// encodeJSON stores nil values as SQL NULL.
func encodeJSON[T any](v T) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return datatypes.JSON(b), nil
}

func decodeJSON(j datatypes.JSON, out any) error {
	if len(j) == 0 || string(j) == "null" {
		return nil
	}
	return json.Unmarshal(j, out)
}
