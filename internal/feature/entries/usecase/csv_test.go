package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

const englishHeader = `"ID","Start Date","End Date","Intensity","Nausea","Photophobia","Phonophobia","Aura","Last Meal","Meal Description","Triggers","Medication","Dose","Effectiveness","Sleep Hours","Hydration(ml)","Pain Location","Pain Type","Notes","Created At"`

func fullEntry() entity.Entry {
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return entity.Entry{
		ID:           "e-1",
		Username:     "alice",
		StartedAt:    start,
		EndedAt:      ptr(start.Add(3 * time.Hour)),
		Intensity:    8,
		Symptoms:     entity.Symptoms{Nausea: true, Aura: true},
		LastMealAt:   start.Add(-6 * time.Hour),
		LastMealDesc: ptr("toast"),
		Triggers:     []string{"café", "ruido"},
		Medication: &entity.Medication{
			Taken:         true,
			Name:          ptr("ibuprofeno"),
			Dose:          ptr("400mg"),
			Effectiveness: ptr(0),
		},
		SleepHours:   ptr(6.5),
		HydrationML:  ptr(1500),
		PainLocation: []string{"frontal"},
		PainType:     ptr("pulsátil"),
		Notes:        ptr(`said "ouch"`),
		CreatedAt:    start.Add(4 * time.Hour),
	}
}

func TestEncodeCSV_HeaderOnly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, englishHeader, string(EncodeCSV(nil, LocaleEnglish)))
}

func TestEncodeCSV_FullRow(t *testing.T) {
	t.Parallel()

	got := string(EncodeCSV([]entity.Entry{fullEntry()}, LocaleEnglish))

	want := englishHeader + "\n" +
		`"e-1","2025-03-10T08:00:00.000Z","2025-03-10T11:00:00.000Z","8","Yes","No","No","Yes",` +
		`"2025-03-10T02:00:00.000Z","toast","café; ruido","ibuprofeno","400mg","0","6.5","1500",` +
		`"frontal","pulsátil","said ""ouch""","2025-03-10T12:00:00.000Z"`
	assert.Equal(t, want, got)
}

func TestEncodeCSV_AbsentFieldsAreEmpty(t *testing.T) {
	t.Parallel()

	e := entity.Entry{
		ID:         "e-2",
		StartedAt:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Intensity:  3,
		LastMealAt: time.Date(2025, 2, 28, 20, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2025, 3, 1, 1, 0, 0, 0, time.UTC),
	}

	lines := strings.Split(string(EncodeCSV([]entity.Entry{e}, LocaleEnglish)), "\n")

	assert.Len(t, lines, 2)
	assert.Equal(t,
		`"e-2","2025-03-01T00:00:00.000Z","","3","No","No","No","No","2025-02-28T20:00:00.000Z","","","","","","","","","","","2025-03-01T01:00:00.000Z"`,
		lines[1])
	assert.NotContains(t, lines[1], "null")
}

func TestEncodeCSV_SpanishLocale(t *testing.T) {
	t.Parallel()

	got := string(EncodeCSV([]entity.Entry{fullEntry()}, LocaleSpanish))
	lines := strings.Split(got, "\n")

	assert.True(t, strings.HasPrefix(lines[0], `"ID","Fecha Inicio"`))
	assert.Contains(t, lines[1], `"8","Sí","No","No","Sí"`)
}

func TestEncodeCSV_UnknownLocaleFallsBack(t *testing.T) {
	t.Parallel()

	got := string(EncodeCSV(nil, Locale("fr")))
	assert.Equal(t, englishHeader, got)
}

func TestEncodeCSV_Deterministic(t *testing.T) {
	t.Parallel()

	entries := []entity.Entry{fullEntry(), fullEntry()}
	assert.Equal(t, EncodeCSV(entries, LocaleEnglish), EncodeCSV(entries, LocaleEnglish))
}

func TestParseLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LocaleSpanish, ParseLocale("ES"))
	assert.Equal(t, LocaleEnglish, ParseLocale("en"))
	assert.Equal(t, LocaleEnglish, ParseLocale(""))
}
