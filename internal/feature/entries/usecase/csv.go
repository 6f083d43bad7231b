package usecase

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// Locale selects the header row and yes/no tokens of the export.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleSpanish Locale = "es"
)

// csvTimeLayout renders instants as UTC ISO-8601 with milliseconds.
const csvTimeLayout = "2006-01-02T15:04:05.000Z"

var csvHeaders = map[Locale][]string{
	LocaleEnglish: {
		"ID", "Start Date", "End Date", "Intensity", "Nausea", "Photophobia",
		"Phonophobia", "Aura", "Last Meal", "Meal Description", "Triggers",
		"Medication", "Dose", "Effectiveness", "Sleep Hours", "Hydration(ml)",
		"Pain Location", "Pain Type", "Notes", "Created At",
	},
	LocaleSpanish: {
		"ID", "Fecha Inicio", "Fecha Fin", "Intensidad", "Náusea", "Fotofobia",
		"Fonofobia", "Aura", "Última Comida", "Descripción Comida", "Triggers",
		"Medicamento", "Dosis", "Efectividad", "Horas Sueño", "Hidratación (ml)",
		"Ubicación Dolor", "Tipo Dolor", "Notas", "Fecha Creación",
	},
}

var yesTokens = map[Locale]string{LocaleEnglish: "Yes", LocaleSpanish: "Sí"}

// ParseLocale maps a configuration value to a Locale, defaulting to English.
func ParseLocale(s string) Locale {
	if Locale(strings.ToLower(s)) == LocaleSpanish {
		return LocaleSpanish
	}
	return LocaleEnglish
}

// EncodeCSV renders entries in the fixed column order.
// Every field is quoted, embedded quotes are doubled, rows are joined by "\n"
// and there is no trailing newline.
func EncodeCSV(entries []entity.Entry, locale Locale) []byte {
	headers, ok := csvHeaders[locale]
	if !ok {
		locale = LocaleEnglish
		headers = csvHeaders[locale]
	}

	var buf bytes.Buffer
	writeRow(&buf, headers)
	for i := range entries {
		buf.WriteByte('\n')
		writeRow(&buf, csvRecord(&entries[i], locale))
	}
	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}

func csvRecord(e *entity.Entry, locale Locale) []string {
	var medName, dose, effectiveness string
	if m := e.Medication; m != nil {
		medName = str(m.Name)
		dose = str(m.Dose)
		if m.Effectiveness != nil {
			effectiveness = strconv.Itoa(*m.Effectiveness)
		}
	}
	var sleep, hydration string
	if e.SleepHours != nil {
		sleep = strconv.FormatFloat(*e.SleepHours, 'f', -1, 64)
	}
	if e.HydrationML != nil {
		hydration = strconv.Itoa(*e.HydrationML)
	}

	return []string{
		e.ID,
		formatInstant(e.StartedAt),
		formatInstantPtr(e.EndedAt),
		strconv.Itoa(e.Intensity),
		yesNo(e.Symptoms.Nausea, locale),
		yesNo(e.Symptoms.Photophobia, locale),
		yesNo(e.Symptoms.Phonophobia, locale),
		yesNo(e.Symptoms.Aura, locale),
		formatInstant(e.LastMealAt),
		str(e.LastMealDesc),
		strings.Join(e.Triggers, "; "),
		medName,
		dose,
		effectiveness,
		sleep,
		hydration,
		strings.Join(e.PainLocation, "; "),
		str(e.PainType),
		str(e.Notes),
		formatInstant(e.CreatedAt),
	}
}

func yesNo(v bool, locale Locale) string {
	if v {
		return yesTokens[locale]
	}
	return "No"
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(csvTimeLayout)
}

func formatInstantPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatInstant(*t)
}
