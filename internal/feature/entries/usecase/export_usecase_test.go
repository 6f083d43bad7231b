package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

func TestExportUsecase_Export(t *testing.T) {
	t.Parallel()

	lister := &mockLister{entries: []entity.Entry{fullEntry(), fullEntry(), fullEntry()}}
	uc := NewExportUsecase(lister, LocaleEnglish)
	uc.now = func() time.Time { return time.Date(2025, 7, 4, 23, 0, 0, 0, time.UTC) }

	f := validFilter()
	out, err := uc.Export(context.Background(), f)

	require.NoError(t, err)
	assert.Equal(t, f, lister.got, "export runs the same filter")
	assert.Equal(t, "migraine-entries-2025-07-04.csv", out.Filename)
	assert.Equal(t, ExportContentType, out.ContentType)
	assert.Equal(t, 3, out.Rows)
	assert.Len(t, strings.Split(string(out.Content), "\n"), 4, "header plus one row per entry")
}

func TestExportUsecase_ListError(t *testing.T) {
	t.Parallel()

	lister := &mockLister{err: ErrValidation}
	_, err := NewExportUsecase(lister, LocaleEnglish).Export(context.Background(), validFilter())

	assert.True(t, errors.Is(err, ErrValidation))
}

func TestExportUsecase_LocaleOverride(t *testing.T) {
	t.Parallel()

	lister := &mockLister{entries: []entity.Entry{fullEntry()}}
	out, err := NewExportUsecase(lister, LocaleEnglish).ExportWithLocale(context.Background(), validFilter(), LocaleSpanish)

	require.NoError(t, err)
	assert.Contains(t, string(out.Content), "Sí")
}
