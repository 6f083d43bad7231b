package usecase

import (
	"context"
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

// ExportContentType is the media type of an export.
const ExportContentType = "text/csv; charset=utf-8"

// EntryLister is the read side of the query use case.
type EntryLister interface {
	List(ctx context.Context, f entity.Filter) ([]entity.Entry, error)
}

// Export is a serialized result set ready for download.
type Export struct {
	Filename    string
	ContentType string
	Content     []byte
	Rows        int
}

// exportUsecase serializes the query result set as CSV.
type exportUsecase struct {
	lister EntryLister
	locale Locale
	now    func() time.Time
}

// NewExportUsecase creates a new instance of exportUsecase.
func NewExportUsecase(lister EntryLister, locale Locale) *exportUsecase {
	return &exportUsecase{
		lister: lister,
		locale: locale,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Export runs the filter and serializes the whole result set in one pass.
func (u *exportUsecase) Export(ctx context.Context, f entity.Filter) (*Export, error) {
	return u.ExportWithLocale(ctx, f, u.locale)
}

// ExportWithLocale is Export with a per-call locale override.
func (u *exportUsecase) ExportWithLocale(ctx context.Context, f entity.Filter, locale Locale) (*Export, error) {
	entries, err := u.lister.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    "migraine-entries-" + u.now().Format("2006-01-02") + ".csv",
		ContentType: ExportContentType,
		Content:     EncodeCSV(entries, locale),
		Rows:        len(entries),
	}, nil
}
