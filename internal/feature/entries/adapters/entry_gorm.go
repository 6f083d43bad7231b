// Package adapters provides repository implementations for the entries feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
)

// entryGorm is the relational implementation of EntryRepository.
// Filtering and ordering run in the database.
type entryGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure entryGorm implements EntryRepository.
var _ usecase.EntryRepository = (*entryGorm)(nil)

// NewEntryGorm creates a new instance of entryGorm.
func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Models returns the tables this repository needs, for AutoMigrate.
func Models() []any {
	return []any{&EntryModel{}, &EntryTriggerModel{}}
}

// Create inserts the entry and its trigger index rows in one transaction.
func (r *entryGorm) Create(ctx context.Context, e entity.Entry) (string, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = r.now()
	e.UpdatedAt = nil
	e.Normalize()

	model, err := toModel(&e)
	if err != nil {
		return "", storageErr(err)
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return insertTriggers(tx, &e)
	})
	if err != nil {
		return "", storageErr(err)
	}
	return e.ID, nil
}

// ListByRange applies every predicate in SQL.
func (r *entryGorm) ListByRange(ctx context.Context, f entity.Filter) ([]entity.Entry, error) {
	q := r.db.WithContext(ctx).
		Where("username = ? AND started_at >= ? AND started_at <= ?", f.Username, f.From.UTC(), f.To.UTC())
	if f.MinIntensity != nil {
		q = q.Where("intensity >= ?", *f.MinIntensity)
	}
	if f.HasAura != nil {
		q = q.Where("aura = ?", *f.HasAura)
	}
	if f.TriggerContains != nil {
		pattern := "%" + escapeLike(strings.ToLower(*f.TriggerContains)) + "%"
		q = q.Where(
			`EXISTS (SELECT 1 FROM entry_triggers t WHERE t.entry_id = entries.id AND t.tag_lower LIKE ? ESCAPE '\')`,
			pattern,
		)
	}
	if threshold, ok := f.MealGapThresholdSeconds(); ok {
		q = q.Where("meal_gap_seconds >= ?", threshold)
	}

	var rows []EntryModel
	if err := q.Order("started_at DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storageErr(err)
	}

	out := make([]entity.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].ToEntity()
		if err != nil {
			return nil, storageErr(err)
		}
		out = append(out, *e)
	}
	return out, nil
}

// GetByID retrieves an entry scoped to its owner.
func (r *entryGorm) GetByID(ctx context.Context, id, owner string) (*entity.Entry, error) {
	m, err := findOwned(r.db.WithContext(ctx), id, owner)
	if err != nil {
		return nil, err
	}
	e, err := m.ToEntity()
	if err != nil {
		return nil, storageErr(err)
	}
	return e, nil
}

// Update merges patch over the stored row and rewrites the trigger index.
func (r *entryGorm) Update(ctx context.Context, id, owner string, patch entity.EntryPatch) (*entity.Entry, error) {
	var updated *entity.Entry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := findOwned(tx, id, owner)
		if err != nil {
			return err
		}
		e, err := m.ToEntity()
		if err != nil {
			return err
		}
		e.Apply(patch)
		now := r.now()
		e.UpdatedAt = &now
		e.Normalize()

		next, err := toModel(e)
		if err != nil {
			return err
		}
		if err := tx.Select("*").Where("id = ? AND username = ?", id, owner).Updates(next).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", id).Delete(&EntryTriggerModel{}).Error; err != nil {
			return err
		}
		if err := insertTriggers(tx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEntryNotFound) {
			return nil, err
		}
		return nil, storageErr(err)
	}
	return updated, nil
}

// Delete removes the entry and its trigger index rows.
func (r *entryGorm) Delete(ctx context.Context, id, owner string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND username = ?", id, owner).Delete(&EntryModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrEntryNotFound
		}
		return tx.Where("entry_id = ?", id).Delete(&EntryTriggerModel{}).Error
	})
	if err != nil {
		if errors.Is(err, usecase.ErrEntryNotFound) {
			return err
		}
		return storageErr(err)
	}
	return nil
}

func findOwned(db *gorm.DB, id, owner string) (*EntryModel, error) {
	var m EntryModel
	if err := db.Where("id = ? AND username = ?", id, owner).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, storageErr(err)
	}
	return &m, nil
}

func insertTriggers(tx *gorm.DB, e *entity.Entry) error {
	rows := triggerRows(e)
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

// escapeLike escapes LIKE wildcards so the needle matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func storageErr(err error) error {
	if errors.Is(err, usecase.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", usecase.ErrStorage, err)
}
