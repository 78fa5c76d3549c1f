package persistence

import (
	"context"

	"github.com/chantier/backend/internal/domain/journal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJournalRepository implements EntryRepository using GORM. The journal is
// append-only: entries are only ever inserted, never updated or deleted, so
// Create is used instead of Save.
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

// Append persists a new journal entry
func (r *GormJournalRepository) Append(ctx context.Context, entry *journal.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByEntity lists the entries of one entity, most recent first
func (r *GormJournalRepository) FindByEntity(ctx context.Context, entityType journal.EntityType, entityID uuid.UUID, offset, limit int) ([]journal.Entry, error) {
	var entries []journal.Entry
	query := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByEntity counts the entries of one entity
func (r *GormJournalRepository) CountByEntity(ctx context.Context, entityType journal.EntityType, entityID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&journal.Entry{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormJournalRepository implements EntryRepository
var _ journal.EntryRepository = (*GormJournalRepository)(nil)
