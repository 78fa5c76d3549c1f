package journal

import (
	"context"

	"github.com/google/uuid"
)

// EntryRepository defines the interface for journal persistence. The journal
// is append-only, so the port deliberately exposes no update or delete.
type EntryRepository interface {
	// Append persists a new journal entry
	Append(ctx context.Context, entry *Entry) error

	// FindByEntity lists the entries of one entity, most recent first
	FindByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, offset, limit int) ([]Entry, error)

	// CountByEntity counts the entries of one entity
	CountByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID) (int64, error)
}
