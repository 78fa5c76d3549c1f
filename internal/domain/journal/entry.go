package journal

import (
	"strings"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityType names the kind of aggregate a journal entry traces
type EntityType string

const (
	EntityDevis  EntityType = "DEVIS"
	EntityBudget EntityType = "BUDGET"
)

// IsValid checks if the entity type is valid
func (t EntityType) IsValid() bool {
	return t == EntityDevis || t == EntityBudget
}

// Entry is one immutable line of the audit journal. Entries are only ever
// appended; there is no update or delete path anywhere in the codebase.
type Entry struct {
	shared.BaseEntity
	EntityType EntityType
	EntityID   uuid.UUID
	Action     string
	AuthorID   uuid.UUID
	OldValues  map[string]string `gorm:"serializer:json"`
	NewValues  map[string]string `gorm:"serializer:json"`
	Motive     string
	Metadata   map[string]string `gorm:"serializer:json"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "journal_entries"
}

// NewEntry creates an audit journal entry
func NewEntry(entityType EntityType, entityID uuid.UUID, action string, authorID uuid.UUID, oldValues, newValues map[string]string, motive string, metadata map[string]string) (*Entry, error) {
	if !entityType.IsValid() {
		return nil, shared.NewInvalidValueError("Unknown journal entity type: " + string(entityType))
	}
	if entityID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Journal entry requires an entity")
	}
	if strings.TrimSpace(action) == "" {
		return nil, shared.NewInvalidValueError("Journal entry action cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Journal entry requires an author")
	}

	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     strings.TrimSpace(action),
		AuthorID:   authorID,
		OldValues:  oldValues,
		NewValues:  newValues,
		Motive:     motive,
		Metadata:   metadata,
	}, nil
}
