package journal

import (
	"testing"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	entityID := uuid.New()
	authorID := uuid.New()

	t.Run("valid entry", func(t *testing.T) {
		entry, err := NewEntry(EntityDevis, entityID, "changement_statut", authorID,
			map[string]string{"statut": "BROUILLON"},
			map[string]string{"statut": "EN_VALIDATION"},
			"Soumission pour validation",
			map[string]string{"role": "commercial"})
		require.NoError(t, err)

		assert.Equal(t, EntityDevis, entry.EntityType)
		assert.Equal(t, entityID, entry.EntityID)
		assert.Equal(t, "changement_statut", entry.Action)
		assert.Equal(t, authorID, entry.AuthorID)
		assert.Equal(t, "BROUILLON", entry.OldValues["statut"])
		assert.Equal(t, "EN_VALIDATION", entry.NewValues["statut"])
		assert.NotEmpty(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("nil value maps are allowed", func(t *testing.T) {
		entry, err := NewEntry(EntityBudget, entityID, "creation", authorID, nil, nil, "", nil)
		require.NoError(t, err)
		assert.Nil(t, entry.OldValues)
		assert.Nil(t, entry.NewValues)
	})

	tests := []struct {
		name       string
		entityType EntityType
		entityID   uuid.UUID
		action     string
		authorID   uuid.UUID
	}{
		{"unknown entity type", EntityType("CHANTIER"), entityID, "creation", authorID},
		{"missing entity", EntityDevis, uuid.Nil, "creation", authorID},
		{"blank action", EntityDevis, entityID, "   ", authorID},
		{"missing author", EntityDevis, entityID, "creation", uuid.Nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEntry(tt.entityType, tt.entityID, tt.action, tt.authorID, nil, nil, "", nil)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, shared.CodeInvalidValue, domainErr.Code)
		})
	}
}
