package catalog

import (
	"context"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ArticleRepository defines the interface for article persistence
type ArticleRepository interface {
	// FindByID finds an article by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)

	// FindByCode finds an article by its unique code
	FindByCode(ctx context.Context, code string) (*Article, error)

	// ExistsByCode checks if an article code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// FindAll finds articles with filtering (active flag, category, search)
	FindAll(ctx context.Context, filter shared.Filter) ([]Article, error)

	// Count counts articles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an article
	Save(ctx context.Context, article *Article) error
}
