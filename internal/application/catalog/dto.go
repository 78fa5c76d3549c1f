package catalog

import (
	"time"

	"github.com/chantier/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateArticleRequest represents a request to create a catalog article
type CreateArticleRequest struct {
	Code      string          `json:"code" binding:"required,min=1,max=50"`
	Label     string          `json:"label" binding:"required,min=1,max=200"`
	Unit      string          `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category" binding:"max=100"`
}

// UpdateArticleRequest represents a request to update an article
type UpdateArticleRequest struct {
	Label     *string          `json:"label" binding:"omitempty,min=1,max=200"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Label     string          `json:"label"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
	Active    bool            `json:"active"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToArticleResponse converts an article aggregate to its API view
func ToArticleResponse(a *catalog.Article) ArticleResponse {
	return ArticleResponse{
		ID:        a.ID,
		Code:      a.Code,
		Label:     a.Label,
		Unit:      a.Unit,
		UnitPrice: a.UnitPrice,
		Category:  a.Category,
		Active:    a.Active,
		DeletedAt: a.DeletedAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
