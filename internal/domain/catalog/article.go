package catalog

import (
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Article is a price-catalog entry used as a template for quote lines.
// Articles are never hard-deleted: historical quotes keep referencing them,
// so removal is a soft delete that records who removed the entry and when.
type Article struct {
	shared.BaseAggregateRoot
	Code      string
	Label     string
	Unit      string
	UnitPrice decimal.Decimal
	Category  string
	Active    bool
	DeletedAt *time.Time
	DeletedBy *uuid.UUID
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// NewArticle creates a new catalog article
func NewArticle(code, label, unit string, unitPrice valueobject.Money, category string) (*Article, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewInvalidValueError("Article code cannot be empty")
	}
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewInvalidValueError("Article label cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewInvalidValueError("Article unit price cannot be negative")
	}

	article := &Article{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.TrimSpace(code),
		Label:             strings.TrimSpace(label),
		Unit:              unit,
		UnitPrice:         unitPrice.Amount(),
		Category:          category,
		Active:            true,
	}

	article.AddDomainEvent(NewArticleCreatedEvent(article))

	return article, nil
}

// UpdatePrice changes the unit price
func (a *Article) UpdatePrice(unitPrice valueobject.Money) error {
	if a.IsDeleted() {
		return shared.NewAlreadyFinalizedError("Cannot update a deleted article")
	}
	if unitPrice.IsNegative() {
		return shared.NewInvalidValueError("Article unit price cannot be negative")
	}

	old := a.UnitPrice
	a.UnitPrice = unitPrice.Amount()
	a.UpdatedAt = time.Now()

	a.AddDomainEvent(NewArticlePriceChangedEvent(a, old))

	return nil
}

// UpdateLabel changes the label
func (a *Article) UpdateLabel(label string) error {
	if a.IsDeleted() {
		return shared.NewAlreadyFinalizedError("Cannot update a deleted article")
	}
	if strings.TrimSpace(label) == "" {
		return shared.NewInvalidValueError("Article label cannot be empty")
	}

	a.Label = strings.TrimSpace(label)
	a.UpdatedAt = time.Now()

	return nil
}

// Deactivate takes the article out of the active catalog.
// Deactivation is free and reversible.
func (a *Article) Deactivate() error {
	if a.IsDeleted() {
		return shared.NewAlreadyFinalizedError("Cannot deactivate a deleted article")
	}
	if !a.Active {
		return nil
	}

	a.Active = false
	a.UpdatedAt = time.Now()

	a.AddDomainEvent(NewArticleDeactivatedEvent(a))

	return nil
}

// Reactivate puts the article back into the active catalog
func (a *Article) Reactivate() error {
	if a.IsDeleted() {
		return shared.NewAlreadyFinalizedError("Cannot reactivate a deleted article")
	}
	if a.Active {
		return nil
	}

	a.Active = true
	a.UpdatedAt = time.Now()

	a.AddDomainEvent(NewArticleReactivatedEvent(a))

	return nil
}

// SoftDelete marks the article as deleted, keeping the row for historical
// quotes that reference it
func (a *Article) SoftDelete(by uuid.UUID) error {
	if a.IsDeleted() {
		return shared.NewAlreadyFinalizedError("Article is already deleted")
	}
	if by == uuid.Nil {
		return shared.NewInvalidValueError("Deleting user is required")
	}

	now := time.Now()
	a.Active = false
	a.DeletedAt = &now
	a.DeletedBy = &by
	a.UpdatedAt = now

	a.AddDomainEvent(NewArticleDeletedEvent(a))

	return nil
}

// IsDeleted returns true if the article has been soft-deleted
func (a *Article) IsDeleted() bool {
	return a.DeletedAt != nil
}

// GetUnitPriceMoney returns the unit price as Money
func (a *Article) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(a.UnitPrice)
}
