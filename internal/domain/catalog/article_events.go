package catalog

import (
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeArticle = "Article"

// Event type constants
const (
	EventTypeArticleCreated      = "ArticleCreated"
	EventTypeArticlePriceChanged = "ArticlePriceChanged"
	EventTypeArticleDeactivated  = "ArticleDeactivated"
	EventTypeArticleReactivated  = "ArticleReactivated"
	EventTypeArticleDeleted      = "ArticleDeleted"
)

// ArticleCreatedEvent is raised when a new catalog article is created
type ArticleCreatedEvent struct {
	shared.BaseDomainEvent
	ArticleID uuid.UUID       `json:"article_id"`
	Code      string          `json:"code"`
	Label     string          `json:"label"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Category  string          `json:"category"`
}

// NewArticleCreatedEvent creates a new ArticleCreatedEvent
func NewArticleCreatedEvent(article *Article) *ArticleCreatedEvent {
	return &ArticleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleCreated, AggregateTypeArticle, article.ID),
		ArticleID:       article.ID,
		Code:            article.Code,
		Label:           article.Label,
		UnitPrice:       article.UnitPrice,
		Category:        article.Category,
	}
}

// EventType returns the event type name
func (e *ArticleCreatedEvent) EventType() string {
	return EventTypeArticleCreated
}

// ArticlePriceChangedEvent is raised when an article's unit price changes
type ArticlePriceChangedEvent struct {
	shared.BaseDomainEvent
	ArticleID uuid.UUID       `json:"article_id"`
	Code      string          `json:"code"`
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// NewArticlePriceChangedEvent creates a new ArticlePriceChangedEvent
func NewArticlePriceChangedEvent(article *Article, oldPrice decimal.Decimal) *ArticlePriceChangedEvent {
	return &ArticlePriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticlePriceChanged, AggregateTypeArticle, article.ID),
		ArticleID:       article.ID,
		Code:            article.Code,
		OldPrice:        oldPrice,
		NewPrice:        article.UnitPrice,
	}
}

// EventType returns the event type name
func (e *ArticlePriceChangedEvent) EventType() string {
	return EventTypeArticlePriceChanged
}

// ArticleDeactivatedEvent is raised when an article is deactivated
type ArticleDeactivatedEvent struct {
	shared.BaseDomainEvent
	ArticleID uuid.UUID `json:"article_id"`
	Code      string    `json:"code"`
}

// NewArticleDeactivatedEvent creates a new ArticleDeactivatedEvent
func NewArticleDeactivatedEvent(article *Article) *ArticleDeactivatedEvent {
	return &ArticleDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleDeactivated, AggregateTypeArticle, article.ID),
		ArticleID:       article.ID,
		Code:            article.Code,
	}
}

// EventType returns the event type name
func (e *ArticleDeactivatedEvent) EventType() string {
	return EventTypeArticleDeactivated
}

// ArticleReactivatedEvent is raised when an article is reactivated
type ArticleReactivatedEvent struct {
	shared.BaseDomainEvent
	ArticleID uuid.UUID `json:"article_id"`
	Code      string    `json:"code"`
}

// NewArticleReactivatedEvent creates a new ArticleReactivatedEvent
func NewArticleReactivatedEvent(article *Article) *ArticleReactivatedEvent {
	return &ArticleReactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleReactivated, AggregateTypeArticle, article.ID),
		ArticleID:       article.ID,
		Code:            article.Code,
	}
}

// EventType returns the event type name
func (e *ArticleReactivatedEvent) EventType() string {
	return EventTypeArticleReactivated
}

// ArticleDeletedEvent is raised when an article is soft-deleted
type ArticleDeletedEvent struct {
	shared.BaseDomainEvent
	ArticleID uuid.UUID  `json:"article_id"`
	Code      string     `json:"code"`
	DeletedBy *uuid.UUID `json:"deleted_by"`
}

// NewArticleDeletedEvent creates a new ArticleDeletedEvent
func NewArticleDeletedEvent(article *Article) *ArticleDeletedEvent {
	return &ArticleDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleDeleted, AggregateTypeArticle, article.ID),
		ArticleID:       article.ID,
		Code:            article.Code,
		DeletedBy:       article.DeletedBy,
	}
}

// EventType returns the event type name
func (e *ArticleDeletedEvent) EventType() string {
	return EventTypeArticleDeleted
}
