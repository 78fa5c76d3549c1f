package quote

import (
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteCreated             = "QuoteCreated"
	EventTypeQuoteStatusChanged       = "QuoteStatusChanged"
	EventTypeQuoteAccepted            = "QuoteAccepted"
	EventTypeQuoteResponsibleAssigned = "QuoteResponsibleAssigned"
)

// QuoteCreatedEvent is raised when a new quote is created
type QuoteCreatedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID `json:"quote_id"`
	Number     string    `json:"number"`
	ClientName string    `json:"client_name"`
}

// NewQuoteCreatedEvent creates a new QuoteCreatedEvent
func NewQuoteCreatedEvent(q *Quote) *QuoteCreatedEvent {
	return &QuoteCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteCreated, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		ClientName:      q.ClientName,
	}
}

// EventType returns the event type name
func (e *QuoteCreatedEvent) EventType() string {
	return EventTypeQuoteCreated
}

// QuoteStatusChangedEvent is raised on every non-acceptance status transition
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID   `json:"quote_id"`
	Number     string      `json:"number"`
	FromStatus QuoteStatus `json:"from_status"`
	ToStatus   QuoteStatus `json:"to_status"`
}

// NewQuoteStatusChangedEvent creates a new QuoteStatusChangedEvent
func NewQuoteStatusChangedEvent(q *Quote, from QuoteStatus) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteStatusChanged, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		FromStatus:      from,
		ToStatus:        q.Status,
	}
}

// EventType returns the event type name
func (e *QuoteStatusChangedEvent) EventType() string {
	return EventTypeQuoteStatusChanged
}

// AcceptedLotInfo carries one lot's cost data for the budget projection
type AcceptedLotInfo struct {
	LotID   uuid.UUID       `json:"lot_id"`
	Code    string          `json:"code"`
	Label   string          `json:"label"`
	TotalHT decimal.Decimal `json:"total_ht"`
	CostSec decimal.Decimal `json:"cost_sec"`
}

// QuoteAcceptedEvent is raised when a quote is accepted. It carries the
// per-lot sale and cost totals consumed by the budget ledger projection.
type QuoteAcceptedEvent struct {
	shared.BaseDomainEvent
	QuoteID    uuid.UUID         `json:"quote_id"`
	Number     string            `json:"number"`
	ClientName string            `json:"client_name"`
	TotalHT    decimal.Decimal   `json:"total_ht"`
	TotalTTC   decimal.Decimal   `json:"total_ttc"`
	Lots       []AcceptedLotInfo `json:"lots"`
}

// NewQuoteAcceptedEvent creates a new QuoteAcceptedEvent
func NewQuoteAcceptedEvent(q *Quote) *QuoteAcceptedEvent {
	lots := make([]AcceptedLotInfo, len(q.Lots))
	for i := range q.Lots {
		lot := &q.Lots[i]
		lots[i] = AcceptedLotInfo{
			LotID:   lot.ID,
			Code:    lot.Code,
			Label:   lot.Label,
			TotalHT: lot.TotalHT(),
			CostSec: lot.CostSec(),
		}
	}

	return &QuoteAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteAccepted, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Number:          q.Number,
		ClientName:      q.ClientName,
		TotalHT:         q.TotalHT(),
		TotalTTC:        q.TotalTTC(),
		Lots:            lots,
	}
}

// EventType returns the event type name
func (e *QuoteAcceptedEvent) EventType() string {
	return EventTypeQuoteAccepted
}

// QuoteResponsibleAssignedEvent is raised when a commercial or conducteur is
// assigned to the quote
type QuoteResponsibleAssignedEvent struct {
	shared.BaseDomainEvent
	QuoteID uuid.UUID `json:"quote_id"`
	Kind    string    `json:"kind"` // commercial | conducteur
	UserID  uuid.UUID `json:"user_id"`
}

// NewQuoteResponsibleAssignedEvent creates a new QuoteResponsibleAssignedEvent
func NewQuoteResponsibleAssignedEvent(q *Quote, kind string, userID uuid.UUID) *QuoteResponsibleAssignedEvent {
	return &QuoteResponsibleAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteResponsibleAssigned, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		Kind:            kind,
		UserID:          userID,
	}
}

// EventType returns the event type name
func (e *QuoteResponsibleAssignedEvent) EventType() string {
	return EventTypeQuoteResponsibleAssigned
}
