package budget

import (
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBudget = "Budget"

// Event type constants
const (
	EventTypeBudgetCreated      = "BudgetCreated"
	EventTypeBudgetUpdated      = "BudgetUpdated"
	EventTypeAmendmentCreated   = "AmendmentCreated"
	EventTypeAmendmentValidated = "AmendmentValidated"
	EventTypeAlertRaised        = "AlertRaised"
	EventTypeAlertAcknowledged  = "AlertAcknowledged"
)

// BudgetCreatedEvent is raised when a chantier budget is created
type BudgetCreatedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID       `json:"budget_id"`
	ChantierID uuid.UUID       `json:"chantier_id"`
	InitialHT  decimal.Decimal `json:"initial_ht"`
}

// NewBudgetCreatedEvent creates a new BudgetCreatedEvent
func NewBudgetCreatedEvent(budget *Budget) *BudgetCreatedEvent {
	return &BudgetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetCreated, AggregateTypeBudget, budget.ID),
		BudgetID:        budget.ID,
		ChantierID:      budget.ChantierID,
		InitialHT:       budget.InitialHT,
	}
}

// EventType returns the event type name
func (e *BudgetCreatedEvent) EventType() string {
	return EventTypeBudgetCreated
}

// BudgetUpdatedEvent is raised once per changed field when a budget is updated
type BudgetUpdatedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID `json:"budget_id"`
	ChantierID uuid.UUID `json:"chantier_id"`
	Field      string    `json:"field"`
	OldValue   string    `json:"old_value"`
	NewValue   string    `json:"new_value"`
}

// NewBudgetUpdatedEvent creates a new BudgetUpdatedEvent for one field change
func NewBudgetUpdatedEvent(budget *Budget, change FieldChange) *BudgetUpdatedEvent {
	return &BudgetUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetUpdated, AggregateTypeBudget, budget.ID),
		BudgetID:        budget.ID,
		ChantierID:      budget.ChantierID,
		Field:           change.Field,
		OldValue:        change.Old,
		NewValue:        change.New,
	}
}

// EventType returns the event type name
func (e *BudgetUpdatedEvent) EventType() string {
	return EventTypeBudgetUpdated
}

// AmendmentCreatedEvent is raised when a draft amendment is added to a budget
type AmendmentCreatedEvent struct {
	shared.BaseDomainEvent
	BudgetID    uuid.UUID       `json:"budget_id"`
	AmendmentID uuid.UUID       `json:"amendment_id"`
	Number      string          `json:"number"`
	AmountHT    decimal.Decimal `json:"amount_ht"`
}

// NewAmendmentCreatedEvent creates a new AmendmentCreatedEvent
func NewAmendmentCreatedEvent(budget *Budget, amendment *Amendment) *AmendmentCreatedEvent {
	return &AmendmentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAmendmentCreated, AggregateTypeBudget, budget.ID),
		BudgetID:        budget.ID,
		AmendmentID:     amendment.ID,
		Number:          amendment.Number,
		AmountHT:        amendment.AmountHT,
	}
}

// EventType returns the event type name
func (e *AmendmentCreatedEvent) EventType() string {
	return EventTypeAmendmentCreated
}

// AmendmentValidatedEvent is raised when an amendment becomes definitive
type AmendmentValidatedEvent struct {
	shared.BaseDomainEvent
	BudgetID    uuid.UUID       `json:"budget_id"`
	AmendmentID uuid.UUID       `json:"amendment_id"`
	Number      string          `json:"number"`
	AmountHT    decimal.Decimal `json:"amount_ht"`
	NewBudgetHT decimal.Decimal `json:"new_budget_ht"`
	ValidatedBy *uuid.UUID      `json:"validated_by"`
}

// NewAmendmentValidatedEvent creates a new AmendmentValidatedEvent
func NewAmendmentValidatedEvent(budget *Budget, amendment *Amendment) *AmendmentValidatedEvent {
	return &AmendmentValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAmendmentValidated, AggregateTypeBudget, budget.ID),
		BudgetID:        budget.ID,
		AmendmentID:     amendment.ID,
		Number:          amendment.Number,
		AmountHT:        amendment.AmountHT,
		NewBudgetHT:     budget.CurrentAmount(),
		ValidatedBy:     amendment.ValidatedBy,
	}
}

// EventType returns the event type name
func (e *AmendmentValidatedEvent) EventType() string {
	return EventTypeAmendmentValidated
}

// AlertRaisedEvent is raised when spend crosses the budget alert threshold
type AlertRaisedEvent struct {
	shared.BaseDomainEvent
	BudgetID   uuid.UUID       `json:"budget_id"`
	AlertID    uuid.UUID       `json:"alert_id"`
	AlertType  AlertType       `json:"alert_type"`
	PctReached decimal.Decimal `json:"pct_reached"`
	Message    string          `json:"message"`
}

// NewAlertRaisedEvent creates a new AlertRaisedEvent
func NewAlertRaisedEvent(budget *Budget, alert *Alert) *AlertRaisedEvent {
	return &AlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertRaised, AggregateTypeBudget, budget.ID),
		BudgetID:        budget.ID,
		AlertID:         alert.ID,
		AlertType:       alert.Type,
		PctReached:      alert.PctReached,
		Message:         alert.Message,
	}
}

// EventType returns the event type name
func (e *AlertRaisedEvent) EventType() string {
	return EventTypeAlertRaised
}

// AlertAcknowledgedEvent is raised when a budget alert is acknowledged
type AlertAcknowledgedEvent struct {
	shared.BaseDomainEvent
	BudgetID       uuid.UUID  `json:"budget_id"`
	AlertID        uuid.UUID  `json:"alert_id"`
	AlertType      AlertType  `json:"alert_type"`
	AcknowledgedBy *uuid.UUID `json:"acknowledged_by"`
}

// NewAlertAcknowledgedEvent creates a new AlertAcknowledgedEvent
func NewAlertAcknowledgedEvent(budget *Budget, alert *Alert) *AlertAcknowledgedEvent {
	return &AlertAcknowledgedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertAcknowledged, AggregateTypeBudget, budget.ID),
		BudgetID:        budget.ID,
		AlertID:         alert.ID,
		AlertType:       alert.Type,
		AcknowledgedBy:  alert.AcknowledgedBy,
	}
}

// EventType returns the event type name
func (e *AlertAcknowledgedEvent) EventType() string {
	return EventTypeAlertAcknowledged
}
