package budget

import (
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertType classifies a budget overrun alert
type AlertType string

const (
	AlertSeuilEngage    AlertType = "SEUIL_ENGAGE"    // committed spend crossed the threshold
	AlertSeuilRealise   AlertType = "SEUIL_REALISE"   // realized spend crossed the threshold
	AlertDepassementLot AlertType = "DEPASSEMENT_LOT" // a single lot overran its envelope
)

// IsValid checks if the alert type is known
func (t AlertType) IsValid() bool {
	switch t {
	case AlertSeuilEngage, AlertSeuilRealise, AlertDepassementLot:
		return true
	}
	return false
}

// Alert (alerte de dépassement) signals that a budget's spend approached or
// crossed a configured threshold. An alert is acknowledgeable exactly once.
type Alert struct {
	shared.BaseEntity
	BudgetID       uuid.UUID
	Type           AlertType
	Message        string
	PctReached     decimal.Decimal
	ThresholdPct   decimal.Decimal
	BudgetAmount   decimal.Decimal
	AmountReached  decimal.Decimal
	AcknowledgedBy *uuid.UUID
	AcknowledgedAt *time.Time
}

// TableName returns the table name for GORM
func (Alert) TableName() string {
	return "budget_alerts"
}

// NewAlert creates a new threshold alert
func NewAlert(budgetID uuid.UUID, alertType AlertType, message string, pctReached, thresholdPct, budgetAmount, amountReached decimal.Decimal) (*Alert, error) {
	if budgetID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Alert must belong to a budget")
	}
	if !alertType.IsValid() {
		return nil, shared.NewInvalidValueError("Invalid alert type: " + string(alertType))
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewInvalidValueError("Alert message cannot be empty")
	}

	return &Alert{
		BaseEntity:    shared.NewBaseEntity(),
		BudgetID:      budgetID,
		Type:          alertType,
		Message:       message,
		PctReached:    pctReached,
		ThresholdPct:  thresholdPct,
		BudgetAmount:  budgetAmount,
		AmountReached: amountReached,
	}, nil
}

// Acknowledge records who acknowledged the alert. A second call always fails.
func (a *Alert) Acknowledge(by uuid.UUID) error {
	if a.IsAcknowledged() {
		return shared.NewAlreadyFinalizedError("Alert is already acknowledged")
	}
	if by == uuid.Nil {
		return shared.NewInvalidValueError("Acknowledging user is required")
	}

	now := time.Now()
	a.AcknowledgedBy = &by
	a.AcknowledgedAt = &now
	a.UpdatedAt = now

	return nil
}

// IsAcknowledged returns true once the alert has been acknowledged
func (a *Alert) IsAcknowledged() bool {
	return a.AcknowledgedAt != nil
}
