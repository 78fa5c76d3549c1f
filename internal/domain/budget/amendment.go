package budget

import (
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmendmentStatus is the lifecycle status of a budget amendment
type AmendmentStatus string

const (
	AmendmentDraft     AmendmentStatus = "DRAFT"
	AmendmentValidated AmendmentStatus = "VALIDATED"
)

// Amendment (avenant budgétaire) is a signed change order altering a budget's
// approved amount. Validation is one-way: once validated the amendment is
// immutable.
type Amendment struct {
	shared.BaseEntity
	BudgetID    uuid.UUID
	Number      string
	Motive      string
	AmountHT    decimal.Decimal // sign free: a negative amount reduces the budget
	Impact      string
	Status      AmendmentStatus
	ValidatedBy *uuid.UUID
	ValidatedAt *time.Time
}

// TableName returns the table name for GORM
func (Amendment) TableName() string {
	return "budget_amendments"
}

// NewAmendment creates a draft amendment
func NewAmendment(budgetID uuid.UUID, number, motive string, amountHT decimal.Decimal, impact string) (*Amendment, error) {
	if budgetID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Amendment must belong to a budget")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewInvalidValueError("Amendment number cannot be empty")
	}
	if strings.TrimSpace(motive) == "" {
		return nil, shared.NewInvalidValueError("Amendment motive cannot be empty")
	}

	return &Amendment{
		BaseEntity: shared.NewBaseEntity(),
		BudgetID:   budgetID,
		Number:     strings.TrimSpace(number),
		Motive:     strings.TrimSpace(motive),
		AmountHT:   amountHT,
		Impact:     impact,
		Status:     AmendmentDraft,
	}, nil
}

// Validate finalizes the amendment. A second call always fails.
func (a *Amendment) Validate(by uuid.UUID) error {
	if a.Status == AmendmentValidated {
		return shared.NewAlreadyFinalizedError("Amendment " + a.Number + " is already validated")
	}
	if by == uuid.Nil {
		return shared.NewInvalidValueError("Validator is required")
	}

	now := time.Now()
	a.Status = AmendmentValidated
	a.ValidatedBy = &by
	a.ValidatedAt = &now
	a.UpdatedAt = now

	return nil
}

// IsValidated returns true once the amendment has been validated
func (a *Amendment) IsValidated() bool {
	return a.Status == AmendmentValidated
}

// UpdateMotive changes the motive of a draft amendment
func (a *Amendment) UpdateMotive(motive string) error {
	if a.IsValidated() {
		return shared.NewAlreadyFinalizedError("Validated amendments are immutable")
	}
	if strings.TrimSpace(motive) == "" {
		return shared.NewInvalidValueError("Amendment motive cannot be empty")
	}
	a.Motive = strings.TrimSpace(motive)
	a.UpdatedAt = time.Now()
	return nil
}
