package budget

import (
	"fmt"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is the financial envelope of one chantier (construction site).
// There is exactly one budget per chantier; the application service enforces
// the uniqueness against the repository.
type Budget struct {
	shared.BaseAggregateRoot
	ChantierID                  uuid.UUID
	InitialHT                   decimal.Decimal
	RetentionPct                int
	AlertThresholdPct           decimal.Decimal
	PurchaseValidationThreshold decimal.Decimal
	CostLines                   []CostLine
	Amendments                  []Amendment
	Alerts                      []Alert
	Allocations                 []Allocation `gorm:"foreignKey:ChantierID;references:ChantierID"`
}

// TableName returns the table name for GORM
func (Budget) TableName() string {
	return "budgets"
}

// NewBudget creates the budget of a chantier
func NewBudget(chantierID uuid.UUID, initialHT decimal.Decimal, retentionPct int, alertThresholdPct, purchaseValidationThreshold decimal.Decimal) (*Budget, error) {
	if chantierID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Budget requires a chantier")
	}
	if initialHT.IsNegative() {
		return nil, shared.NewInvalidValueError("Initial budget amount cannot be negative")
	}
	if _, err := valueobject.NewGaranteeRetention(retentionPct); err != nil {
		return nil, err
	}
	if alertThresholdPct.LessThanOrEqual(decimal.Zero) || alertThresholdPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewInvalidValueError("Alert threshold must lie in (0, 100]")
	}
	if purchaseValidationThreshold.IsNegative() {
		return nil, shared.NewInvalidValueError("Purchase validation threshold cannot be negative")
	}

	budget := &Budget{
		BaseAggregateRoot:           shared.NewBaseAggregateRoot(),
		ChantierID:                  chantierID,
		InitialHT:                   initialHT,
		RetentionPct:                retentionPct,
		AlertThresholdPct:           alertThresholdPct,
		PurchaseValidationThreshold: purchaseValidationThreshold,
		CostLines:                   make([]CostLine, 0),
		Amendments:                  make([]Amendment, 0),
		Alerts:                      make([]Alert, 0),
		Allocations:                 make([]Allocation, 0),
	}

	budget.AddDomainEvent(NewBudgetCreatedEvent(budget))

	return budget, nil
}

// CurrentAmount is the initial amount plus every validated amendment.
// Draft amendments do not count.
func (b *Budget) CurrentAmount() decimal.Decimal {
	total := b.InitialHT
	for idx := range b.Amendments {
		if b.Amendments[idx].IsValidated() {
			total = total.Add(b.Amendments[idx].AmountHT)
		}
	}
	return total
}

// Changes is a partial update of the budget's own fields. Nil fields are
// untouched.
type Changes struct {
	InitialHT                   *decimal.Decimal
	RetentionPct                *int
	AlertThresholdPct           *decimal.Decimal
	PurchaseValidationThreshold *decimal.Decimal
}

// FieldChange records one field mutation produced by Update. The caller
// journals one entry and publishes one event per change, not per call.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Update applies a partial field update and returns one FieldChange per
// actually-changed field
func (b *Budget) Update(changes Changes) ([]FieldChange, error) {
	applied := make([]FieldChange, 0)

	if changes.InitialHT != nil && !changes.InitialHT.Equal(b.InitialHT) {
		if changes.InitialHT.IsNegative() {
			return nil, shared.NewInvalidValueError("Initial budget amount cannot be negative")
		}
		applied = append(applied, FieldChange{Field: "montant_initial_ht", Old: b.InitialHT.String(), New: changes.InitialHT.String()})
		b.InitialHT = *changes.InitialHT
	}

	if changes.RetentionPct != nil && *changes.RetentionPct != b.RetentionPct {
		if _, err := valueobject.NewGaranteeRetention(*changes.RetentionPct); err != nil {
			return nil, err
		}
		applied = append(applied, FieldChange{Field: "retenue_garantie_pct", Old: fmt.Sprintf("%d", b.RetentionPct), New: fmt.Sprintf("%d", *changes.RetentionPct)})
		b.RetentionPct = *changes.RetentionPct
	}

	if changes.AlertThresholdPct != nil && !changes.AlertThresholdPct.Equal(b.AlertThresholdPct) {
		if changes.AlertThresholdPct.LessThanOrEqual(decimal.Zero) || changes.AlertThresholdPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, shared.NewInvalidValueError("Alert threshold must lie in (0, 100]")
		}
		applied = append(applied, FieldChange{Field: "seuil_alerte_pct", Old: b.AlertThresholdPct.String(), New: changes.AlertThresholdPct.String()})
		b.AlertThresholdPct = *changes.AlertThresholdPct
	}

	if changes.PurchaseValidationThreshold != nil && !changes.PurchaseValidationThreshold.Equal(b.PurchaseValidationThreshold) {
		if changes.PurchaseValidationThreshold.IsNegative() {
			return nil, shared.NewInvalidValueError("Purchase validation threshold cannot be negative")
		}
		applied = append(applied, FieldChange{Field: "seuil_validation_achat", Old: b.PurchaseValidationThreshold.String(), New: changes.PurchaseValidationThreshold.String()})
		b.PurchaseValidationThreshold = *changes.PurchaseValidationThreshold
	}

	if len(applied) > 0 {
		b.UpdatedAt = time.Now()
		for _, change := range applied {
			b.AddDomainEvent(NewBudgetUpdatedEvent(b, change))
		}
	}

	return applied, nil
}

// AddCostLine attaches a budget-phase cost line
func (b *Budget) AddCostLine(line *CostLine) error {
	if line == nil {
		return shared.NewInvalidValueError("Cost line is required")
	}
	if line.Phase() != PhaseBudget || *line.BudgetID != b.ID {
		return shared.NewInvalidValueError("Cost line does not belong to this budget")
	}

	b.CostLines = append(b.CostLines, *line)
	b.UpdatedAt = time.Now()

	return nil
}

// CreateAmendment creates a draft amendment with a budget-unique number
func (b *Budget) CreateAmendment(number, motive string, amountHT decimal.Decimal, impact string) (*Amendment, error) {
	for idx := range b.Amendments {
		if b.Amendments[idx].Number == number {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Amendment number already exists on this budget")
		}
	}

	amendment, err := NewAmendment(b.ID, number, motive, amountHT, impact)
	if err != nil {
		return nil, err
	}

	b.Amendments = append(b.Amendments, *amendment)
	b.UpdatedAt = time.Now()
	b.AddDomainEvent(NewAmendmentCreatedEvent(b, amendment))

	return amendment, nil
}

// ValidateAmendment finalizes an amendment by ID. Validating an
// already-validated amendment fails.
func (b *Budget) ValidateAmendment(amendmentID, by uuid.UUID) (*Amendment, error) {
	for idx := range b.Amendments {
		if b.Amendments[idx].ID == amendmentID {
			if err := b.Amendments[idx].Validate(by); err != nil {
				return nil, err
			}
			b.UpdatedAt = time.Now()
			b.AddDomainEvent(NewAmendmentValidatedEvent(b, &b.Amendments[idx]))
			return &b.Amendments[idx], nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "Amendment not found on this budget")
}

// EvaluateThresholds compares committed and realized spend against the alert
// threshold and raises the missing alerts. An alert type already pending
// (raised and not yet acknowledged) is not raised twice.
func (b *Budget) EvaluateThresholds(engagedHT, realizedHT decimal.Decimal) ([]Alert, error) {
	current := b.CurrentAmount()
	if !current.IsPositive() {
		return nil, nil
	}

	raised := make([]Alert, 0)

	checks := []struct {
		alertType AlertType
		amount    decimal.Decimal
		label     string
	}{
		{AlertSeuilEngage, engagedHT, "engagé"},
		{AlertSeuilRealise, realizedHT, "réalisé"},
	}

	for _, check := range checks {
		pct := valueobject.RoundPercent(check.amount.Div(current).Mul(decimal.NewFromInt(100)))
		if pct.LessThan(b.AlertThresholdPct) || b.hasPendingAlert(check.alertType) {
			continue
		}

		message := fmt.Sprintf("Le montant %s atteint %s%% du budget (%s / %s)",
			check.label, pct.StringFixed(2), check.amount.StringFixed(2), current.StringFixed(2))
		alert, err := NewAlert(b.ID, check.alertType, message, pct, b.AlertThresholdPct, current, check.amount)
		if err != nil {
			return nil, err
		}

		b.Alerts = append(b.Alerts, *alert)
		b.AddDomainEvent(NewAlertRaisedEvent(b, alert))
		raised = append(raised, *alert)
	}

	if len(raised) > 0 {
		b.UpdatedAt = time.Now()
	}

	return raised, nil
}

func (b *Budget) hasPendingAlert(alertType AlertType) bool {
	for idx := range b.Alerts {
		if b.Alerts[idx].Type == alertType && !b.Alerts[idx].IsAcknowledged() {
			return true
		}
	}
	return false
}

// AcknowledgeAlert acknowledges an alert by ID. A second acknowledgment fails.
func (b *Budget) AcknowledgeAlert(alertID, by uuid.UUID) (*Alert, error) {
	for idx := range b.Alerts {
		if b.Alerts[idx].ID == alertID {
			if err := b.Alerts[idx].Acknowledge(by); err != nil {
				return nil, err
			}
			b.UpdatedAt = time.Now()
			b.AddDomainEvent(NewAlertAcknowledgedEvent(b, &b.Alerts[idx]))
			return &b.Alerts[idx], nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeNotFound, "Alert not found on this budget")
}

// AddAllocation attaches a task-to-cost-line allocation. The cost line must
// belong to this budget.
func (b *Budget) AddAllocation(taskID, costLineID uuid.UUID, percentage decimal.Decimal) (*Allocation, error) {
	var owned bool
	for idx := range b.CostLines {
		if b.CostLines[idx].ID == costLineID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Cost line not found on this budget")
	}

	allocation, err := NewAllocation(b.ChantierID, taskID, costLineID, percentage)
	if err != nil {
		return nil, err
	}

	b.Allocations = append(b.Allocations, *allocation)
	b.UpdatedAt = time.Now()

	return allocation, nil
}

// Retention returns the budget's garantee retention value object
func (b *Budget) Retention() valueobject.GaranteeRetention {
	retention, _ := valueobject.NewGaranteeRetention(b.RetentionPct)
	return retention
}
