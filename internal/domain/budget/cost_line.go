package budget

import (
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostLinePhase tells which side of the quote/budget boundary a cost line
// lives on
type CostLinePhase string

const (
	PhaseQuote  CostLinePhase = "QUOTE"
	PhaseBudget CostLinePhase = "BUDGET"
)

// CostSubtotals are the five cost-category subtotals carried by a quote-phase
// cost line. A zero value stands for an omitted subtotal.
type CostSubtotals struct {
	Labor       decimal.Decimal
	Materials   decimal.Decimal
	Subcontract decimal.Decimal
	Equipment   decimal.Decimal
	Misc        decimal.Decimal
}

func (s CostSubtotals) validate() error {
	for _, v := range []decimal.Decimal{s.Labor, s.Materials, s.Subcontract, s.Equipment, s.Misc} {
		if v.IsNegative() {
			return shared.NewInvalidValueError("Cost subtotals cannot be negative")
		}
	}
	return nil
}

// Total sums the five subtotals; order never matters and omitted subtotals
// count as zero
func (s CostSubtotals) Total() decimal.Decimal {
	return s.Labor.Add(s.Materials).Add(s.Subcontract).Add(s.Equipment).Add(s.Misc)
}

// CostLine (lot budgétaire) belongs to exactly one of a quote or a budget.
// The XOR invariant is enforced here, at construction: an in-memory cost line
// with both links, or neither, cannot exist. Quote-phase lines carry the cost
// subtotals and margin; budget-phase lines do not.
type CostLine struct {
	shared.BaseEntity
	DevisID   *uuid.UUID
	BudgetID  *uuid.UUID
	Label     string
	Subtotals CostSubtotals `gorm:"embedded;embeddedPrefix:cost_"`
	MarginPct *decimal.Decimal
	SalePrice *decimal.Decimal
}

// TableName returns the table name for GORM
func (CostLine) TableName() string {
	return "cost_lines"
}

// NewCostLine is the single factory for cost lines. Exactly one of devisID
// and budgetID must be set; anything else fails with INVALID_VALUE.
func NewCostLine(devisID, budgetID *uuid.UUID, label string, subtotals CostSubtotals, marginPct, salePrice *decimal.Decimal) (*CostLine, error) {
	hasDevis := devisID != nil && *devisID != uuid.Nil
	hasBudget := budgetID != nil && *budgetID != uuid.Nil
	if hasDevis == hasBudget {
		return nil, shared.NewInvalidValueError("Cost line must belong to exactly one of a quote or a budget")
	}
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewInvalidValueError("Cost line label cannot be empty")
	}

	line := &CostLine{
		BaseEntity: shared.NewBaseEntity(),
		Label:      strings.TrimSpace(label),
	}

	if hasBudget {
		// budget phase carries no quote-side cost fields
		if !subtotals.Total().IsZero() || marginPct != nil || salePrice != nil {
			return nil, shared.NewInvalidValueError("Budget-phase cost lines carry no quote cost fields")
		}
		id := *budgetID
		line.BudgetID = &id
		return line, nil
	}

	if err := subtotals.validate(); err != nil {
		return nil, err
	}
	if marginPct != nil && marginPct.IsNegative() {
		return nil, shared.NewInvalidValueError("Cost line margin percentage cannot be negative")
	}
	if salePrice != nil && salePrice.IsNegative() {
		return nil, shared.NewInvalidValueError("Cost line sale price cannot be negative")
	}

	id := *devisID
	line.DevisID = &id
	line.Subtotals = subtotals
	line.MarginPct = marginPct
	line.SalePrice = salePrice
	return line, nil
}

// NewQuoteCostLine creates a quote-phase cost line
func NewQuoteCostLine(devisID uuid.UUID, label string, subtotals CostSubtotals, marginPct, salePrice *decimal.Decimal) (*CostLine, error) {
	return NewCostLine(&devisID, nil, label, subtotals, marginPct, salePrice)
}

// NewBudgetCostLine creates a budget-phase cost line
func NewBudgetCostLine(budgetID uuid.UUID, label string) (*CostLine, error) {
	return NewCostLine(nil, &budgetID, label, CostSubtotals{}, nil, nil)
}

// Phase returns which side of the boundary the line lives on
func (l *CostLine) Phase() CostLinePhase {
	if l.BudgetID != nil {
		return PhaseBudget
	}
	return PhaseQuote
}

// CostSecTotal returns the sum of the five cost subtotals
func (l *CostLine) CostSecTotal() decimal.Decimal {
	return l.Subtotals.Total()
}

// ComputedSalePrice derives the sale price from the cost-sec total and the
// margin. Undefined (ok=false) when the cost-sec total is zero or no margin
// is set.
func (l *CostLine) ComputedSalePrice() (decimal.Decimal, bool) {
	costSec := l.CostSecTotal()
	if l.MarginPct == nil || !costSec.IsPositive() {
		return decimal.Zero, false
	}
	factor := decimal.NewFromInt(1).Add(l.MarginPct.Div(decimal.NewFromInt(100)))
	return valueobject.RoundMoney(costSec.Mul(factor)), true
}

// SetLabel renames the line
func (l *CostLine) SetLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return shared.NewInvalidValueError("Cost line label cannot be empty")
	}
	l.Label = strings.TrimSpace(label)
	l.UpdatedAt = time.Now()
	return nil
}
