package quote

import (
	"strings"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostCategory classifies an itemized cost underlying a quote line
type CostCategory string

const (
	CostCategoryLabor       CostCategory = "LABOR"
	CostCategoryMaterials   CostCategory = "MATERIALS"
	CostCategorySubcontract CostCategory = "SUBCONTRACT"
	CostCategoryEquipment   CostCategory = "EQUIPMENT"
	CostCategoryTravel      CostCategory = "TRAVEL"
)

// IsValid checks if the category is a valid CostCategory
func (c CostCategory) IsValid() bool {
	switch c {
	case CostCategoryLabor, CostCategoryMaterials, CostCategorySubcontract, CostCategoryEquipment, CostCategoryTravel:
		return true
	}
	return false
}

// String returns the string representation of CostCategory
func (c CostCategory) String() string {
	return string(c)
}

// CostEntry is a single itemized cost ("débourse détaillé") attached to one
// quote line. Entries are immutable once attached; corrections go through
// replacement on the owning line.
type CostEntry struct {
	shared.BaseEntity
	LineID    uuid.UUID
	Category  CostCategory
	Label     string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	// Trade and HourlyRate are carried by LABOR entries only. For labor the
	// quantity is a number of hours and the unit price is the hourly rate.
	Trade      string
	HourlyRate decimal.Decimal
}

// TableName returns the table name for GORM
func (CostEntry) TableName() string {
	return "cost_entries"
}

// NewCostEntry creates a non-labor cost entry. LABOR entries carry extra
// fields and go through NewLaborCostEntry.
func NewCostEntry(lineID uuid.UUID, category CostCategory, label string, quantity, unitPrice decimal.Decimal) (*CostEntry, error) {
	if category == CostCategoryLabor {
		return nil, shared.NewInvalidValueError("Labor entries require a trade and hourly rate, use NewLaborCostEntry")
	}
	if err := validateCostEntry(lineID, category, quantity, unitPrice); err != nil {
		return nil, err
	}

	return &CostEntry{
		BaseEntity: shared.NewBaseEntity(),
		LineID:     lineID,
		Category:   category,
		Label:      strings.TrimSpace(label),
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}, nil
}

// NewLaborCostEntry creates a LABOR cost entry: hours of a given trade at an
// hourly rate
func NewLaborCostEntry(lineID uuid.UUID, label, trade string, hours, hourlyRate decimal.Decimal) (*CostEntry, error) {
	if strings.TrimSpace(trade) == "" {
		return nil, shared.NewInvalidValueError("Labor entries require a trade label")
	}
	if err := validateCostEntry(lineID, CostCategoryLabor, hours, hourlyRate); err != nil {
		return nil, err
	}

	return &CostEntry{
		BaseEntity: shared.NewBaseEntity(),
		LineID:     lineID,
		Category:   CostCategoryLabor,
		Label:      strings.TrimSpace(label),
		Quantity:   hours,
		UnitPrice:  hourlyRate,
		Trade:      strings.TrimSpace(trade),
		HourlyRate: hourlyRate,
	}, nil
}

func validateCostEntry(lineID uuid.UUID, category CostCategory, quantity, unitPrice decimal.Decimal) error {
	if lineID == uuid.Nil {
		return shared.NewInvalidValueError("Cost entry must belong to a quote line")
	}
	if !category.IsValid() {
		return shared.NewInvalidValueError("Invalid cost category: " + string(category))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidValueError("Cost entry quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewInvalidValueError("Cost entry unit price cannot be negative")
	}
	return nil
}

// Total returns quantity x unit price, rounded with the statutory policy
func (e *CostEntry) Total() decimal.Decimal {
	return valueobject.RoundMoney(e.Quantity.Mul(e.UnitPrice))
}

// IsLabor returns true for LABOR entries
func (e *CostEntry) IsLabor() bool {
	return e.Category == CostCategoryLabor
}
