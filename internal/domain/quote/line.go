package quote

import (
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteLine is a priced line inside a lot. Sale amounts are derived from
// quantity and unit price through the monetary math kernel; the cost side is
// derived from the line's cost entries.
type QuoteLine struct {
	shared.BaseEntity
	LotID       uuid.UUID
	Designation string
	Unit        string
	Quantity    decimal.Decimal
	UnitPriceHT decimal.Decimal
	VATRate     decimal.Decimal
	MontantHT   decimal.Decimal
	MontantTTC  decimal.Decimal
	MarginPct   *decimal.Decimal
	ArticleID   *uuid.UUID
	CostEntries []CostEntry `gorm:"foreignKey:LineID"`
}

// TableName returns the table name for GORM
func (QuoteLine) TableName() string {
	return "quote_lines"
}

// NewQuoteLine creates a new quote line and derives its amounts
func NewQuoteLine(lotID uuid.UUID, designation, unit string, quantity, unitPriceHT, vatRate decimal.Decimal) (*QuoteLine, error) {
	if lotID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Quote line must belong to a lot")
	}
	if strings.TrimSpace(designation) == "" {
		return nil, shared.NewInvalidValueError("Quote line designation cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidValueError("Quote line quantity must be positive")
	}
	if unitPriceHT.IsNegative() {
		return nil, shared.NewInvalidValueError("Quote line unit price cannot be negative")
	}
	if vatRate.IsNegative() {
		return nil, shared.NewInvalidValueError("Quote line VAT rate cannot be negative")
	}

	line := &QuoteLine{
		BaseEntity:  shared.NewBaseEntity(),
		LotID:       lotID,
		Designation: strings.TrimSpace(designation),
		Unit:        unit,
		Quantity:    quantity,
		UnitPriceHT: unitPriceHT,
		VATRate:     vatRate,
		CostEntries: make([]CostEntry, 0),
	}
	line.recalculateAmounts()

	return line, nil
}

// recalculateAmounts derives montant HT and TTC from the price fields.
// The VAT is rounded before it is added to the HT amount.
func (l *QuoteLine) recalculateAmounts() {
	l.MontantHT = valueobject.RoundMoney(l.Quantity.Mul(l.UnitPriceHT))
	l.MontantTTC = valueobject.TTC(l.MontantHT, l.VATRate)
}

// UpdatePricing changes quantity and unit price and re-derives the amounts
func (l *QuoteLine) UpdatePricing(quantity, unitPriceHT decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidValueError("Quote line quantity must be positive")
	}
	if unitPriceHT.IsNegative() {
		return shared.NewInvalidValueError("Quote line unit price cannot be negative")
	}

	l.Quantity = quantity
	l.UnitPriceHT = unitPriceHT
	l.recalculateAmounts()
	l.UpdatedAt = time.Now()

	return nil
}

// SetMargin sets the line-level margin percentage
func (l *QuoteLine) SetMargin(marginPct decimal.Decimal) error {
	if marginPct.IsNegative() {
		return shared.NewInvalidValueError("Line margin percentage cannot be negative")
	}
	l.MarginPct = &marginPct
	l.UpdatedAt = time.Now()
	return nil
}

// LinkArticle links the line to a price-catalog article
func (l *QuoteLine) LinkArticle(articleID uuid.UUID) error {
	if articleID == uuid.Nil {
		return shared.NewInvalidValueError("Article ID cannot be empty")
	}
	l.ArticleID = &articleID
	l.UpdatedAt = time.Now()
	return nil
}

// AddCostEntry attaches a cost entry to the line
func (l *QuoteLine) AddCostEntry(entry *CostEntry) error {
	if entry == nil {
		return shared.NewInvalidValueError("Cost entry is required")
	}
	if entry.LineID != l.ID {
		return shared.NewInvalidValueError("Cost entry belongs to another line")
	}

	l.CostEntries = append(l.CostEntries, *entry)
	l.UpdatedAt = time.Now()

	return nil
}

// ReplaceCostEntry swaps an existing entry for a corrected one. Entries are
// immutable, so correction is removal plus insertion of the replacement.
func (l *QuoteLine) ReplaceCostEntry(entryID uuid.UUID, replacement *CostEntry) error {
	if replacement == nil {
		return shared.NewInvalidValueError("Replacement cost entry is required")
	}
	if replacement.LineID != l.ID {
		return shared.NewInvalidValueError("Replacement cost entry belongs to another line")
	}

	for idx := range l.CostEntries {
		if l.CostEntries[idx].ID == entryID {
			l.CostEntries[idx] = *replacement
			l.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Cost entry not found on this line")
}

// RemoveCostEntry detaches a cost entry from the line
func (l *QuoteLine) RemoveCostEntry(entryID uuid.UUID) error {
	for idx := range l.CostEntries {
		if l.CostEntries[idx].ID == entryID {
			l.CostEntries = append(l.CostEntries[:idx], l.CostEntries[idx+1:]...)
			l.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError(shared.CodeNotFound, "Cost entry not found on this line")
}

// Breakdown decomposes the line's cost entries by category
func (l *QuoteLine) Breakdown() CostBreakdown {
	return Decompose(l.CostEntries)
}

// CostSec returns the line's total raw cost (sum of its cost entries)
func (l *QuoteLine) CostSec() decimal.Decimal {
	return l.Breakdown().CostSec
}

// CostPrice returns the line's cost price before margin
func (l *QuoteLine) CostPrice() decimal.Decimal {
	return l.CostSec()
}

// VATAmount returns the rounded VAT carried by this line
func (l *QuoteLine) VATAmount() decimal.Decimal {
	return valueobject.VAT(l.MontantHT, l.VATRate)
}
