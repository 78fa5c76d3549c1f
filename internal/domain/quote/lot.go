package quote

import (
	"strings"
	"time"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteLot is a chapter of a quote (e.g. "masonry"). A lot with a parent lot
// is a sub-chapter and inherits the parent's margin when its own is unset.
type QuoteLot struct {
	shared.BaseEntity
	QuoteID   uuid.UUID
	Code      string
	Label     string
	Order     int
	ParentID  *uuid.UUID
	MarginPct *decimal.Decimal
	Lines     []QuoteLine `gorm:"foreignKey:LotID"`
}

// TableName returns the table name for GORM
func (QuoteLot) TableName() string {
	return "quote_lots"
}

// NewQuoteLot creates a new lot
func NewQuoteLot(quoteID uuid.UUID, code, label string, order int) (*QuoteLot, error) {
	if quoteID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Lot must belong to a quote")
	}
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewInvalidValueError("Lot code cannot be empty")
	}
	if strings.TrimSpace(label) == "" {
		return nil, shared.NewInvalidValueError("Lot label cannot be empty")
	}

	return &QuoteLot{
		BaseEntity: shared.NewBaseEntity(),
		QuoteID:    quoteID,
		Code:       strings.TrimSpace(code),
		Label:      strings.TrimSpace(label),
		Order:      order,
		Lines:      make([]QuoteLine, 0),
	}, nil
}

// SetParent turns the lot into a sub-chapter of another lot
func (l *QuoteLot) SetParent(parentID uuid.UUID) error {
	if parentID == uuid.Nil {
		return shared.NewInvalidValueError("Parent lot ID cannot be empty")
	}
	if parentID == l.ID {
		return shared.NewInvalidValueError("Lot cannot be its own parent")
	}
	l.ParentID = &parentID
	l.UpdatedAt = time.Now()
	return nil
}

// SetMargin sets the lot-level margin percentage
func (l *QuoteLot) SetMargin(marginPct decimal.Decimal) error {
	if marginPct.IsNegative() {
		return shared.NewInvalidValueError("Lot margin percentage cannot be negative")
	}
	l.MarginPct = &marginPct
	l.UpdatedAt = time.Now()
	return nil
}

// IsSubChapter returns true when the lot has a parent lot
func (l *QuoteLot) IsSubChapter() bool {
	return l.ParentID != nil
}

// EffectiveMargin resolves the lot's margin: its own when set, otherwise the
// parent's. Returns nil when neither defines one.
func (l *QuoteLot) EffectiveMargin(parent *QuoteLot) *decimal.Decimal {
	if l.MarginPct != nil {
		return l.MarginPct
	}
	if parent != nil {
		return parent.MarginPct
	}
	return nil
}

// TotalHT sums the HT amounts of the lot's lines
func (l *QuoteLot) TotalHT() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.Lines {
		total = total.Add(line.MontantHT)
	}
	return total
}

// TotalTTC sums the TTC amounts of the lot's lines
func (l *QuoteLot) TotalTTC() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.Lines {
		total = total.Add(line.MontantTTC)
	}
	return total
}

// CostSec sums the raw cost of the lot's lines
func (l *QuoteLot) CostSec() decimal.Decimal {
	total := decimal.Zero
	for _, line := range l.Lines {
		total = total.Add(line.CostSec())
	}
	return total
}

// GetLine returns a line by its ID
func (l *QuoteLot) GetLine(lineID uuid.UUID) *QuoteLine {
	for idx := range l.Lines {
		if l.Lines[idx].ID == lineID {
			return &l.Lines[idx]
		}
	}
	return nil
}
