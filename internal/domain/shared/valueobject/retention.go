package valueobject

import (
	"fmt"

	"github.com/chantier/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RetentionRateCap is the statutory maximum garantee retention rate (percent)
const RetentionRateCap = 5

// GaranteeRetention is a value object wrapping the statutory holdback
// percentage retained on a contract until the defect-warranty period expires.
// French construction law caps the rate at 5%; the only admitted values are
// 0 (no retention) and 5. Legacy data sometimes carried 10, which is rejected.
type GaranteeRetention struct {
	rate int
}

// NewGaranteeRetention creates a retention from a rate in percent.
// Only 0 and 5 are legal values.
func NewGaranteeRetention(rate int) (GaranteeRetention, error) {
	if rate != 0 && rate != RetentionRateCap {
		return GaranteeRetention{}, shared.NewInvalidValueError(
			fmt.Sprintf("Retention rate must be 0 or %d percent, got %d", RetentionRateCap, rate))
	}
	return GaranteeRetention{rate: rate}, nil
}

// NoRetention returns the zero-rate retention
func NoRetention() GaranteeRetention {
	return GaranteeRetention{rate: 0}
}

// Rate returns the retention rate in percent
func (g GaranteeRetention) Rate() int {
	return g.rate
}

// IsZero returns true when no retention applies
func (g GaranteeRetention) IsZero() bool {
	return g.rate == 0
}

// AmountOn computes the retained amount on an HT total.
// The retention is always computed on the HT total, never on the TTC.
func (g GaranteeRetention) AmountOn(totalHT decimal.Decimal) decimal.Decimal {
	return RoundMoney(decimal.NewFromInt(int64(g.rate)).Div(hundred).Mul(totalHT))
}

// NetPayable computes the amount payable after retention: TTC minus the
// retention computed on the HT total.
func (g GaranteeRetention) NetPayable(totalTTC, totalHT decimal.Decimal) decimal.Decimal {
	return totalTTC.Sub(g.AmountOn(totalHT))
}

// Equals compares two retentions by rate
func (g GaranteeRetention) Equals(other GaranteeRetention) bool {
	return g.rate == other.rate
}

// String returns the rate as a display string
func (g GaranteeRetention) String() string {
	return fmt.Sprintf("%d%%", g.rate)
}
