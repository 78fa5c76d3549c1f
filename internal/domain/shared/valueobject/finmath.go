package valueobject

import (
	"github.com/shopspring/decimal"
)

// Monetary math kernel. Every derived amount, VAT and margin in the financial
// engine goes through these helpers; no other package re-implements rounding.

// RoundMoney rounds an amount to 2 decimals with the statutory policy:
// half-way values round away from zero (round-half-up), NOT banker's rounding.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundPercent rounds a percentage to 2 decimals with the same policy as amounts
func RoundPercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

var hundred = decimal.NewFromInt(100)

// VAT computes the VAT amount for an HT amount at the given rate (percent).
// The result is rounded before any caller sums it into a TTC total.
func VAT(ht, rate decimal.Decimal) decimal.Decimal {
	return RoundMoney(ht.Mul(rate).Div(hundred))
}

// TTC computes the tax-inclusive amount: HT plus the rounded VAT.
// The VAT is rounded first; rounding the sum as a whole is forbidden.
func TTC(ht, rate decimal.Decimal) decimal.Decimal {
	return ht.Add(VAT(ht, rate))
}

// SiteMargin computes the site margin percentage:
// round((revenueHT - totalCost) / revenueHT * 100).
// The margin is undefined (ok=false) when revenueHT <= 0.
func SiteMargin(revenueHT, totalCost decimal.Decimal) (decimal.Decimal, bool) {
	if revenueHT.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	margin := revenueHT.Sub(totalCost).Div(revenueHT).Mul(hundred)
	return RoundPercent(margin), true
}

// SiteCosts accumulates the cost components of a construction site.
// External-supplier equipment purchases and internally-owned fleet usage are
// strictly segregated accumulators: callers must never fold one into the other.
type SiteCosts struct {
	Labor              decimal.Decimal
	Materials          decimal.Decimal
	Subcontract        decimal.Decimal
	EquipmentPurchases decimal.Decimal // external suppliers
	FleetUsage         decimal.Decimal // internally owned fleet
	Travel             decimal.Decimal
}

// Total sums every accumulator exactly once
func (c SiteCosts) Total() decimal.Decimal {
	return c.Labor.
		Add(c.Materials).
		Add(c.Subcontract).
		Add(c.EquipmentPurchases).
		Add(c.FleetUsage).
		Add(c.Travel)
}

// Margin computes the site margin for these costs against a revenue
func (c SiteCosts) Margin(revenueHT decimal.Decimal) (decimal.Decimal, bool) {
	return SiteMargin(revenueHT, c.Total())
}
