package quote

import (
	"github.com/shopspring/decimal"
)

// LaborDetail preserves the display fields of a single LABOR entry inside a
// cost breakdown
type LaborDetail struct {
	Trade      string          `json:"trade"`
	Hours      decimal.Decimal `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Total      decimal.Decimal `json:"total"`
}

// CostBreakdown is the decomposition of a set of cost entries into one total
// per category plus the cost-sec (the sum of all category totals, before any
// margin is applied)
type CostBreakdown struct {
	Labor        decimal.Decimal `json:"total_labor"`
	Materials    decimal.Decimal `json:"total_materials"`
	Subcontract  decimal.Decimal `json:"total_subcontract"`
	Equipment    decimal.Decimal `json:"total_equipment"`
	Travel       decimal.Decimal `json:"total_travel"`
	CostSec      decimal.Decimal `json:"cost_sec"`
	LaborDetails []LaborDetail   `json:"labor_details,omitempty"`
}

// ByCategory returns the total for one category
func (b CostBreakdown) ByCategory(category CostCategory) decimal.Decimal {
	switch category {
	case CostCategoryLabor:
		return b.Labor
	case CostCategoryMaterials:
		return b.Materials
	case CostCategorySubcontract:
		return b.Subcontract
	case CostCategoryEquipment:
		return b.Equipment
	case CostCategoryTravel:
		return b.Travel
	}
	return decimal.Zero
}

// Decompose groups cost entries by category and sums their totals.
// It is a pure fold over the input: no entry is counted twice, and the result
// reflects exactly the entries passed in, with no caching across calls.
func Decompose(entries []CostEntry) CostBreakdown {
	breakdown := CostBreakdown{
		Labor:       decimal.Zero,
		Materials:   decimal.Zero,
		Subcontract: decimal.Zero,
		Equipment:   decimal.Zero,
		Travel:      decimal.Zero,
		CostSec:     decimal.Zero,
	}

	for _, entry := range entries {
		total := entry.Total()
		switch entry.Category {
		case CostCategoryLabor:
			breakdown.Labor = breakdown.Labor.Add(total)
			breakdown.LaborDetails = append(breakdown.LaborDetails, LaborDetail{
				Trade:      entry.Trade,
				Hours:      entry.Quantity,
				HourlyRate: entry.HourlyRate,
				Total:      total,
			})
		case CostCategoryMaterials:
			breakdown.Materials = breakdown.Materials.Add(total)
		case CostCategorySubcontract:
			breakdown.Subcontract = breakdown.Subcontract.Add(total)
		case CostCategoryEquipment:
			breakdown.Equipment = breakdown.Equipment.Add(total)
		case CostCategoryTravel:
			breakdown.Travel = breakdown.Travel.Add(total)
		}
		breakdown.CostSec = breakdown.CostSec.Add(total)
	}

	return breakdown
}
