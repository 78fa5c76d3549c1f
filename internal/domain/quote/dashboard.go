package quote

import (
	"github.com/chantier/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DashboardStats is the commercial pipeline summary derived from per-status
// counts and HT sums
type DashboardStats struct {
	PipelineHT     decimal.Decimal `json:"pipeline_ht"`
	AcceptedHT     decimal.Decimal `json:"accepted_ht"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

// pipelineStatuses are the in-flight statuses counted in the pipeline total
var pipelineStatuses = []QuoteStatus{StatusEnValidation, StatusEnvoye, StatusVu, StatusEnNegociation}

// ComputeDashboard folds per-status counts and HT sums into the dashboard
// stats. The conversion rate is accepted / (accepted + refused + lost),
// rounded to 2 decimals, and 0.00 when no quote has been decided.
func ComputeDashboard(counts map[QuoteStatus]int64, sumsHT map[QuoteStatus]decimal.Decimal) DashboardStats {
	pipeline := decimal.Zero
	for _, status := range pipelineStatuses {
		if sum, ok := sumsHT[status]; ok {
			pipeline = pipeline.Add(sum)
		}
	}

	accepted := counts[StatusAccepte]
	decided := accepted + counts[StatusRefuse] + counts[StatusPerdu]

	rate := decimal.Zero
	if decided > 0 {
		rate = valueobject.RoundPercent(
			decimal.NewFromInt(accepted).
				Div(decimal.NewFromInt(decided)).
				Mul(decimal.NewFromInt(100)))
	}

	return DashboardStats{
		PipelineHT:     pipeline,
		AcceptedHT:     sumsHT[StatusAccepte],
		ConversionRate: rate,
	}
}
