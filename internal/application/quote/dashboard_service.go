package quote

import (
	"context"

	"github.com/chantier/backend/internal/domain/quote"
)

// DashboardService computes the commercial pipeline figures
type DashboardService struct {
	quoteRepo quote.QuoteRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(quoteRepo quote.QuoteRepository) *DashboardService {
	return &DashboardService{quoteRepo: quoteRepo}
}

// Stats aggregates per-status counts and HT sums into the dashboard figures
func (s *DashboardService) Stats(ctx context.Context) (*quote.DashboardStats, error) {
	counts, err := s.quoteRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	sums, err := s.quoteRepo.SumHTByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := quote.ComputeDashboard(counts, sums)
	return &stats, nil
}
