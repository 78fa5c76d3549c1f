package budget

import (
	"context"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/google/uuid"
)

// CostLineService exposes cost line queries across both phases of a chantier:
// the study phase attached to a devis and the execution phase attached to a
// budget
type CostLineService struct {
	costLineRepo budget.CostLineRepository
}

// NewCostLineService creates a new CostLineService
func NewCostLineService(costLineRepo budget.CostLineRepository) *CostLineService {
	return &CostLineService{costLineRepo: costLineRepo}
}

// CreateForDevis adds a study-phase cost line to a devis
func (s *CostLineService) CreateForDevis(ctx context.Context, devisID uuid.UUID, req CreateDevisCostLineRequest) (*CostLineResponse, error) {
	subtotals := budget.CostSubtotals{
		Labor:       req.Labor,
		Materials:   req.Materials,
		Subcontract: req.Subcontract,
		Equipment:   req.Equipment,
		Misc:        req.Misc,
	}

	line, err := budget.NewQuoteCostLine(devisID, req.Label, subtotals, req.MarginPct, req.SalePrice)
	if err != nil {
		return nil, err
	}

	if err := s.costLineRepo.Save(ctx, line); err != nil {
		return nil, err
	}

	resp := ToCostLineResponse(line)
	return &resp, nil
}

// GetByID returns a single cost line
func (s *CostLineService) GetByID(ctx context.Context, id uuid.UUID) (*CostLineResponse, error) {
	line, err := s.costLineRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCostLineResponse(line)
	return &resp, nil
}

// ListByDevis returns the study-phase cost lines of a devis
func (s *CostLineService) ListByDevis(ctx context.Context, devisID uuid.UUID) ([]CostLineResponse, error) {
	lines, err := s.costLineRepo.FindByDevis(ctx, devisID)
	if err != nil {
		return nil, err
	}
	return toCostLineResponses(lines), nil
}

// ListByBudget returns the execution-phase cost lines of a budget
func (s *CostLineService) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]CostLineResponse, error) {
	lines, err := s.costLineRepo.FindByBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	return toCostLineResponses(lines), nil
}

func toCostLineResponses(lines []budget.CostLine) []CostLineResponse {
	out := make([]CostLineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, ToCostLineResponse(&lines[i]))
	}
	return out
}
