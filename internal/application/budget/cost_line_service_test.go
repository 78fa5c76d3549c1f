package budget

import (
	"context"
	"testing"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCostLineRepository is a mock implementation of CostLineRepository
type MockCostLineRepository struct {
	mock.Mock
}

func (m *MockCostLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.CostLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.CostLine), args.Error(1)
}

func (m *MockCostLineRepository) FindByDevis(ctx context.Context, devisID uuid.UUID) ([]budget.CostLine, error) {
	args := m.Called(ctx, devisID)
	return args.Get(0).([]budget.CostLine), args.Error(1)
}

func (m *MockCostLineRepository) FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]budget.CostLine, error) {
	args := m.Called(ctx, budgetID)
	return args.Get(0).([]budget.CostLine), args.Error(1)
}

func (m *MockCostLineRepository) Save(ctx context.Context, line *budget.CostLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func TestCostLineService_CreateForDevis(t *testing.T) {
	t.Run("creates a study-phase line", func(t *testing.T) {
		repo := new(MockCostLineRepository)
		service := NewCostLineService(repo)
		devisID := uuid.New()
		margin := decimal.NewFromInt(20)

		repo.On("Save", mock.Anything, mock.MatchedBy(func(l *budget.CostLine) bool {
			return l.DevisID != nil && *l.DevisID == devisID && l.BudgetID == nil
		})).Return(nil)

		resp, err := service.CreateForDevis(context.Background(), devisID, CreateDevisCostLineRequest{
			Label:     "Gros oeuvre",
			Labor:     decimal.NewFromInt(5040),
			Materials: decimal.NewFromInt(2970),
			MarginPct: &margin,
		})

		require.NoError(t, err)
		assert.Equal(t, string(budget.PhaseQuote), resp.Phase)
		assert.Equal(t, "Gros oeuvre", resp.Label)
		assert.True(t, decimal.NewFromInt(8010).Equal(resp.CostSec))
		repo.AssertExpectations(t)
	})

	t.Run("rejects negative subtotals", func(t *testing.T) {
		repo := new(MockCostLineRepository)
		service := NewCostLineService(repo)

		_, err := service.CreateForDevis(context.Background(), uuid.New(), CreateDevisCostLineRequest{
			Label: "Gros oeuvre",
			Labor: decimal.NewFromInt(-1),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidValue, domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCostLineService_Listing(t *testing.T) {
	t.Run("lists by devis", func(t *testing.T) {
		repo := new(MockCostLineRepository)
		service := NewCostLineService(repo)
		devisID := uuid.New()

		line, err := budget.NewQuoteCostLine(devisID, "Couverture", budget.CostSubtotals{
			Labor: decimal.NewFromInt(1200),
		}, nil, nil)
		require.NoError(t, err)

		repo.On("FindByDevis", mock.Anything, devisID).Return([]budget.CostLine{*line}, nil)

		lines, err := service.ListByDevis(context.Background(), devisID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Couverture", lines[0].Label)
	})

	t.Run("lists by budget", func(t *testing.T) {
		repo := new(MockCostLineRepository)
		service := NewCostLineService(repo)
		budgetID := uuid.New()

		line, err := budget.NewBudgetCostLine(budgetID, "Couverture")
		require.NoError(t, err)

		repo.On("FindByBudget", mock.Anything, budgetID).Return([]budget.CostLine{*line}, nil)

		lines, err := service.ListByBudget(context.Background(), budgetID)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, string(budget.PhaseBudget), lines[0].Phase)
	})
}
