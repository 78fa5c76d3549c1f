package budget

import (
	"context"

	"github.com/google/uuid"
)

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	// FindByID finds a budget by ID, including its cost lines, amendments,
	// alerts and allocations
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindByChantier finds the budget of a chantier
	FindByChantier(ctx context.Context, chantierID uuid.UUID) (*Budget, error)

	// ExistsByChantier checks whether a chantier already has a budget
	ExistsByChantier(ctx context.Context, chantierID uuid.UUID) (bool, error)

	// FindAll lists budgets with pagination
	FindAll(ctx context.Context, offset, limit int) ([]Budget, error)

	// Count counts all budgets
	Count(ctx context.Context) (int64, error)

	// Save creates or updates a budget with its child collections
	Save(ctx context.Context, budget *Budget) error
}

// CostLineRepository defines the interface for cost line persistence across
// both the quote and budget phases
type CostLineRepository interface {
	// FindByID finds a cost line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CostLine, error)

	// FindByDevis finds the quote-phase cost lines of a devis
	FindByDevis(ctx context.Context, devisID uuid.UUID) ([]CostLine, error)

	// FindByBudget finds the budget-phase cost lines of a budget
	FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]CostLine, error)

	// Save creates or updates a cost line
	Save(ctx context.Context, line *CostLine) error
}
