package budget

import (
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation (affectation tâche-lot) attributes a share of a task's effort to
// a budget cost line within a chantier. The percentage lies in [0, 100].
type Allocation struct {
	shared.BaseEntity
	ChantierID uuid.UUID
	TaskID     uuid.UUID
	CostLineID uuid.UUID
	Percentage decimal.Decimal
}

// TableName returns the table name for GORM
func (Allocation) TableName() string {
	return "task_allocations"
}

// NewAllocation creates a task-to-cost-line allocation
func NewAllocation(chantierID, taskID, costLineID uuid.UUID, percentage decimal.Decimal) (*Allocation, error) {
	if chantierID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Allocation requires a chantier")
	}
	if taskID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Allocation requires a task")
	}
	if costLineID == uuid.Nil {
		return nil, shared.NewInvalidValueError("Allocation requires a cost line")
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewInvalidValueError("Allocation percentage must lie between 0 and 100")
	}

	return &Allocation{
		BaseEntity: shared.NewBaseEntity(),
		ChantierID: chantierID,
		TaskID:     taskID,
		CostLineID: costLineID,
		Percentage: percentage,
	}, nil
}
