package persistence

import (
	"context"
	"errors"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByID finds a budget by ID with its cost lines, amendments, alerts and
// allocations
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	var b budget.Budget
	if err := r.preloaded(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByChantier finds the budget of a chantier
func (r *GormBudgetRepository) FindByChantier(ctx context.Context, chantierID uuid.UUID) (*budget.Budget, error) {
	var b budget.Budget
	if err := r.preloaded(ctx).Where("chantier_id = ?", chantierID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ExistsByChantier checks whether a chantier already has a budget
func (r *GormBudgetRepository) ExistsByChantier(ctx context.Context, chantierID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&budget.Budget{}).
		Where("chantier_id = ?", chantierID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists budgets with pagination, most recent first
func (r *GormBudgetRepository) FindAll(ctx context.Context, offset, limit int) ([]budget.Budget, error) {
	var budgets []budget.Budget
	query := r.preloaded(ctx).Order("created_at DESC")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// Count counts all budgets
func (r *GormBudgetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&budget.Budget{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a budget with its child collections. Amendments,
// alerts and allocations are append-oriented in the domain, but the same
// orphan cleanup as quote children keeps the tree mirrored either way.
func (r *GormBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("CostLines", "Amendments", "Alerts", "Allocations").Save(b).Error; err != nil {
			return err
		}

		lineIDs := make([]uuid.UUID, len(b.CostLines))
		for i := range b.CostLines {
			lineIDs[i] = b.CostLines[i].ID
		}
		if err := deleteOrphans(tx, &budget.CostLine{}, "budget_id = ?", b.ID, lineIDs); err != nil {
			return err
		}
		for i := range b.CostLines {
			if err := tx.Save(&b.CostLines[i]).Error; err != nil {
				return err
			}
		}

		for i := range b.Amendments {
			b.Amendments[i].BudgetID = b.ID
			if err := tx.Save(&b.Amendments[i]).Error; err != nil {
				return err
			}
		}

		for i := range b.Alerts {
			b.Alerts[i].BudgetID = b.ID
			if err := tx.Save(&b.Alerts[i]).Error; err != nil {
				return err
			}
		}

		for i := range b.Allocations {
			b.Allocations[i].ChantierID = b.ChantierID
			if err := tx.Save(&b.Allocations[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *GormBudgetRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("CostLines").
		Preload("Amendments", func(db *gorm.DB) *gorm.DB { return db.Order("budget_amendments.number ASC") }).
		Preload("Alerts", func(db *gorm.DB) *gorm.DB { return db.Order("budget_alerts.created_at ASC") }).
		Preload("Allocations")
}

// GormCostLineRepository implements CostLineRepository using GORM
type GormCostLineRepository struct {
	db *gorm.DB
}

// NewGormCostLineRepository creates a new GormCostLineRepository
func NewGormCostLineRepository(db *gorm.DB) *GormCostLineRepository {
	return &GormCostLineRepository{db: db}
}

// FindByID finds a cost line by ID
func (r *GormCostLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.CostLine, error) {
	var line budget.CostLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindByDevis finds the quote-phase cost lines of a devis
func (r *GormCostLineRepository) FindByDevis(ctx context.Context, devisID uuid.UUID) ([]budget.CostLine, error) {
	var lines []budget.CostLine
	if err := r.db.WithContext(ctx).
		Where("devis_id = ?", devisID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByBudget finds the budget-phase cost lines of a budget
func (r *GormCostLineRepository) FindByBudget(ctx context.Context, budgetID uuid.UUID) ([]budget.CostLine, error) {
	var lines []budget.CostLine
	if err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Save creates or updates a cost line
func (r *GormCostLineRepository) Save(ctx context.Context, line *budget.CostLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// Ensure the GORM repositories implement their domain ports
var (
	_ budget.BudgetRepository   = (*GormBudgetRepository)(nil)
	_ budget.CostLineRepository = (*GormCostLineRepository)(nil)
)
