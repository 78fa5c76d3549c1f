package budget

import (
	"context"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/chantier/backend/internal/domain/journal"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAlertThresholdPct is applied when a budget is created without an
// explicit alert threshold
var DefaultAlertThresholdPct = decimal.NewFromInt(80)

// BudgetService handles budget-related business operations
type BudgetService struct {
	budgetRepo     budget.BudgetRepository
	journalRepo    journal.EntryRepository
	eventPublisher shared.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo budget.BudgetRepository, journalRepo journal.EntryRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		journalRepo: journalRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BudgetService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates the budget of a chantier. A chantier has at most one budget.
func (s *BudgetService) Create(ctx context.Context, req CreateBudgetRequest) (*BudgetResponse, error) {
	exists, err := s.budgetRepo.ExistsByChantier(ctx, req.ChantierID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "This chantier already has a budget")
	}

	retentionPct := 0
	if req.RetentionPct != nil {
		retentionPct = *req.RetentionPct
	}
	alertThreshold := DefaultAlertThresholdPct
	if req.AlertThresholdPct != nil {
		alertThreshold = *req.AlertThresholdPct
	}
	purchaseThreshold := decimal.Zero
	if req.PurchaseValidationThreshold != nil {
		purchaseThreshold = *req.PurchaseValidationThreshold
	}

	b, err := budget.NewBudget(req.ChantierID, req.InitialHT, retentionPct, alertThreshold, purchaseThreshold)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, b.ID, "creation", req.AuthorID, nil, map[string]string{
		"chantier_id":        b.ChantierID.String(),
		"montant_initial_ht": b.InitialHT.StringFixed(2),
	}, ""); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, b)

	resp := ToBudgetResponse(b)
	return &resp, nil
}

// GetByID retrieves a budget by ID
func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

// GetByChantier retrieves the budget of a chantier
func (s *BudgetService) GetByChantier(ctx context.Context, chantierID uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByChantier(ctx, chantierID)
	if err != nil {
		return nil, err
	}
	resp := ToBudgetResponse(b)
	return &resp, nil
}

// Update applies a partial field update. One journal entry and one event are
// produced per actually-changed field.
func (s *BudgetService) Update(ctx context.Context, budgetID uuid.UUID, req UpdateBudgetRequest) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	changes, err := b.Update(budget.Changes{
		InitialHT:                   req.InitialHT,
		RetentionPct:                req.RetentionPct,
		AlertThresholdPct:           req.AlertThresholdPct,
		PurchaseValidationThreshold: req.PurchaseValidationThreshold,
	})
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := s.budgetRepo.Save(ctx, b); err != nil {
			return nil, err
		}
		for _, change := range changes {
			if err := s.appendJournal(ctx, b.ID, "modification", req.AuthorID,
				map[string]string{change.Field: change.Old},
				map[string]string{change.Field: change.New}, ""); err != nil {
				return nil, err
			}
		}
		s.publishEvents(ctx, b)
	}

	resp := ToBudgetResponse(b)
	return &resp, nil
}

// AddCostLine adds a budget-phase cost line to a budget
func (s *BudgetService) AddCostLine(ctx context.Context, budgetID uuid.UUID, req AddCostLineRequest) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	line, err := budget.NewBudgetCostLine(b.ID, req.Label)
	if err != nil {
		return nil, err
	}
	if err := b.AddCostLine(line); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, b.ID, "ajout_lot_budgetaire", req.AuthorID, nil, map[string]string{
		"label": line.Label,
	}, ""); err != nil {
		return nil, err
	}

	resp := ToBudgetResponse(b)
	return &resp, nil
}

// CreateAmendment creates a draft amendment on a budget
func (s *BudgetService) CreateAmendment(ctx context.Context, budgetID uuid.UUID, req CreateAmendmentRequest) (*AmendmentResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	amendment, err := b.CreateAmendment(req.Number, req.Motive, req.AmountHT, req.Impact)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, b.ID, "creation_avenant", req.AuthorID, nil, map[string]string{
		"numero":     amendment.Number,
		"montant_ht": amendment.AmountHT.StringFixed(2),
		"motif":      amendment.Motive,
	}, req.Motive); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, b)

	resp := ToAmendmentResponse(amendment)
	return &resp, nil
}

// ValidateAmendment finalizes an amendment. Validation is one-way.
func (s *BudgetService) ValidateAmendment(ctx context.Context, budgetID, amendmentID uuid.UUID, authorID uuid.UUID) (*AmendmentResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	amendment, err := b.ValidateAmendment(amendmentID, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, b.ID, "validation_avenant", authorID,
		map[string]string{"status": string(budget.AmendmentDraft)},
		map[string]string{
			"status":             string(amendment.Status),
			"nouveau_montant_ht": b.CurrentAmount().StringFixed(2),
		}, ""); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, b)

	resp := ToAmendmentResponse(amendment)
	return &resp, nil
}

// EvaluateThresholds checks spend against the alert threshold, raising the
// missing alerts
func (s *BudgetService) EvaluateThresholds(ctx context.Context, budgetID uuid.UUID, req EvaluateThresholdsRequest) ([]AlertResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	raised, err := b.EvaluateThresholds(req.EngagedHT, req.RealizedHT)
	if err != nil {
		return nil, err
	}

	responses := make([]AlertResponse, 0, len(raised))
	if len(raised) > 0 {
		if err := s.budgetRepo.Save(ctx, b); err != nil {
			return nil, err
		}
		for i := range raised {
			if err := s.appendJournal(ctx, b.ID, "alerte_seuil", req.AuthorID, nil, map[string]string{
				"type":        string(raised[i].Type),
				"pct_atteint": raised[i].PctReached.StringFixed(2),
			}, ""); err != nil {
				return nil, err
			}
			responses = append(responses, ToAlertResponse(&raised[i]))
		}
		s.publishEvents(ctx, b)
	}

	return responses, nil
}

// AcknowledgeAlert acknowledges an alert. Acknowledgment is one-way.
func (s *BudgetService) AcknowledgeAlert(ctx context.Context, budgetID, alertID uuid.UUID, authorID uuid.UUID) (*AlertResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	alert, err := b.AcknowledgeAlert(alertID, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, b.ID, "acquittement_alerte", authorID, nil, map[string]string{
		"type": string(alert.Type),
	}, ""); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, b)

	resp := ToAlertResponse(alert)
	return &resp, nil
}

// CreateAllocation allocates a share of a task's effort to a cost line
func (s *BudgetService) CreateAllocation(ctx context.Context, budgetID uuid.UUID, req CreateAllocationRequest) (*AllocationResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	allocation, err := b.AddAllocation(req.TaskID, req.CostLineID, req.Percentage)
	if err != nil {
		return nil, err
	}

	if err := s.budgetRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.appendJournal(ctx, b.ID, "affectation_tache", req.AuthorID, nil, map[string]string{
		"task_id":      allocation.TaskID.String(),
		"cost_line_id": allocation.CostLineID.String(),
		"pourcentage":  allocation.Percentage.StringFixed(2),
	}, ""); err != nil {
		return nil, err
	}

	resp := AllocationResponse{
		ID:         allocation.ID,
		TaskID:     allocation.TaskID,
		CostLineID: allocation.CostLineID,
		Percentage: allocation.Percentage,
	}
	return &resp, nil
}

// History lists the journal entries of a budget, most recent first
func (s *BudgetService) History(ctx context.Context, budgetID uuid.UUID, offset, limit int) ([]journal.Entry, int64, error) {
	entries, err := s.journalRepo.FindByEntity(ctx, journal.EntityBudget, budgetID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.journalRepo.CountByEntity(ctx, journal.EntityBudget, budgetID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *BudgetService) appendJournal(ctx context.Context, budgetID uuid.UUID, action string, authorID uuid.UUID, oldValues, newValues map[string]string, motive string) error {
	entry, err := journal.NewEntry(journal.EntityBudget, budgetID, action, authorID, oldValues, newValues, motive, nil)
	if err != nil {
		return err
	}
	return s.journalRepo.Append(ctx, entry)
}

func (s *BudgetService) publishEvents(ctx context.Context, b *budget.Budget) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range b.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			continue
		}
	}
	b.ClearDomainEvents()
}
