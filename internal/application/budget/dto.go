package budget

import (
	"time"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest represents a request to create a chantier budget
type CreateBudgetRequest struct {
	ChantierID                  uuid.UUID        `json:"chantier_id" binding:"required"`
	InitialHT                   decimal.Decimal  `json:"montant_initial_ht" binding:"required"`
	RetentionPct                *int             `json:"retenue_garantie_pct"`
	AlertThresholdPct           *decimal.Decimal `json:"seuil_alerte_pct"`
	PurchaseValidationThreshold *decimal.Decimal `json:"seuil_validation_achat"`
	AuthorID                    uuid.UUID        `json:"-"`
}

// UpdateBudgetRequest represents a partial update of a budget's fields
type UpdateBudgetRequest struct {
	InitialHT                   *decimal.Decimal `json:"montant_initial_ht"`
	RetentionPct                *int             `json:"retenue_garantie_pct"`
	AlertThresholdPct           *decimal.Decimal `json:"seuil_alerte_pct"`
	PurchaseValidationThreshold *decimal.Decimal `json:"seuil_validation_achat"`
	AuthorID                    uuid.UUID        `json:"-"`
}

// CreateAmendmentRequest represents a request to create a draft amendment
type CreateAmendmentRequest struct {
	Number   string          `json:"number" binding:"required,min=1,max=50"`
	Motive   string          `json:"motive" binding:"required,min=1,max=500"`
	AmountHT decimal.Decimal `json:"montant_ht" binding:"required"`
	Impact   string          `json:"impact" binding:"max=500"`
	AuthorID uuid.UUID       `json:"-"`
}

// AddCostLineRequest represents a request to add a budget-phase cost line
type AddCostLineRequest struct {
	Label    string    `json:"label" binding:"required,min=1,max=200"`
	AuthorID uuid.UUID `json:"-"`
}

// CreateDevisCostLineRequest represents a request to add a study-phase cost
// line to a devis, with its five cost-category subtotals
type CreateDevisCostLineRequest struct {
	Label       string           `json:"label" binding:"required,min=1,max=200"`
	Labor       decimal.Decimal  `json:"labor"`
	Materials   decimal.Decimal  `json:"materials"`
	Subcontract decimal.Decimal  `json:"subcontract"`
	Equipment   decimal.Decimal  `json:"equipment"`
	Misc        decimal.Decimal  `json:"misc"`
	MarginPct   *decimal.Decimal `json:"margin_pct,omitempty"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
}

// CreateAllocationRequest represents a request to allocate a task to a cost line
type CreateAllocationRequest struct {
	TaskID     uuid.UUID       `json:"task_id" binding:"required"`
	CostLineID uuid.UUID       `json:"cost_line_id" binding:"required"`
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
	AuthorID   uuid.UUID       `json:"-"`
}

// EvaluateThresholdsRequest carries the spend figures to check against the
// budget's alert threshold
type EvaluateThresholdsRequest struct {
	EngagedHT  decimal.Decimal `json:"montant_engage_ht"`
	RealizedHT decimal.Decimal `json:"montant_realise_ht"`
	AuthorID   uuid.UUID       `json:"-"`
}

// AmendmentResponse represents an amendment in API responses
type AmendmentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Motive      string          `json:"motive"`
	AmountHT    decimal.Decimal `json:"montant_ht"`
	Impact      string          `json:"impact,omitempty"`
	Status      string          `json:"status"`
	ValidatedBy *uuid.UUID      `json:"validated_by,omitempty"`
	ValidatedAt *time.Time      `json:"validated_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AlertResponse represents an alert in API responses
type AlertResponse struct {
	ID             uuid.UUID       `json:"id"`
	Type           string          `json:"type"`
	Message        string          `json:"message"`
	PctReached     decimal.Decimal `json:"pct_reached"`
	ThresholdPct   decimal.Decimal `json:"threshold_pct"`
	AcknowledgedBy *uuid.UUID      `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time      `json:"acknowledged_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CostLineResponse represents a cost line in API responses
type CostLineResponse struct {
	ID        uuid.UUID            `json:"id"`
	Phase     string               `json:"phase"`
	Label     string               `json:"label"`
	Subtotals budget.CostSubtotals `json:"subtotals"`
	CostSec   decimal.Decimal      `json:"cost_sec"`
	MarginPct *decimal.Decimal     `json:"margin_pct,omitempty"`
	SalePrice *decimal.Decimal     `json:"sale_price,omitempty"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID         uuid.UUID       `json:"id"`
	TaskID     uuid.UUID       `json:"task_id"`
	CostLineID uuid.UUID       `json:"cost_line_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID                          uuid.UUID            `json:"id"`
	ChantierID                  uuid.UUID            `json:"chantier_id"`
	InitialHT                   decimal.Decimal      `json:"montant_initial_ht"`
	CurrentHT                   decimal.Decimal      `json:"montant_actuel_ht"`
	RetentionPct                int                  `json:"retenue_garantie_pct"`
	AlertThresholdPct           decimal.Decimal      `json:"seuil_alerte_pct"`
	PurchaseValidationThreshold decimal.Decimal      `json:"seuil_validation_achat"`
	CostLines                   []CostLineResponse   `json:"cost_lines"`
	Amendments                  []AmendmentResponse  `json:"amendments"`
	Alerts                      []AlertResponse      `json:"alerts"`
	Allocations                 []AllocationResponse `json:"allocations"`
	CreatedAt                   time.Time            `json:"created_at"`
	UpdatedAt                   time.Time            `json:"updated_at"`
}

// ToBudgetResponse converts a budget aggregate to its API view
func ToBudgetResponse(b *budget.Budget) BudgetResponse {
	costLines := make([]CostLineResponse, 0, len(b.CostLines))
	for i := range b.CostLines {
		costLines = append(costLines, ToCostLineResponse(&b.CostLines[i]))
	}
	amendments := make([]AmendmentResponse, 0, len(b.Amendments))
	for i := range b.Amendments {
		amendments = append(amendments, ToAmendmentResponse(&b.Amendments[i]))
	}
	alerts := make([]AlertResponse, 0, len(b.Alerts))
	for i := range b.Alerts {
		alerts = append(alerts, ToAlertResponse(&b.Alerts[i]))
	}
	allocations := make([]AllocationResponse, 0, len(b.Allocations))
	for i := range b.Allocations {
		a := &b.Allocations[i]
		allocations = append(allocations, AllocationResponse{
			ID:         a.ID,
			TaskID:     a.TaskID,
			CostLineID: a.CostLineID,
			Percentage: a.Percentage,
		})
	}

	return BudgetResponse{
		ID:                          b.ID,
		ChantierID:                  b.ChantierID,
		InitialHT:                   b.InitialHT,
		CurrentHT:                   b.CurrentAmount(),
		RetentionPct:                b.RetentionPct,
		AlertThresholdPct:           b.AlertThresholdPct,
		PurchaseValidationThreshold: b.PurchaseValidationThreshold,
		CostLines:                   costLines,
		Amendments:                  amendments,
		Alerts:                      alerts,
		Allocations:                 allocations,
		CreatedAt:                   b.CreatedAt,
		UpdatedAt:                   b.UpdatedAt,
	}
}

// ToAmendmentResponse converts an amendment to its API view
func ToAmendmentResponse(a *budget.Amendment) AmendmentResponse {
	return AmendmentResponse{
		ID:          a.ID,
		Number:      a.Number,
		Motive:      a.Motive,
		AmountHT:    a.AmountHT,
		Impact:      a.Impact,
		Status:      string(a.Status),
		ValidatedBy: a.ValidatedBy,
		ValidatedAt: a.ValidatedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAlertResponse converts an alert to its API view
func ToAlertResponse(a *budget.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		Type:           string(a.Type),
		Message:        a.Message,
		PctReached:     a.PctReached,
		ThresholdPct:   a.ThresholdPct,
		AcknowledgedBy: a.AcknowledgedBy,
		AcknowledgedAt: a.AcknowledgedAt,
		CreatedAt:      a.CreatedAt,
	}
}

// ToCostLineResponse converts a cost line to its API view
func ToCostLineResponse(l *budget.CostLine) CostLineResponse {
	return CostLineResponse{
		ID:        l.ID,
		Phase:     string(l.Phase()),
		Label:     l.Label,
		Subtotals: l.Subtotals,
		CostSec:   l.CostSecTotal(),
		MarginPct: l.MarginPct,
		SalePrice: l.SalePrice,
	}
}
