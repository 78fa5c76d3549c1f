package handler

import (
	budgetapp "github.com/chantier/backend/internal/application/budget"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler handles chantier budget API endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService   *budgetapp.BudgetService
	costLineService *budgetapp.CostLineService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *budgetapp.BudgetService, costLineService *budgetapp.CostLineService) *BudgetHandler {
	return &BudgetHandler{
		budgetService:   budgetService,
		costLineService: costLineService,
	}
}

// Create handles POST /budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user is required")
		return
	}

	var req budgetapp.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.budgetService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID handles GET /budgets/:id
func (h *BudgetHandler) GetByID(c *gin.Context) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	resp, err := h.budgetService.GetByID(c.Request.Context(), budgetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByChantier handles GET /budgets/chantier/:chantier_id
func (h *BudgetHandler) GetByChantier(c *gin.Context) {
	chantierID, err := uuid.Parse(c.Param("chantier_id"))
	if err != nil {
		h.BadRequest(c, "Invalid chantier ID format")
		return
	}

	resp, err := h.budgetService.GetByChantier(c.Request.Context(), chantierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update handles PUT /budgets/:id
func (h *BudgetHandler) Update(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req budgetapp.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.budgetService.Update(c.Request.Context(), budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddCostLine handles POST /budgets/:id/cost-lines
func (h *BudgetHandler) AddCostLine(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req budgetapp.AddCostLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.budgetService.AddCostLine(c.Request.Context(), budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateAmendment handles POST /budgets/:id/amendments
func (h *BudgetHandler) CreateAmendment(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req budgetapp.CreateAmendmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.budgetService.CreateAmendment(c.Request.Context(), budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// ValidateAmendment handles POST /budgets/:id/amendments/:amendment_id/validate
func (h *BudgetHandler) ValidateAmendment(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	amendmentID, err := uuid.Parse(c.Param("amendment_id"))
	if err != nil {
		h.BadRequest(c, "Invalid amendment ID format")
		return
	}

	resp, err := h.budgetService.ValidateAmendment(c.Request.Context(), budgetID, amendmentID, authorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// EvaluateThresholds handles POST /budgets/:id/thresholds/evaluate
func (h *BudgetHandler) EvaluateThresholds(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req budgetapp.EvaluateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	alerts, err := h.budgetService.EvaluateThresholds(c.Request.Context(), budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

// AcknowledgeAlert handles POST /budgets/:id/alerts/:alert_id/acknowledge
func (h *BudgetHandler) AcknowledgeAlert(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	alertID, err := uuid.Parse(c.Param("alert_id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID format")
		return
	}

	resp, err := h.budgetService.AcknowledgeAlert(c.Request.Context(), budgetID, alertID, authorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateAllocation handles POST /budgets/:id/allocations
func (h *BudgetHandler) CreateAllocation(c *gin.Context) {
	budgetID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req budgetapp.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.budgetService.CreateAllocation(c.Request.Context(), budgetID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// History handles GET /budgets/:id/history
func (h *BudgetHandler) History(c *gin.Context) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	page, pageSize := pagination(c)
	entries, total, err := h.budgetService.History(c.Request.Context(), budgetID, (page-1)*pageSize, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

func (h *BudgetHandler) bindTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID format")
		return uuid.Nil, uuid.Nil, false
	}

	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user is required")
		return uuid.Nil, uuid.Nil, false
	}

	return budgetID, authorID, true
}

// ListCostLines handles GET /budgets/:id/cost-lines
func (h *BudgetHandler) ListCostLines(c *gin.Context) {
	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget ID")
		return
	}

	lines, err := h.costLineService.ListByBudget(c.Request.Context(), budgetID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lines)
}

// ListDevisCostLines handles GET /devis/:id/cost-lines, the study-phase
// counterpart of ListCostLines
func (h *BudgetHandler) ListDevisCostLines(c *gin.Context) {
	devisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid devis ID")
		return
	}

	lines, err := h.costLineService.ListByDevis(c.Request.Context(), devisID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lines)
}

// CreateDevisCostLine handles POST /devis/:id/cost-lines
func (h *BudgetHandler) CreateDevisCostLine(c *gin.Context) {
	devisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid devis ID")
		return
	}

	var req budgetapp.CreateDevisCostLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.costLineService.CreateForDevis(c.Request.Context(), devisID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// RegisterRoutes registers all budget routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.GET("/:id", h.GetByID)
		budgets.POST("", h.Create)
		budgets.PUT("/:id", h.Update)
		budgets.GET("/:id/cost-lines", h.ListCostLines)
		budgets.POST("/:id/cost-lines", h.AddCostLine)
		budgets.POST("/:id/amendments", h.CreateAmendment)
		budgets.POST("/:id/amendments/:amendment_id/validate", h.ValidateAmendment)
		budgets.POST("/:id/evaluate", h.EvaluateThresholds)
		budgets.POST("/:id/alerts/:alert_id/acknowledge", h.AcknowledgeAlert)
		budgets.POST("/:id/allocations", h.CreateAllocation)
		budgets.GET("/:id/history", h.History)
	}

	rg.GET("/chantiers/:chantier_id/budget", h.GetByChantier)
	rg.GET("/devis/:id/cost-lines", h.ListDevisCostLines)
	rg.POST("/devis/:id/cost-lines", h.CreateDevisCostLine)
}
