package handler

import (
	"time"

	quoteapp "github.com/chantier/backend/internal/application/quote"
	"github.com/chantier/backend/internal/domain/quote"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteHandler handles devis-related API endpoints
type QuoteHandler struct {
	BaseHandler
	quoteService     *quoteapp.QuoteService
	dashboardService *quoteapp.DashboardService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *quoteapp.QuoteService, dashboardService *quoteapp.DashboardService) *QuoteHandler {
	return &QuoteHandler{
		quoteService:     quoteService,
		dashboardService: dashboardService,
	}
}

// ListQuotesQuery captures the search filters of the devis list endpoint
type ListQuotesQuery struct {
	Client       string   `form:"client"`
	Statuses     []string `form:"status"`
	Search       string   `form:"search"`
	MinHT        string   `form:"min_ht"`
	MaxHT        string   `form:"max_ht"`
	CreatedFrom  string   `form:"created_from"`
	CreatedTo    string   `form:"created_to"`
	CommercialID string   `form:"commercial_id"`
	ConducteurID string   `form:"conducteur_id"`
	Page         int      `form:"page" binding:"omitempty,min=1"`
	PageSize     int      `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Create handles POST /devis
func (h *QuoteHandler) Create(c *gin.Context) {
	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user is required")
		return
	}

	var req quoteapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.quoteService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID handles GET /devis/:id
func (h *QuoteHandler) GetByID(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid devis ID format")
		return
	}

	resp, err := h.quoteService.GetByID(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /devis
func (h *QuoteHandler) List(c *gin.Context) {
	var query ListQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotes, total, err := h.quoteService.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotes, total, query.Page, query.PageSize)
}

// Dashboard handles GET /devis/dashboard
func (h *QuoteHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// AddLot handles POST /devis/:id/lots
func (h *QuoteHandler) AddLot(c *gin.Context) {
	quoteID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req quoteapp.AddLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.quoteService.AddLot(c.Request.Context(), quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// AddLine handles POST /devis/:id/lines
func (h *QuoteHandler) AddLine(c *gin.Context) {
	quoteID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req quoteapp.AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.quoteService.AddLine(c.Request.Context(), quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// AddCostEntry handles POST /devis/:id/cost-entries
func (h *QuoteHandler) AddCostEntry(c *gin.Context) {
	quoteID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req quoteapp.AddCostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.quoteService.AddCostEntry(c.Request.Context(), quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Transition handles POST /devis/:id/transition
func (h *QuoteHandler) Transition(c *gin.Context) {
	quoteID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req quoteapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID
	if req.Role == "" {
		req.Role = getUserRole(c)
	}

	resp, err := h.quoteService.Transition(c.Request.Context(), quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// AssignResponsible handles PUT /devis/:id/responsibles
func (h *QuoteHandler) AssignResponsible(c *gin.Context) {
	quoteID, authorID, ok := h.bindTarget(c)
	if !ok {
		return
	}

	var req quoteapp.AssignResponsibleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.AuthorID = authorID

	resp, err := h.quoteService.AssignResponsible(c.Request.Context(), quoteID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RenderPDF handles GET /devis/:id/pdf. The rendered document is the client
// view: internal costs and margins never appear in it.
func (h *QuoteHandler) RenderPDF(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid devis ID format")
		return
	}

	pdf, err := h.quoteService.RenderClientPDF(c.Request.Context(), quoteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Data(200, "application/pdf", pdf)
}

// History handles GET /devis/:id/history
func (h *QuoteHandler) History(c *gin.Context) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid devis ID format")
		return
	}

	page, pageSize := pagination(c)
	entries, total, err := h.quoteService.History(c.Request.Context(), quoteID, (page-1)*pageSize, pageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// bindTarget parses the devis ID path parameter and the acting user
func (h *QuoteHandler) bindTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	quoteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid devis ID format")
		return uuid.Nil, uuid.Nil, false
	}

	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user is required")
		return uuid.Nil, uuid.Nil, false
	}

	return quoteID, authorID, true
}

func (q ListQuotesQuery) toFilter() (quote.SearchFilter, error) {
	filter := quote.SearchFilter{
		ClientName: q.Client,
		Search:     q.Search,
		Offset:     (q.Page - 1) * q.PageSize,
		Limit:      q.PageSize,
	}

	for _, s := range q.Statuses {
		status := quote.QuoteStatus(s)
		if !status.IsValid() {
			return filter, &invalidQueryError{field: "status", value: s}
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if q.MinHT != "" {
		min, err := decimal.NewFromString(q.MinHT)
		if err != nil {
			return filter, &invalidQueryError{field: "min_ht", value: q.MinHT}
		}
		filter.MinHT = &min
	}
	if q.MaxHT != "" {
		max, err := decimal.NewFromString(q.MaxHT)
		if err != nil {
			return filter, &invalidQueryError{field: "max_ht", value: q.MaxHT}
		}
		filter.MaxHT = &max
	}

	if q.CreatedFrom != "" {
		from, err := time.Parse(time.RFC3339, q.CreatedFrom)
		if err != nil {
			return filter, &invalidQueryError{field: "created_from", value: q.CreatedFrom}
		}
		filter.CreatedFrom = &from
	}
	if q.CreatedTo != "" {
		to, err := time.Parse(time.RFC3339, q.CreatedTo)
		if err != nil {
			return filter, &invalidQueryError{field: "created_to", value: q.CreatedTo}
		}
		filter.CreatedTo = &to
	}

	if q.CommercialID != "" {
		id, err := uuid.Parse(q.CommercialID)
		if err != nil {
			return filter, &invalidQueryError{field: "commercial_id", value: q.CommercialID}
		}
		filter.CommercialID = &id
	}
	if q.ConducteurID != "" {
		id, err := uuid.Parse(q.ConducteurID)
		if err != nil {
			return filter, &invalidQueryError{field: "conducteur_id", value: q.ConducteurID}
		}
		filter.ConducteurID = &id
	}

	return filter, nil
}

type invalidQueryError struct {
	field string
	value string
}

func (e *invalidQueryError) Error() string {
	return "invalid value for " + e.field + ": " + e.value
}

// RegisterRoutes registers all devis routes
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	devis := rg.Group("/devis")
	{
		devis.GET("", h.List)
		devis.GET("/dashboard", h.Dashboard)
		devis.GET("/:id", h.GetByID)
		devis.POST("", h.Create)
		devis.POST("/:id/lots", h.AddLot)
		devis.POST("/:id/lines", h.AddLine)
		devis.POST("/:id/cost-entries", h.AddCostEntry)
		devis.POST("/:id/transition", h.Transition)
		devis.PUT("/:id/responsibles", h.AssignResponsible)
		devis.GET("/:id/pdf", h.RenderPDF)
		devis.GET("/:id/history", h.History)
	}
}
