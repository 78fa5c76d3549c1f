package handler

import (
	"context"

	catalogapp "github.com/chantier/backend/internal/application/catalog"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/chantier/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ArticleHandler handles price catalog API endpoints
type ArticleHandler struct {
	BaseHandler
	articleService *catalogapp.ArticleService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *catalogapp.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ListArticlesQuery captures the catalog list filters
type ListArticlesQuery struct {
	dto.ListRequest
	Active   *bool  `form:"active"`
	Category string `form:"category"`
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req catalogapp.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.articleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID handles GET /articles/:id
func (h *ArticleHandler) GetByID(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid article ID format")
		return
	}

	resp, err := h.articleService.GetByID(c.Request.Context(), articleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	var query ListArticlesQuery
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

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
		Filters:  map[string]interface{}{},
	}
	if query.Active != nil {
		filter.Filters["active"] = *query.Active
	}
	if query.Category != "" {
		filter.Filters["category"] = query.Category
	}

	articles, total, err := h.articleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, articles, total, query.Page, query.PageSize)
}

// Update handles PUT /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid article ID format")
		return
	}

	var req catalogapp.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.articleService.Update(c.Request.Context(), articleID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Deactivate handles POST /articles/:id/deactivate
func (h *ArticleHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.articleService.Deactivate)
}

// Reactivate handles POST /articles/:id/reactivate
func (h *ArticleHandler) Reactivate(c *gin.Context) {
	h.toggle(c, h.articleService.Reactivate)
}

// Delete handles DELETE /articles/:id. Articles are soft-deleted so that
// historical quotes keep resolving their references.
func (h *ArticleHandler) Delete(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid article ID format")
		return
	}

	authorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Acting user is required")
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), articleID, authorID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ArticleHandler) toggle(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*catalogapp.ArticleResponse, error)) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid article ID format")
		return
	}

	resp, err := op(c.Request.Context(), articleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers all catalog article routes
func (h *ArticleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	articles := rg.Group("/articles")
	{
		articles.GET("", h.List)
		articles.GET("/:id", h.GetByID)
		articles.POST("", h.Create)
		articles.PUT("/:id", h.Update)
		articles.DELETE("/:id", h.Delete)
		articles.POST("/:id/deactivate", h.Deactivate)
		articles.POST("/:id/reactivate", h.Reactivate)
	}
}
