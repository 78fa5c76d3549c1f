package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	g := registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/devis", func(c *gin.Context) {
			c.String(http.StatusOK, "devis")
		})
	})
	r.Register(g).Setup()

	req := httptest.NewRequest("GET", "/api/v2/devis", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	quotes := registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/devis", func(c *gin.Context) {
			c.String(http.StatusOK, "devis")
		})
	})
	budgets := registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/budgets", func(c *gin.Context) {
			c.String(http.StatusOK, "budgets")
		})
	})

	r.Register(quotes).Register(budgets)
	r.Setup()

	for _, path := range []string{"/api/v1/devis", "/api/v1/budgets"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "route %s should be mounted", path)
	}
}

func TestRouterSetupWithoutRegistrars(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/anything", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
