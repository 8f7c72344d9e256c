package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"crm-service/internal/models"
)

type fakeDirectory struct {
	tenants map[string]*models.Tenant
}

func (d *fakeDirectory) GetByID(tenantID string) (*models.Tenant, error) {
	tenant, ok := d.tenants[tenantID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tenant, nil
}

func setupTenantRouter(cfg TenantGuardConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantGuard(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})
	return router
}

func TestTenantGuardResolvesHeader(t *testing.T) {
	router := setupTenantRouter(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{
			"acme": {ID: "acme", IsActive: true},
		}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "acme")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "acme")
}

func TestTenantGuardMissingTenant(t *testing.T) {
	router := setupTenantRouter(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeTenantRequired)
}

func TestTenantGuardInvalidFormat(t *testing.T) {
	router := setupTenantRouter(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "bad tenant!")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeTenantInvalid)
}

func TestTenantGuardUnknownTenant(t *testing.T) {
	router := setupTenantRouter(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "ghost")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeTenantNotFound)
}

func TestTenantGuardInactiveTenant(t *testing.T) {
	router := setupTenantRouter(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{
			"dormant": {ID: "dormant", IsActive: false},
		}},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "dormant")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrCodeTenantInactive)
}

func TestTenantGuardAttachesTenantContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TenantGuard(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{
			"acme": {ID: "acme", IsActive: true},
		}},
	}))

	var tc models.TenantContext
	var attached bool
	router.GET("/test", func(c *gin.Context) {
		tc, attached = GetTenant(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "acme")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, attached)
	assert.Equal(t, models.TenantContext{TenantID: "acme", IsActive: true}, tc)
}

func TestTenantGuardClaimTakesPrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("tenant_id", "claimed") // simulates the auth middleware
	})
	router.Use(TenantGuard(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{
			"claimed": {ID: "claimed", IsActive: true},
			"header":  {ID: "header", IsActive: true},
		}},
	}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tenant_id": GetTenantID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Tenant-ID", "header")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "claimed")
}

func TestTenantGuardDefaultTenant(t *testing.T) {
	router := setupTenantRouter(TenantGuardConfig{
		Directory: &fakeDirectory{tenants: map[string]*models.Tenant{
			"dev": {ID: "dev", IsActive: true},
		}},
		DefaultTenant: "dev",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dev")
}
