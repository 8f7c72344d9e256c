package middleware

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"crm-service/internal/cache"
	"crm-service/internal/models"
)

// TenantDirectory is the lookup surface the tenant guard needs. The tenant
// repository satisfies it.
type TenantDirectory interface {
	GetByID(tenantID string) (*models.Tenant, error)
}

// TenantGuardConfig configures tenant resolution
type TenantGuardConfig struct {
	Directory TenantDirectory
	Cache     *cache.TenantCache

	// DefaultTenant, when non-empty, is used for requests that carry no
	// tenant identity. Development only; production config refuses to set it.
	DefaultTenant string
}

var tenantIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

// TenantGuard resolves and validates the tenant for every request.
// Resolution order: JWT claim (set by the auth middleware), then the
// X-Tenant-ID header. The resolved tenant must exist in the tenant directory
// and be active.
//
// Responses: 400 when the identity is missing or malformed, 404 when the
// tenant is not in the directory, 403 when the tenant is deactivated.
func TenantGuard(cfg TenantGuardConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString("tenant_id") // from JWT claim, if authenticated
		if tenantID == "" {
			tenantID = c.GetHeader("X-Tenant-ID")
		}
		if tenantID == "" {
			tenantID = cfg.DefaultTenant
		}

		if tenantID == "" {
			abortTenant(c, http.StatusBadRequest, ErrCodeTenantRequired,
				"Tenant ID is required. Include X-Tenant-ID header or authenticate.")
			return
		}

		if !tenantIDPattern.MatchString(tenantID) {
			abortTenant(c, http.StatusBadRequest, ErrCodeTenantInvalid,
				"Tenant ID format is invalid")
			return
		}

		tenant, err := lookupTenant(c, cfg, tenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortTenant(c, http.StatusNotFound, ErrCodeTenantNotFound,
					"Tenant not found")
				return
			}
			logrus.WithError(err).WithField("tenant_id", tenantID).Error("Tenant lookup failed")
			abortTenant(c, http.StatusInternalServerError, ErrCodeInternalServer,
				"Failed to resolve tenant")
			return
		}

		if !tenant.IsActive {
			abortTenant(c, http.StatusForbidden, ErrCodeTenantInactive,
				"Tenant account is deactivated")
			return
		}

		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", models.TenantContext{TenantID: tenant.ID, IsActive: tenant.IsActive})
		c.Next()
	}
}

func lookupTenant(c *gin.Context, cfg TenantGuardConfig, tenantID string) (*models.Tenant, error) {
	if cfg.Cache != nil {
		if tenant, err := cfg.Cache.Get(c.Request.Context(), tenantID); err == nil && tenant != nil {
			return tenant, nil
		}
	}

	tenant, err := cfg.Directory.GetByID(tenantID)
	if err != nil {
		return nil, err
	}

	if cfg.Cache != nil {
		if err := cfg.Cache.Set(c.Request.Context(), tenant); err != nil {
			logrus.WithError(err).Debug("Failed to cache tenant record")
		}
	}

	return tenant, nil
}

func abortTenant(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.NewErrorResponse(code, message))
	c.Abort()
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}

// GetTenant retrieves the resolved tenant context attached by TenantGuard
func GetTenant(c *gin.Context) (models.TenantContext, bool) {
	v, ok := c.Get("tenant")
	if !ok {
		return models.TenantContext{}, false
	}
	tc, ok := v.(models.TenantContext)
	return tc, ok
}
