package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/tillpoint/pos-api/internal/infrastructure/repository"
	"github.com/tillpoint/pos-api/internal/presentation/http/dto/response"
)

// BranchHeader optionally scopes a request to one branch of the tenant
const BranchHeader = "X-Branch-ID"

// TenantMiddleware propagates the tenant claim set by AuthMiddleware into the
// request context so repositories scope every query. An optional branch header
// narrows writes to a single branch.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := GetTenantID(c)
		if tenantID == uuid.Nil {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		ctx := infraRepo.WithTenant(c.Request.Context(), tenantID)

		if branchHeader := c.GetHeader(BranchHeader); branchHeader != "" {
			branchID, err := uuid.Parse(branchHeader)
			if err != nil {
				response.BadRequest(c, "Invalid branch ID header")
				c.Abort()
				return
			}
			ctx = infraRepo.WithBranch(ctx, branchID)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireTenant ensures a valid tenant context exists
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, exists := c.Get("tenant_id")
		if !exists {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		id, ok := tenantID.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid tenant context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
