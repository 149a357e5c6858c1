package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/logger"
)

// Identity headers. Authentication happens upstream; these carry the
// already-verified tenant and user.
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
)

const (
	ctxTenantID = "tenant_id"
	ctxUserID   = "user_id"
)

// RequestLogger logs one line per request, at warn for 4xx and error for
// 5xx responses.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []any{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if tenant := c.GetString(ctxTenantID); tenant != "" {
			fields = append(fields, "tenant_id", tenant)
		}
		if user := c.GetString(ctxUserID); user != "" {
			fields = append(fields, "user_id", user)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// RequireTenant reads the identity headers into the request context and
// rejects requests without a tenant.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant := strings.TrimSpace(c.GetHeader(HeaderTenantID))
		if tenant == "" {
			RespondError(c, http.StatusBadRequest, CodeInvalidRequest, errors.New("missing "+HeaderTenantID+" header"))
			return
		}
		c.Set(ctxTenantID, tenant)
		c.Set(ctxUserID, strings.TrimSpace(c.GetHeader(HeaderUserID)))
		c.Next()
	}
}

func tenantID(c *gin.Context) string { return c.GetString(ctxTenantID) }
func userID(c *gin.Context) string   { return c.GetString(ctxUserID) }
