package attendance

import (
	"time"

	"github.com/rinov1/WorkWave/internal/middleware"
	"github.com/rinov1/WorkWave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	tokens middleware.TokenParser,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware(tokens))
	attendance.Use(middleware.ContextLogger(logger))
	{
		attendance.POST("/clock-in",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCreate),
			middleware.RateLimitByAccount(1, 5),
			middleware.Idempotency(rdb, idempotencyTTL),
			h.ClockIn,
		)
		attendance.POST("/clock-out",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionCreate),
			middleware.RateLimitByAccount(1, 5),
			middleware.Idempotency(rdb, idempotencyTTL),
			h.ClockOut,
		)
		attendance.GET("/current",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead),
			h.Current,
		)
		attendance.GET("/summary",
			middleware.RBACAuthorize(rbacService, rbac.ResourceSummary, rbac.ActionRead),
			h.Summary,
		)
	}
}
