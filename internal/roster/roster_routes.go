package roster

import (
	"github.com/rinov1/WorkWave/internal/middleware"
	"github.com/rinov1/WorkWave/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	tokens middleware.TokenParser,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	roster := r.Group("/roster")
	roster.Use(middleware.AuthMiddleware(tokens))
	roster.Use(middleware.ContextLogger(logger))
	roster.Use(middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, rbac.ActionRead))
	{
		roster.GET("",
			middleware.RateLimitByAccount(5, 20),
			handler.List,
		)

		roster.GET("/stream", handler.Stream)

		roster.GET("/membership",
			middleware.ExtractDeviceID(),
			handler.Membership,
		)

		roster.GET("/membership/stream",
			middleware.ExtractDeviceID(),
			handler.MembershipStream,
		)
	}
}
