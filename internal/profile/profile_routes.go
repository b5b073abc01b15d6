package profile

import (
	"go-userhub/internal/middleware"
	"go-userhub/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	profiles.Use(middleware.ContextLogger(logger))
	{
		profiles.GET("/me",
			middleware.RateLimitByUser(2, 5),
			handler.GetMe,
		)

		profiles.PUT("/me",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.UpsertMe,
		)

		profiles.DELETE("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "profile", "update"),
			handler.DeleteMe,
		)

		profiles.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "profile", "read"),
			handler.GetByUserID,
		)
	}
}
