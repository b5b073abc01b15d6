package membership

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
	members := r.Group("/members")
	members.Use(middleware.AuthMiddleware())
	members.Use(middleware.ContextLogger(logger))
	{
		members.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "member", "read"),
			handler.GetAll,
		)

		members.GET("/hierarchy",
			middleware.RateLimitByUser(5, 20), // Cache-backed, limit longgar
			middleware.RBACAuthorize(rbacService, "member", "read"),
			handler.HierarchyTree,
		)

		members.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "member", "read"),
			handler.GetById,
		)

		members.GET("/:id/hierarchy-path",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "member", "read"),
			handler.HierarchyPath,
		)

		members.GET("/:id/subordinates",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "member", "read"),
			handler.Subordinates,
		)

		members.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "member", "create"),
			handler.Join,
		)

		members.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "member", "update"),
			handler.Update,
		)

		members.PUT("/:id/position",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "member", "update"),
			handler.UpdatePosition,
		)

		members.POST("/:id/transfer",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "member", "update"),
			handler.Transfer,
		)

		members.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "member", "delete"),
			handler.Leave,
		)
	}
}
