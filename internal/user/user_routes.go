package user

import (
	"go-userhub/internal/middleware"
	"go-userhub/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	rbacService rbac.Service,
) {
	users := r.Group("/users")

	users.Use(middleware.AuthMiddleware())

	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "read"), h.GetByType)
		users.POST("", middleware.RBACAuthorize(rbacService, "user", "create"), h.Create)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "read"), h.GetByID)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "user", "update"), h.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "user", "delete"), h.Delete)

		users.POST("/:id/activate", middleware.RBACAuthorize(rbacService, "user", "update"), h.Activate)
		users.POST("/:id/deactivate", middleware.RBACAuthorize(rbacService, "user", "update"), h.Deactivate)
		users.POST("/:id/suspend", middleware.RBACAuthorize(rbacService, "user", "update"), h.Suspend)
		users.POST("/:id/ban", middleware.RBACAuthorize(rbacService, "user", "update"), h.Ban)

		users.POST("/password", h.ChangePassword)
	}
}
