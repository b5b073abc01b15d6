package rbac_http

import (
	"go-userhub/internal/middleware"
	"go-userhub/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, service rbac.Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)

		group.GET("/roles", middleware.RBACAuthorize(service, "organization", "read"), handler.ListRoles)
		group.GET("/permissions", middleware.RBACAuthorize(service, "organization", "read"), handler.ListPermissions)
	}
}
