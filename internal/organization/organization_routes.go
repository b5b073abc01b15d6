package organization

import (
	"go-userhub/internal/middleware"
	"go-userhub/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	orgs := r.Group("/organizations")
	orgs.Use(middleware.AuthMiddleware())
	{
		orgs.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "organization", "create"),
			handler.Create,
		)

		// Dipanggil dashboard, limit longgar
		orgs.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		orgs.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "organization", "update"),
			handler.UpdateMe,
		)

		orgs.POST("/me/locations",
			middleware.RateLimitByUser(0.5, 1),
			middleware.RBACAuthorize(rbacService, "organization", "update"),
			handler.UpsertLocation,
		)

		orgs.GET("/me/locations",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "organization", "read"),
			handler.ListLocations,
		)

		orgs.DELETE("/me/locations/:name",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "organization", "delete"),
			handler.DeleteLocation,
		)
	}
}
