package notification

import (
	"go-userhub/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Notifikasi selalu milik user yang login, tidak perlu RBAC tambahan.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, logger *zap.Logger) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	notifications.Use(middleware.ContextLogger(logger))
	{
		notifications.GET("",
			middleware.RateLimitByUser(2, 10),
			handler.GetMine,
		)

		notifications.POST("/:id/read",
			middleware.RateLimitByUser(2, 10),
			handler.MarkRead,
		)
	}
}
