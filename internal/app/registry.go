package app

import (
	"database/sql"
	"os"

	"go-userhub/internal/audit"
	"go-userhub/internal/auth"
	"go-userhub/internal/membership"
	"go-userhub/internal/messaging/kafka"
	"go-userhub/internal/notification"
	"go-userhub/internal/organization"
	"go-userhub/internal/profile"
	"go-userhub/internal/rbac"
	"go-userhub/internal/rbac/infra"
	rbachttp "go-userhub/internal/rbac/rbac_http"
	"go-userhub/internal/shared/counter"
	"go-userhub/internal/user"
	"go-userhub/internal/usertype"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	organizationRepo := organization.NewRepository(gormDB)
	profileRepo := profile.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	rbacRepo := rbac.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	auditRecorder := audit.NewRecorder(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(os.Getenv("RBAC_MODEL_PATH"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- User types ---
	typeRegistry := usertype.NewRegistry(usertype.DefaultConfig())

	// --- Services ---
	userService := user.NewService(userRepo, typeRegistry, auditRecorder, user.DefaultConfig())
	organizationService := organization.NewService(organizationRepo)
	hierarchyEngine := membership.NewEngine(userRepo, 0)
	membershipService := membership.NewService(
		db, userRepo, hierarchyEngine, organizationService,
		outboxRepo, auditRecorder, rdb,
	)
	authService := auth.NewService(db, userRepo, typeRegistry, rbacService, outboxRepo, auth.DefaultConfig())
	profileService := profile.NewService(profileRepo, userRepo, counterRepo)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	userHandler := user.NewHandler(userService)
	organizationHandler := organization.NewHandler(organizationService)
	membershipHandler := membership.NewHandler(membershipService)
	authHandler := auth.NewHandler(authService)
	profileHandler := profile.NewHandler(profileService)
	notificationHandler := notification.NewHandler(notificationService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		organization.RegisterRoutes(api, organizationHandler, rbacService)
		membership.RegisterRoutes(api, membershipHandler, rbacService, logger)
		profile.RegisterRoutes(api, profileHandler, rbacService, logger)
		notification.RegisterRoutes(api, notificationHandler, logger)
		rbachttp.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
