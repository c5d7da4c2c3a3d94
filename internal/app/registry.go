package app

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"go-gatepass/internal/activity"
	"go-gatepass/internal/auth"
	"go-gatepass/internal/department"
	"go-gatepass/internal/gatepass"
	"go-gatepass/internal/messaging/kafka"
	"go-gatepass/internal/middleware"
	"go-gatepass/internal/rbac"
	"go-gatepass/internal/rbac/infra"
	"go-gatepass/internal/requester"
	"go-gatepass/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	requesterRepo := requester.NewRepository(gormDB)
	gatePassRepo := gatepass.NewRepository(gormDB)
	activityRepo := activity.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, requesterRepo)
	departmentService := department.NewService(db, departmentRepo, rdb)
	requesterService := requester.NewService(db, requesterRepo)
	gatePassService := gatepass.NewServiceWithOutbox(
		db,
		gatePassRepo,
		requesterRepo,
		counterRepo,
		outboxRepo,
		rdb,
		gatepass.Config{LeadTime: gatePassLeadTime()},
	)
	activityService := activity.NewService(activityRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	departmentHandler := department.NewHandler(departmentService)
	requesterHandler := requester.NewHandler(requesterService)
	gatePassHandler := gatepass.NewHandlerWithRedis(gatePassService, rdb)
	activityHandler := activity.NewHandler(activityService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		requester.RegisterRoutes(api, requesterHandler, rbacService)
		gatepass.RegisterRoutes(api, gatePassHandler, rbacService, rdb)
		activity.RegisterRoutes(api, activityHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}

// GATEPASS_LEAD_TIME_MINUTES menggeser batas minimal jam keluar.
// Kosong atau tidak valid berarti pakai default service.
func gatePassLeadTime() time.Duration {
	raw := os.Getenv("GATEPASS_LEAD_TIME_MINUTES")
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
