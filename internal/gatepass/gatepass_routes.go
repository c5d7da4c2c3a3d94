package gatepass

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-gatepass/internal/middleware"
	"go-gatepass/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	gatepasses := r.Group("/gatepasses")
	gatepasses.Use(middleware.AuthMiddleware())
	gatepasses.Use(middleware.ExtractUserID())
	gatepasses.Use(middleware.ContextLogger(zap.L()))
	{
		gatepasses.GET("/mine", middleware.RBACAuthorize(rbacService, "gatepass", "read"), handler.GetMine)
		gatepasses.GET("/pending", middleware.RBACAuthorize(rbacService, "gatepass", "approve"), handler.GetPendingQueue)
		gatepasses.GET("/security-queue", middleware.RBACAuthorize(rbacService, "gatepass", "verify"), handler.GetSecurityQueue)
		gatepasses.GET("/recent", middleware.RBACAuthorize(rbacService, "gatepass", "verify"), handler.GetUsedRecently)
		gatepasses.GET("/:id", middleware.RBACAuthorize(rbacService, "gatepass", "read"), handler.GetByID)

		gatepasses.POST("", middleware.RBACAuthorize(rbacService, "gatepass", "create"), middleware.Idempotency(rdb), handler.Create)
		gatepasses.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "gatepass", "approve"), handler.Approve)
		gatepasses.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "gatepass", "approve"), handler.Reject)
		gatepasses.POST("/:id/verify", middleware.RBACAuthorize(rbacService, "gatepass", "verify"), handler.Verify)
		gatepasses.POST("/:id/checkin", middleware.RBACAuthorize(rbacService, "gatepass", "verify"), handler.CheckIn)
	}
}
