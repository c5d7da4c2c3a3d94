package requester

import (
	"github.com/gin-gonic/gin"

	"go-gatepass/internal/middleware"
	"go-gatepass/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	requesters := r.Group("/requesters")
	requesters.Use(middleware.AuthMiddleware())
	{
		requesters.GET("", middleware.RBACAuthorize(rbacService, "requester", "read"), handler.GetAll)
		requesters.GET("/:id", middleware.RBACAuthorize(rbacService, "requester", "read"), handler.GetByID)
		requesters.POST("", middleware.RBACAuthorize(rbacService, "requester", "create"), handler.Create)
	}
}
