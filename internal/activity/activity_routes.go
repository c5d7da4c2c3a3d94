package activity

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
	activities := r.Group("/activities")
	activities.Use(middleware.AuthMiddleware())
	{
		activities.GET("", middleware.RBACAuthorize(rbacService, "activity", "read"), handler.GetAll)
	}
}
