package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gatepass/internal/shared/apperror"
	"go-gatepass/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("activity.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("activity.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("activity request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetAll serves the dashboard feed. With a gatepass_id filter it returns the
// full trail of one pass, otherwise the most recent campus-wide activity.
func (h *Handler) GetAll(c *gin.Context) {
	if gatePassID := c.Query("gatepass_id"); gatePassID != "" {
		resp, err := h.service.GetByGatePass(c.Request.Context(), gatePassID)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	resp, err := h.service.GetRecent(c.Request.Context(), limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
