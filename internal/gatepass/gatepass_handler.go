package gatepass

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	gatepasserrors "go-gatepass/internal/gatepass/errors"
	"go-gatepass/internal/shared/apperror"
	"go-gatepass/internal/shared/response"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	return NewHandlerWithRedis(service, nil, logger...)
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("gatepass.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("gatepass.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("gate pass request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	requesterID := c.GetString("requester_id")
	if requesterID == "" {
		h.writeServiceError(c, gatepasserrors.ErrInvalidRequesterID)
		return
	}

	var req CreateGatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create gate pass validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), requesterID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	requesterID := c.GetString("requester_id")
	if requesterID == "" {
		h.writeServiceError(c, gatepasserrors.ErrInvalidRequesterID)
		return
	}

	resp, err := h.service.GetMine(c.Request.Context(), requesterID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// GetPendingQueue lists passes waiting on the caller's own approval stage.
func (h *Handler) GetPendingQueue(c *gin.Context) {
	role := c.GetString("role")
	departmentID := c.GetString("department_id")

	resp, err := h.service.GetPendingForRole(c.Request.Context(), role, departmentID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSecurityQueue(c *gin.Context) {
	resp, err := h.service.GetForSecurityVerification(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetUsedRecently(c *gin.Context) {
	window := 24 * time.Hour
	if raw := c.Query("window_hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", "window_hours must be a positive integer")
			return
		}
		window = time.Duration(hours) * time.Hour
	}

	resp, err := h.service.GetUsedRecently(c.Request.Context(), window)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	// Body boleh kosong, comment opsional untuk approve
	var req ApproveGatePassRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http approve gate pass validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
			return
		}
	}

	resp, err := h.service.Decide(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("user_id"),
		c.GetString("role"),
		DecisionApprove,
		req.Comment,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectGatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http reject gate pass validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.Decide(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("user_id"),
		c.GetString("role"),
		DecisionReject,
		req.Comment,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyGatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http verify gate pass validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.VerifyAtGate(
		c.Request.Context(),
		c.Param("id"),
		c.GetString("user_id"),
		req.Result,
		req.Comment,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CheckIn(c *gin.Context) {
	resp, err := h.service.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
