package employee

import (
	"net/http"
	"strconv"
	"strings"

	employeeerrors "github.com/rinov1/WorkWave/internal/employee/errors"
	"github.com/rinov1/WorkWave/internal/middleware"
	"github.com/rinov1/WorkWave/internal/shared/apperror"
	"github.com/rinov1/WorkWave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{AccountID: middleware.AccountID(c), IsHR: middleware.IsHR(c)}
}

func accountIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req AddToRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http add to roster validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddToRoster(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists the directory with optional ?q= filter and page/page_size.
func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.Directory(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if strings.Contains(strings.ToLower(e.DisplayName), q) || strings.Contains(strings.ToLower(e.Email), q) {
				filtered = append(filtered, e)
			}
		}
		resp = filtered
	}

	if c.Query("page") == "" && c.Query("page_size") == "" {
		response.Success(c, http.StatusOK, resp, nil)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Candidates(c *gin.Context) {
	resp, err := h.service.Candidates(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidAccountID)
		return
	}

	resp, err := h.service.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidAccountID)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update profile validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpdateProfile(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// Delete soft-removes from the roster; ?purge=true deletes the account for good.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := accountIDParam(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidAccountID)
		return
	}

	purge, _ := strconv.ParseBool(c.DefaultQuery("purge", "false"))
	var err error
	if purge {
		err = h.service.Purge(c.Request.Context(), id)
	} else {
		err = h.service.Remove(c.Request.Context(), id)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
