package attendance

import (
	"net/http"
	"time"

	attendanceerrors "github.com/rinov1/WorkWave/internal/attendance/errors"
	"github.com/rinov1/WorkWave/internal/middleware"
	"github.com/rinov1/WorkWave/internal/shared/apperror"
	"github.com/rinov1/WorkWave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service  Service
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewHandler uses location for summaries that carry no tz parameter.
func NewHandler(service Service, location *time.Location, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	if location == nil {
		location = time.UTC
	}
	return &Handler{service: service, location: location, now: time.Now, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int64("account_id", middleware.AccountID(c)),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

func (h *Handler) ClockIn(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), middleware.AccountID(c), req.Code, h.now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyOpen {
		status = http.StatusOK
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ClockOut(c.Request.Context(), middleware.AccountID(c), req.Code, h.now())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Current(c *gin.Context) {
	session, err := h.service.Current(c.Request.Context(), middleware.AccountID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, CurrentResponse{Session: session}, nil)
}

// Summary aggregates completed sessions of ?date=YYYY-MM-DD in ?tz, both optional.
func (h *Handler) Summary(c *gin.Context) {
	loc := h.location
	if tz := c.Query("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			h.writeServiceError(c, attendanceerrors.ErrInvalidTimezone)
			return
		}
		loc = parsed
	}

	day := h.now().In(loc)
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			h.writeServiceError(c, attendanceerrors.ErrInvalidDate)
			return
		}
		day = parsed
	}

	resp, err := h.service.DaySummary(c.Request.Context(), day, Viewer{
		AccountID: middleware.AccountID(c),
		IsHR:      middleware.IsHR(c),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
