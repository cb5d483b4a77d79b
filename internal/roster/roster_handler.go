package roster

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rinov1/WorkWave/internal/middleware"
	rostererrors "github.com/rinov1/WorkWave/internal/roster/errors"
	"github.com/rinov1/WorkWave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultKeepAlive = 25 * time.Second

//go:generate mockgen -source=roster_handler.go -destination=mock/roster_service_mock.go -package=mock
type Service interface {
	Snapshot() *Snapshot
	CachedActive(ctx context.Context, accountID int64) bool
	IsRosterVisibleTo(ctx context.Context, accountID int64, isHR bool) bool
	WatchRoster(ctx context.Context, onChange func([]Entry)) (Subscription, error)
	WatchMembership(ctx context.Context, deviceID string, accountID int64, isHR bool, onEvent func(MembershipEvent)) (Subscription, error)
}

type Handler struct {
	service   Service
	logger    *zap.Logger
	keepAlive time.Duration
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("roster.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("roster.handler")
	}
	return &Handler{service: service, logger: l, keepAlive: defaultKeepAlive}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("roster request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

func (h *Handler) visible(c *gin.Context) bool {
	if h.service.IsRosterVisibleTo(c.Request.Context(), middleware.AccountID(c), middleware.IsHR(c)) {
		return true
	}
	h.writeServiceError(c, rostererrors.ErrRosterNotVisible)
	return false
}

// List returns the current active roster with optional page/page_size.
func (h *Handler) List(c *gin.Context) {
	if !h.visible(c) {
		return
	}

	entries := mapToListResponse(h.service.Snapshot().Entries())
	if c.Query("page") == "" && c.Query("page_size") == "" {
		response.Success(c, http.StatusOK, entries, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	items, meta := response.Paginate(entries, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

// Stream pushes the full active roster as server-sent events until the client leaves.
func (h *Handler) Stream(c *gin.Context) {
	if !h.visible(c) {
		return
	}
	ctx := c.Request.Context()

	updates := make(chan []Entry, 1)
	sub, err := h.service.WatchRoster(ctx, func(entries []Entry) {
		// Only the latest list matters; the callback is the single sender.
		select {
		case <-updates:
		default:
		}
		updates <- entries
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer sub.Close()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case entries := <-updates:
			c.SSEvent("roster", mapToListResponse(entries))
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
		}
		return true
	})
}

func (h *Handler) Membership(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := middleware.AccountID(c)
	isHR := middleware.IsHR(c)

	response.Success(c, http.StatusOK, MembershipResponse{
		AccountID: accountID,
		Active:    isHR || h.service.CachedActive(ctx, accountID),
		Visible:   h.service.IsRosterVisibleTo(ctx, accountID, isHR),
	}, nil)
}

// MembershipStream emits provisional, baseline and gained/lost events for the caller.
func (h *Handler) MembershipStream(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := middleware.AccountID(c)

	events := make(chan MembershipEvent, 8)
	sub, err := h.service.WatchMembership(ctx, middleware.DeviceID(c), accountID, middleware.IsHR(c), func(ev MembershipEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer sub.Close()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev := <-events:
			c.SSEvent(string(ev.Type), MembershipEventResponse{
				Type:      ev.Type,
				AccountID: ev.AccountID,
				Active:    ev.Active,
				At:        ev.At,
			})
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
		}
		return true
	})
}
