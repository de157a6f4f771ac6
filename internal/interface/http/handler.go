package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finsight/coverage-console/internal/domain/coverage"
	apperrors "github.com/finsight/coverage-console/pkg/errors"
)

// Handler wires the HTTP transport to the coverage service.
type Handler struct {
	coverageSvc coverage.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(coverageSvc coverage.Service, logger *slog.Logger) *Handler {
	return &Handler{
		coverageSvc: coverageSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// Overview returns the full derived coverage view model.
func (h *Handler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.coverageSvc.Overview(c.Request.Context()))
}

// Refresh triggers a snapshot fetch. Optional fill parameters reconfigure the
// refresher first; a parameter change already implies a refresh.
func (h *Handler) Refresh(c *gin.Context) {
	window, ok := intQuery(c, "fill_trading_days_window")
	if !ok {
		return
	}
	lookback, ok := intQuery(c, "fill_lookback_days")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	refreshed := false
	if window != nil || lookback != nil {
		refreshed = h.coverageSvc.Configure(ctx, coverage.Query{
			FillTradingDaysWindow: window,
			FillLookbackDays:      lookback,
		})
	}
	if !refreshed {
		h.coverageSvc.Refresh(ctx)
	}

	c.JSON(http.StatusOK, h.coverageSvc.Overview(ctx))
}

// Actions lists the merged remediation catalog.
func (h *Handler) Actions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"actions": h.coverageSvc.Actions()})
}

// RunAction triggers one remediation task by name.
func (h *Handler) RunAction(c *gin.Context) {
	task := strings.TrimSpace(c.Param("task_name"))

	if err := h.coverageSvc.RunAction(c.Request.Context(), task); err != nil {
		status := http.StatusInternalServerError
		code := "action_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_request"
		case apperrors.IsCode(err, "task_runner_unavailable"):
			status = http.StatusServiceUnavailable
			code = "task_runner_unavailable"
		case apperrors.IsCode(err, "upstream_error"):
			status = http.StatusBadGateway
			code = "upstream_error"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"task_name": task, "status": "triggered"})
}

func intQuery(c *gin.Context, name string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", name+" must be an integer", err))
		return nil, false
	}
	return &parsed, true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
