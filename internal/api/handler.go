package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/ops-task-report/internal/aggregator"
	apperrors "github.com/kurihiro0119/ops-task-report/internal/errors"
	"github.com/kurihiro0119/ops-task-report/internal/network"
)

// Handler handles API requests
type Handler struct {
	aggregator aggregator.Aggregator
	registry   *network.Registry
}

// NewHandler creates a new API handler
func NewHandler(agg aggregator.Aggregator, registry *network.Registry) *Handler {
	if registry == nil {
		registry = network.Default()
	}
	return &Handler{
		aggregator: agg,
		registry:   registry,
	}
}

// ListNetworks returns the supported networks in collection order
// GET /api/v1/networks
func (h *Handler) ListNetworks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": h.registry.Configs(),
	})
}

// ListRuns returns the most recent archived runs
// GET /api/v1/runs?limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	runs, err := h.aggregator.ListRuns(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": runs,
	})
}

// GetRun returns a single run
// GET /api/v1/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	run, err := h.aggregator.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": run,
	})
}

// GetRunRecords returns the rows collected by a run
// GET /api/v1/runs/:id/records
func (h *Handler) GetRunRecords(c *gin.Context) {
	records, err := h.aggregator.GetRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
	})
}

// GetRunSummary returns per-network task counts for a run
// GET /api/v1/runs/:id/summary
func (h *Handler) GetRunSummary(c *gin.Context) {
	summary, err := h.aggregator.GetRunSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summary,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func parseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperrors.NewBadRequestError("limit must be a non-negative integer")
	}
	return limit, nil
}

// respondError writes an error response
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeBadRequest:
			status = http.StatusBadRequest
		case apperrors.ErrCodeUnavailable, apperrors.ErrCodeBadResponse:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
