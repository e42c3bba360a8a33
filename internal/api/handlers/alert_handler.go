package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/pizzanorte/backoffice/internal/service"
)

type AlertHandler struct {
	service *service.AlertService
}

func NewAlertHandler(service *service.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

func (h *AlertHandler) List(c *gin.Context) {
	filter := repository.AlertFilter{}

	if status := c.Query("status"); status != "" {
		parsed, ok := domain.ParseAlertStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + status})
			return
		}
		filter.Status = parsed
	}
	filter.LocationID, _ = strconv.ParseInt(c.Query("location_id"), 10, 64)
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	alerts, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "total": len(alerts)})
}

func (h *AlertHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	alert, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alert", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alert)
}

func (h *AlertHandler) Resolve(c *gin.Context) {
	h.transition(c, domain.AlertResolved)
}

func (h *AlertHandler) Reject(c *gin.Context) {
	h.transition(c, domain.AlertRejected)
}

func (h *AlertHandler) Reactivate(c *gin.Context) {
	h.transition(c, domain.AlertActive)
}

func (h *AlertHandler) transition(c *gin.Context, to domain.AlertStatus) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	alert, err := h.service.Transition(c.Request.Context(), id, to)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
		case errors.Is(err, service.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, alert)
}

// Run triggers a reconciliation pass. The pass itself never fails; per-record
// problems are logged and skipped.
func (h *AlertHandler) Run(c *gin.Context) {
	h.service.Run(c.Request.Context())
	c.JSON(http.StatusAccepted, gin.H{"status": "reconciliation pass completed"})
}

func (h *AlertHandler) Feed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	feed, err := h.service.Feed(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alert feed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feed": feed})
}

func (h *AlertHandler) Dashboard(c *gin.Context) {
	summary, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build dashboard", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
