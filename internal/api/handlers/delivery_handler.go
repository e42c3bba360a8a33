package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pizzanorte/backoffice/internal/domain"
	"github.com/pizzanorte/backoffice/internal/repository"
	"github.com/pizzanorte/backoffice/internal/service"
)

type DeliveryHandler struct {
	service *service.DeliveryService
}

func NewDeliveryHandler(service *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

type deliveryStatRequest struct {
	LocationID  int64   `json:"location_id" binding:"required"`
	Platform    string  `json:"platform" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Orders      int     `json:"orders"`
	GrossAmount float64 `json:"gross_amount"`
	FeeAmount   float64 `json:"fee_amount"`
}

func (h *DeliveryHandler) Record(c *gin.Context) {
	var req deliveryStatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	id, err := h.service.Record(c.Request.Context(), &domain.DeliveryStat{
		LocationID:  req.LocationID,
		Platform:    req.Platform,
		Date:        date,
		Orders:      req.Orders,
		GrossAmount: req.GrossAmount,
		FeeAmount:   req.FeeAmount,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to record delivery stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *DeliveryHandler) List(c *gin.Context) {
	locationID, _ := strconv.ParseInt(c.Query("location_id"), 10, 64)

	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, expected YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, expected YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	stats, err := h.service.List(c.Request.Context(), locationID, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to list delivery stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "total": len(stats)})
}
