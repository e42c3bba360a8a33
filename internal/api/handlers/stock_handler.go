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

const dateLayout = "2006-01-02"

type StockHandler struct {
	service *service.StockService
}

func NewStockHandler(service *service.StockService) *StockHandler {
	return &StockHandler{service: service}
}

type categoryLineRequest struct {
	Category   string  `json:"category" binding:"required"`
	CountedQty float64 `json:"counted_qty"`
	POSQty     float64 `json:"pos_qty"`
}

type createCountRequest struct {
	LocationID  int64                 `json:"location_id" binding:"required"`
	Date        string                `json:"date" binding:"required"`
	Shift       string                `json:"shift" binding:"required"`
	Responsible string                `json:"responsible"`
	Lines       []categoryLineRequest `json:"lines" binding:"required"`
}

func (h *StockHandler) CreateCount(c *gin.Context) {
	var req createCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	count := &domain.StockCount{
		LocationID:  req.LocationID,
		Date:        date,
		Shift:       domain.Shift(req.Shift),
		Responsible: req.Responsible,
	}
	for _, line := range req.Lines {
		count.Lines = append(count.Lines, domain.CategoryLine{
			Category:   domain.Category(line.Category),
			CountedQty: line.CountedQty,
			POSQty:     line.POSQty,
		})
	}

	id, err := h.service.CreateStockCount(c.Request.Context(), count)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create stock count", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *StockHandler) GetCount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	count, err := h.service.GetStockCount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stock count not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stock count", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, count)
}

func (h *StockHandler) ListCounts(c *gin.Context) {
	locationID, _ := strconv.ParseInt(c.Query("location_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	counts, err := h.service.ListStockCounts(c.Request.Context(), locationID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list stock counts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts, "total": len(counts)})
}

type createClosingRequest struct {
	LocationID   int64   `json:"location_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	Shift        string  `json:"shift" binding:"required"`
	Responsible  string  `json:"responsible"`
	CashAmount   float64 `json:"cash_amount"`
	CardAmount   float64 `json:"card_amount"`
	MobileAmount float64 `json:"mobile_amount"`
	OtherAmount  float64 `json:"other_amount"`
}

func (h *StockHandler) CreateClosing(c *gin.Context) {
	var req createClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	closing := &domain.RegisterClosing{
		LocationID:   req.LocationID,
		Date:         date,
		Shift:        domain.Shift(req.Shift),
		Responsible:  req.Responsible,
		CashAmount:   req.CashAmount,
		CardAmount:   req.CardAmount,
		MobileAmount: req.MobileAmount,
		OtherAmount:  req.OtherAmount,
	}

	id, err := h.service.CreateClosing(c.Request.Context(), closing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create closing", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "total": closing.Total})
}

func (h *StockHandler) GetClosing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	closing, err := h.service.GetClosing(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "closing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch closing", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, closing)
}

func (h *StockHandler) ListClosings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	closings, err := h.service.ListClosings(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list closings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"closings": closings, "total": len(closings)})
}

func (h *StockHandler) ListLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
