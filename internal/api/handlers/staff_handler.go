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

type StaffHandler struct {
	service *service.StaffService
}

func NewStaffHandler(service *service.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

type employeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Role       string `json:"role"`
	LocationID int64  `json:"location_id" binding:"required"`
	HireDate   string `json:"hire_date"`
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	e := &domain.Employee{
		Name:       req.Name,
		Role:       req.Role,
		LocationID: req.LocationID,
	}
	if req.HireDate != "" {
		hireDate, err := time.Parse(dateLayout, req.HireDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hire_date, expected YYYY-MM-DD"})
			return
		}
		e.HireDate = hireDate
	}

	id, err := h.service.Create(c.Request.Context(), e)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *StaffHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch employee", "details": err.Error()})
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	existing.Name = req.Name
	existing.Role = req.Role
	existing.LocationID = req.LocationID

	if err := h.service.Update(c.Request.Context(), existing); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, existing)
}

func (h *StaffHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, e)
}

func (h *StaffHandler) List(c *gin.Context) {
	locationID, _ := strconv.ParseInt(c.Query("location_id"), 10, 64)
	activeOnly := c.DefaultQuery("active", "false") == "true"

	employees, err := h.service.List(c.Request.Context(), locationID, activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list employees", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"employees": employees, "total": len(employees)})
}

func (h *StaffHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate employee", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
