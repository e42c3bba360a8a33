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

type SupplierHandler struct {
	service *service.SupplierService
}

func NewSupplierHandler(service *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

type supplierRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"tax_id"`
	Phone string `json:"phone"`
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	id, err := h.service.CreateSupplier(c.Request.Context(), &domain.Supplier{
		Name:  req.Name,
		TaxID: req.TaxID,
		Phone: req.Phone,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	sup, err := h.service.GetSupplier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sup)
}

func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list suppliers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers, "total": len(suppliers)})
}

type invoiceRequest struct {
	Number    string  `json:"number" binding:"required"`
	IssueDate string  `json:"issue_date" binding:"required"`
	DueDate   string  `json:"due_date" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
}

func (h *SupplierHandler) CreateInvoice(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue_date, expected YYYY-MM-DD"})
		return
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected YYYY-MM-DD"})
		return
	}

	id, err := h.service.CreateInvoice(c.Request.Context(), &domain.SupplierInvoice{
		SupplierID: supplierID,
		Number:     req.Number,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Amount:     req.Amount,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create invoice", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *SupplierHandler) GetInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	inv, err := h.service.GetInvoice(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": inv, "balance": inv.Balance()})
}

func (h *SupplierHandler) ListInvoices(c *gin.Context) {
	supplierID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), supplierID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "total": len(invoices)})
}

type paymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method"`
	PaidAt string  `json:"paid_at"`
}

func (h *SupplierHandler) AddPayment(c *gin.Context) {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	payment := &domain.SupplierPayment{
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Method:    req.Method,
	}
	if req.PaidAt != "" {
		paidAt, err := time.Parse(dateLayout, req.PaidAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid_at, expected YYYY-MM-DD"})
			return
		}
		payment.PaidAt = paidAt
	}

	id, err := h.service.AddPayment(c.Request.Context(), payment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to add payment", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *SupplierHandler) ListPayments(c *gin.Context) {
	invoiceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	payments, err := h.service.ListPayments(c.Request.Context(), invoiceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": len(payments)})
}
