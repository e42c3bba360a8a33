// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pizzanorte/backoffice/internal/api/handlers"
	"github.com/pizzanorte/backoffice/internal/api/middleware"
	"github.com/pizzanorte/backoffice/internal/service"
)

type Services struct {
	StockService    *service.StockService
	AlertService    *service.AlertService
	StaffService    *service.StaffService
	SupplierService *service.SupplierService
	DeliveryService *service.DeliveryService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.StockService != nil {
			stockHandler := handlers.NewStockHandler(services.StockService)
			stockGroup := apiGroup.Group("/stock")
			{
				stockGroup.POST("/counts", stockHandler.CreateCount)
				stockGroup.GET("/counts", stockHandler.ListCounts)
				stockGroup.GET("/counts/:id", stockHandler.GetCount)
				stockGroup.POST("/closings", stockHandler.CreateClosing)
				stockGroup.GET("/closings", stockHandler.ListClosings)
				stockGroup.GET("/closings/:id", stockHandler.GetClosing)
			}
			apiGroup.GET("/locations", stockHandler.ListLocations)
		}

		if services.AlertService != nil {
			alertHandler := handlers.NewAlertHandler(services.AlertService)
			alertGroup := apiGroup.Group("/alerts")
			{
				alertGroup.GET("", alertHandler.List)
				alertGroup.GET("/:id", alertHandler.Get)
				alertGroup.POST("/:id/resolve", alertHandler.Resolve)
				alertGroup.POST("/:id/reject", alertHandler.Reject)
				alertGroup.POST("/:id/reactivate", alertHandler.Reactivate)
				alertGroup.POST("/reconcile/run", alertHandler.Run)
				alertGroup.GET("/feed", alertHandler.Feed)
			}
			apiGroup.GET("/dashboard", alertHandler.Dashboard)
		}

		if services.StaffService != nil {
			staffHandler := handlers.NewStaffHandler(services.StaffService)
			staffGroup := apiGroup.Group("/employees")
			{
				staffGroup.POST("", staffHandler.Create)
				staffGroup.GET("", staffHandler.List)
				staffGroup.GET("/:id", staffHandler.Get)
				staffGroup.PUT("/:id", staffHandler.Update)
				staffGroup.POST("/:id/deactivate", staffHandler.Deactivate)
			}
		}

		if services.SupplierService != nil {
			supplierHandler := handlers.NewSupplierHandler(services.SupplierService)
			supplierGroup := apiGroup.Group("/suppliers")
			{
				supplierGroup.POST("", supplierHandler.Create)
				supplierGroup.GET("", supplierHandler.List)
				supplierGroup.GET("/:id", supplierHandler.Get)
				supplierGroup.POST("/:id/invoices", supplierHandler.CreateInvoice)
				supplierGroup.GET("/:id/invoices", supplierHandler.ListInvoices)
			}
			invoiceGroup := apiGroup.Group("/invoices")
			{
				invoiceGroup.GET("/:id", supplierHandler.GetInvoice)
				invoiceGroup.POST("/:id/payments", supplierHandler.AddPayment)
				invoiceGroup.GET("/:id/payments", supplierHandler.ListPayments)
			}
		}

		if services.DeliveryService != nil {
			deliveryHandler := handlers.NewDeliveryHandler(services.DeliveryService)
			deliveryGroup := apiGroup.Group("/delivery")
			{
				deliveryGroup.POST("/stats", deliveryHandler.Record)
				deliveryGroup.GET("/stats", deliveryHandler.List)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
