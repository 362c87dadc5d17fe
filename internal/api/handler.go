package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/service"
	"pharmacy-pos/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Defaults applied when a request leaves a value out
type Defaults struct {
	GSTRate         float64
	ExpiryAlertDays int
}

// Handler contains HTTP handlers
type Handler struct {
	inventory *service.InventoryService
	carts     *service.CartService
	orders    *service.OrderService
	defaults  Defaults
	pingers   []Pinger
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	inventory *service.InventoryService,
	carts *service.CartService,
	orders *service.OrderService,
	defaults Defaults,
	pingers ...Pinger,
) *Handler {
	return &Handler{
		inventory: inventory,
		carts:     carts,
		orders:    orders,
		defaults:  defaults,
		pingers:   pingers,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pharmacy := router.Group("/api/v1/pharmacies/:pharmacy")
	{
		pharmacy.GET("/stock/:kind", h.listStock)
		pharmacy.POST("/stock/:kind", h.addStock)
		pharmacy.GET("/stock/:kind/expiring", h.expiringStock)
		pharmacy.PUT("/stock/:kind/:id", h.updateStock)
		pharmacy.DELETE("/stock/:kind/:id", h.deleteStock)

		pharmacy.GET("/cart", h.getCart)
		pharmacy.PUT("/cart", h.putCart)
		pharmacy.DELETE("/cart", h.clearCart)
		pharmacy.POST("/cart/lines", h.addCartLine)
		pharmacy.PATCH("/cart/lines/:kind/:index", h.editCartLine)
		pharmacy.DELETE("/cart/lines/:kind/:index", h.removeCartLine)
		pharmacy.GET("/cart/summary", h.cartSummary)
		pharmacy.GET("/cart/receipt", h.previewReceipt)

		pharmacy.GET("/orders", h.listOrders)
		pharmacy.POST("/orders", h.checkout)
		pharmacy.GET("/orders/:code", h.getOrder)
		pharmacy.DELETE("/orders/:code", h.removeOrder)
		pharmacy.GET("/orders/:code/receipt", h.orderReceipt)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once every backing service answers
func (h *Handler) readinessCheck(c *gin.Context) {
	for _, p := range h.pingers {
		if err := p.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"details": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// pharmacyName is the tenant display name from the path
func pharmacyName(c *gin.Context) string {
	return c.Param("pharmacy")
}

func parseKind(c *gin.Context) (models.Kind, bool) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid stock kind",
			"details": err.Error(),
		})
		return "", false
	}
	return kind, true
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidKind), errors.Is(err, models.ErrInvalidStockItem):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidQuantity), errors.Is(err, models.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(message,
			zap.String("tenant", pharmacyName(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
