package api

import (
	"net/http"

	"pharmacy-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// checkoutRequest is the patient and tax detail entered at checkout.
// A missing gstRate falls back to the configured default.
type checkoutRequest struct {
	PatientName string   `json:"patientName" form:"patient_name"`
	DoctorName  string   `json:"doctorName" form:"doctor_name"`
	GSTNo       string   `json:"gstNo" form:"gst_no"`
	GSTRate     *float64 `json:"gstRate" form:"gst_rate"`
}

func (r checkoutRequest) toService(defaultRate float64) service.CheckoutRequest {
	rate := defaultRate
	if r.GSTRate != nil {
		rate = *r.GSTRate
	}
	return service.CheckoutRequest{
		PatientName: r.PatientName,
		DoctorName:  r.DoctorName,
		GSTNo:       r.GSTNo,
		GSTRate:     rate,
	}
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), pharmacyName(c))
	if err != nil {
		h.respondError(c, "Failed to list orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// checkout commits the staged cart as an order
func (h *Handler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), pharmacyName(c), req.toService(h.defaults.GSTRate))
	if err != nil {
		h.respondError(c, "Failed to commit order", err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), pharmacyName(c), c.Param("code"))
	if err != nil {
		h.respondError(c, "Order not found", err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) removeOrder(c *gin.Context) {
	if err := h.orders.Remove(c.Request.Context(), pharmacyName(c), c.Param("code")); err != nil {
		h.respondError(c, "Failed to remove order", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) orderReceipt(c *gin.Context) {
	receipt, err := h.orders.Receipt(c.Request.Context(), pharmacyName(c), c.Param("code"))
	if err != nil {
		h.respondError(c, "Failed to build receipt", err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// previewReceipt prices the staged cart as a receipt without committing it
func (h *Handler) previewReceipt(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, "Invalid query", err)
		return
	}

	receipt, err := h.orders.PreviewReceipt(c.Request.Context(), pharmacyName(c), req.toService(h.defaults.GSTRate))
	if err != nil {
		h.respondError(c, "Failed to build receipt", err)
		return
	}

	c.JSON(http.StatusOK, receipt)
}
