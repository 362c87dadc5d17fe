package api

import (
	"errors"
	"net/http"
	"strconv"

	"pharmacy-pos/internal/models"
	"pharmacy-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// lineEdit changes the quantity, the discount, or both
type lineEdit struct {
	Quantity *models.Quantity `json:"quantity"`
	Discount *float64         `json:"discount"`
}

func (h *Handler) getCart(c *gin.Context) {
	lines, err := h.carts.Get(c.Request.Context(), pharmacyName(c))
	if err != nil {
		h.respondError(c, "Failed to read cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// putCart replaces the whole cart
func (h *Handler) putCart(c *gin.Context) {
	var lines []models.CartLine
	if err := c.ShouldBindJSON(&lines); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if err := h.carts.Put(c.Request.Context(), pharmacyName(c), lines); err != nil {
		h.respondError(c, "Failed to save cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), pharmacyName(c)); err != nil {
		h.respondError(c, "Failed to clear cart", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) addCartLine(c *gin.Context) {
	var line models.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	lines, err := h.carts.AddLine(c.Request.Context(), pharmacyName(c), line)
	if err != nil {
		h.respondError(c, "Failed to add cart line", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lines": lines})
}

func (h *Handler) editCartLine(c *gin.Context) {
	kind, index, ok := parseLine(c)
	if !ok {
		return
	}

	var edit lineEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if edit.Quantity == nil && edit.Discount == nil {
		badRequest(c, "Invalid request body", errors.New("quantity or discount is required"))
		return
	}

	lines, err := h.carts.EditLine(c.Request.Context(), pharmacyName(c), kind, index, service.LineEdit{
		Quantity: edit.Quantity,
		Discount: edit.Discount,
	})
	if err != nil {
		h.respondError(c, "Failed to update cart line", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *Handler) removeCartLine(c *gin.Context) {
	kind, index, ok := parseLine(c)
	if !ok {
		return
	}

	lines, err := h.carts.RemoveLine(c.Request.Context(), pharmacyName(c), kind, index)
	if err != nil {
		h.respondError(c, "Failed to remove cart line", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// cartSummary prices the live cart at ?gst_rate= (default from config)
func (h *Handler) cartSummary(c *gin.Context) {
	rate, ok := h.gstRate(c)
	if !ok {
		return
	}

	summary, err := h.carts.Summary(c.Request.Context(), pharmacyName(c), rate)
	if err != nil {
		h.respondError(c, "Failed to price cart", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) gstRate(c *gin.Context) (float64, bool) {
	raw := c.Query("gst_rate")
	if raw == "" {
		return h.defaults.GSTRate, true
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gst_rate"})
		return 0, false
	}
	return rate, true
}

func parseLine(c *gin.Context) (models.Kind, int, bool) {
	kind, ok := parseKind(c)
	if !ok {
		return "", 0, false
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line index"})
		return "", 0, false
	}
	return kind, index, true
}
