package api

import (
	"net/http"
	"strconv"

	"pharmacy-pos/internal/models"

	"github.com/gin-gonic/gin"
)

// listStock returns unexpired stock, purging expired rows
func (h *Handler) listStock(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	items, purged, err := h.inventory.List(c.Request.Context(), pharmacyName(c), kind)
	if err != nil {
		h.respondError(c, "Failed to list stock", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"purged": purged,
	})
}

func (h *Handler) addStock(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	var fields models.StockFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	item, err := h.inventory.Add(c.Request.Context(), pharmacyName(c), kind, fields)
	if err != nil {
		h.respondError(c, "Failed to add stock item", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// expiringStock lists stock expiring within ?days= (default from config)
func (h *Handler) expiringStock(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}

	days := h.defaults.ExpiryAlertDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
			return
		}
		days = n
	}

	items, err := h.inventory.ExpiringSoon(c.Request.Context(), pharmacyName(c), kind, days)
	if err != nil {
		h.respondError(c, "Failed to list expiring stock", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":  days,
		"items": items,
	})
}

func (h *Handler) updateStock(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var fields models.StockFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	items, err := h.inventory.Update(c.Request.Context(), pharmacyName(c), kind, id, fields)
	if err != nil {
		h.respondError(c, "Failed to update stock item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) deleteStock(c *gin.Context) {
	kind, ok := parseKind(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	items, err := h.inventory.Delete(c.Request.Context(), pharmacyName(c), kind, id)
	if err != nil {
		h.respondError(c, "Failed to delete stock item", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock item ID"})
		return 0, false
	}
	return id, true
}
