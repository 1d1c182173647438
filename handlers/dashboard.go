package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-api/services"
)

type DashboardHandler struct {
	Dashboard *services.DashboardService
}

// GetDashboard returns the aggregated trip summary.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		log.Printf("❌ Dashboard aggregation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDailySpending returns spending grouped by date and category.
func (h *DashboardHandler) GetDailySpending(c *gin.Context) {
	days, err := h.Dashboard.DailySpending(c.Request.Context())
	if err != nil {
		log.Printf("❌ Daily spending aggregation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build daily spending"})
		return
	}
	c.JSON(http.StatusOK, days)
}
