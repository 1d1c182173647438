package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-api/models"
)

type RegionHandler struct {
	DB *sql.DB
}

// GetRegions returns the seeded regions ordered by name.
func (h *RegionHandler) GetRegions(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, name, code, color_hex, created_at
		FROM regions
		ORDER BY name ASC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch regions"})
		return
	}
	defer rows.Close()

	regions := []models.Region{}
	for rows.Next() {
		var r models.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Code, &r.ColorHex, &r.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read regions"})
			return
		}
		regions = append(regions, r)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read regions"})
		return
	}

	c.JSON(http.StatusOK, regions)
}
