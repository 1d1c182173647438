package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trip-api/models"
)

type SettingsHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

// GetSettings returns the singleton settings row, creating it with
// defaults on first read.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.fetchOrCreate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings patches the singleton row.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Ensure the row exists before patching it.
	if _, err := h.fetchOrCreate(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.ExchangeRate.Set {
		if req.ExchangeRate.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exchangeRate cannot be null"})
			return
		}
		rate := float64(req.ExchangeRate.Value)
		if rate <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exchangeRate must be positive"})
			return
		}
		sets = append(sets, "exchange_rate = "+arg(rate))
	}
	if req.TotalBudgetBRL.Set {
		if req.TotalBudgetBRL.Null {
			sets = append(sets, "total_budget_brl = NULL")
		} else {
			budget := float64(req.TotalBudgetBRL.Value)
			if budget < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "totalBudgetBrl cannot be negative"})
				return
			}
			sets = append(sets, "total_budget_brl = "+arg(budget))
		}
	}
	if req.NumberOfTravelers.Set {
		if req.NumberOfTravelers.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "numberOfTravelers cannot be null"})
			return
		}
		travelers := int(req.NumberOfTravelers.Value)
		if travelers < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "numberOfTravelers must be at least 1"})
			return
		}
		sets = append(sets, "number_of_travelers = "+arg(travelers))
	}

	query := fmt.Sprintf(`UPDATE app_settings SET %s WHERE id = 1`, strings.Join(sets, ", "))
	if _, err := h.DB.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	settings, err := h.fetchOrCreate()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	h.Sync.NotifyChanged("settings")
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) fetchOrCreate() (models.AppSettings, error) {
	var settings models.AppSettings
	err := h.DB.QueryRow(`
		SELECT id, exchange_rate, total_budget_brl, number_of_travelers, updated_at
		FROM app_settings
		WHERE id = 1
	`).Scan(&settings.ID, &settings.ExchangeRate, &settings.TotalBudgetBRL, &settings.NumberOfTravelers, &settings.UpdatedAt)
	if err == nil {
		return settings, nil
	}
	if err != sql.ErrNoRows {
		return models.AppSettings{}, err
	}

	// Lazy insert; ON CONFLICT covers a concurrent first read.
	err = h.DB.QueryRow(`
		INSERT INTO app_settings (id, exchange_rate, total_budget_brl, number_of_travelers)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET id = app_settings.id
		RETURNING id, exchange_rate, total_budget_brl, number_of_travelers, updated_at
	`, models.DefaultExchangeRate, float64(models.DefaultTotalBudgetBRL), models.DefaultTravelers).
		Scan(&settings.ID, &settings.ExchangeRate, &settings.TotalBudgetBRL, &settings.NumberOfTravelers, &settings.UpdatedAt)
	if err != nil {
		return models.AppSettings{}, err
	}
	return settings, nil
}
