package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trip-api/models"
)

type ExpenseCategoryHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

// GetExpenseCategories lists the seeded categories with the derived
// spent total per category.
func (h *ExpenseCategoryHandler) GetExpenseCategories(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT c.id, c.name, c.icon, c.color_hex, c.budget_limit, c.daily_budget_per_person,
		       c.warning_threshold_percent, c.created_at,
		       COALESCE(SUM(e.amount_brl), 0)
		FROM expense_categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	defer rows.Close()

	categories := []models.ExpenseCategory{}
	for rows.Next() {
		var cat models.ExpenseCategory
		var spent float64
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.ColorHex, &cat.BudgetLimit,
			&cat.DailyBudgetPerPerson, &cat.WarningThresholdPercent, &cat.CreatedAt, &spent); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read categories"})
			return
		}
		cat.Spent = &spent
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// UpdateExpenseCategory patches budget fields on a category. Categories
// are seeded reference data: names are fixed and rows are never deleted.
func (h *ExpenseCategoryHandler) UpdateExpenseCategory(c *gin.Context) {
	var req models.UpdateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sets := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, f := range []struct {
		patch  models.Patch[string]
		column string
	}{
		{req.Icon, "icon"},
		{req.ColorHex, "color_hex"},
	} {
		if !f.patch.Set {
			continue
		}
		if f.patch.Null {
			sets = append(sets, f.column+" = NULL")
		} else {
			sets = append(sets, f.column+" = "+arg(f.patch.Value))
		}
	}
	for _, f := range []struct {
		patch  models.Patch[models.FlexFloat]
		column string
	}{
		{req.BudgetLimit, "budget_limit"},
		{req.DailyBudgetPerPerson, "daily_budget_per_person"},
	} {
		if !f.patch.Set {
			continue
		}
		if f.patch.Null {
			sets = append(sets, f.column+" = NULL")
		} else {
			sets = append(sets, f.column+" = "+arg(float64(f.patch.Value)))
		}
	}
	if req.WarningThresholdPercent.Set {
		if req.WarningThresholdPercent.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "warningThresholdPercent cannot be null"})
			return
		}
		pct := int(req.WarningThresholdPercent.Value)
		if pct < 1 || pct > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "warningThresholdPercent must be between 1 and 100"})
			return
		}
		sets = append(sets, "warning_threshold_percent = "+arg(pct))
	}

	if len(sets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query := fmt.Sprintf(`UPDATE expense_categories SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(req.ID))
	res, err := h.DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var cat models.ExpenseCategory
	var spent float64
	err = h.DB.QueryRow(`
		SELECT c.id, c.name, c.icon, c.color_hex, c.budget_limit, c.daily_budget_per_person,
		       c.warning_threshold_percent, c.created_at,
		       COALESCE(SUM(e.amount_brl), 0)
		FROM expense_categories c
		LEFT JOIN expenses e ON e.category_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`, req.ID).Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.ColorHex, &cat.BudgetLimit,
		&cat.DailyBudgetPerPerson, &cat.WarningThresholdPercent, &cat.CreatedAt, &spent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}
	cat.Spent = &spent

	h.Sync.NotifyChanged("expense-categories")
	c.JSON(http.StatusOK, cat)
}
