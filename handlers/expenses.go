package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"trip-api/models"
)

type ExpenseHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

const expenseColumns = `e.id, e.date, e.amount_brl, e.category_id, e.description, e.calendar_day_id,
	e.created_at, e.updated_at,
	c.id, c.name, c.icon, c.color_hex, c.budget_limit, c.daily_budget_per_person,
	c.warning_threshold_percent, c.created_at,
	cd.id, cd.date, cd.region_id, cd.notes, cd.created_at, cd.updated_at,
	r.id, r.name, r.code, r.color_hex, r.created_at`

const expenseJoins = `
	FROM expenses e
	JOIN expense_categories c ON e.category_id = c.id
	LEFT JOIN calendar_days cd ON e.calendar_day_id = cd.id
	LEFT JOIN regions r ON cd.region_id = r.id`

// GetExpenses lists expenses newest first with their category and, when
// linked, the calendar day they were logged against.
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT ` + expenseColumns + expenseJoins + `
		ORDER BY e.date DESC, e.created_at DESC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read expenses"})
			return
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetExpense returns a single expense.
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	e, err := h.fetchExpense(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	c.JSON(http.StatusOK, e)
}

// CreateExpense inserts a spend record. The category must exist; a bad
// reference answers 400, not 500, so clients can surface it.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount := float64(req.AmountBRL)
	if amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amountBrl must be positive"})
		return
	}

	categoryID := int64(req.CategoryID)
	if !h.categoryExists(categoryID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	var calendarDayID *int64
	if req.CalendarDayID != nil {
		v := int64(*req.CalendarDayID)
		calendarDayID = &v
	}

	var id int64
	err := h.DB.QueryRow(`
		INSERT INTO expenses (date, amount_brl, category_id, description, calendar_day_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, req.Date, amount, categoryID, req.Description, calendarDayID).Scan(&id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	e, err := h.fetchExpense(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	h.Sync.NotifyChanged("expenses")
	c.JSON(http.StatusCreated, e)
}

// UpdateExpense patches the provided fields only.
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.Date.Set {
		if req.Date.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date cannot be null"})
			return
		}
		sets = append(sets, "date = "+arg(req.Date.Value))
	}
	if req.AmountBRL.Set {
		if req.AmountBRL.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amountBrl cannot be null"})
			return
		}
		amount := float64(req.AmountBRL.Value)
		if amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amountBrl must be positive"})
			return
		}
		sets = append(sets, "amount_brl = "+arg(amount))
	}
	if req.CategoryID.Set {
		if req.CategoryID.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "categoryId cannot be null"})
			return
		}
		categoryID := int64(req.CategoryID.Value)
		if !h.categoryExists(categoryID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		sets = append(sets, "category_id = "+arg(categoryID))
	}
	if req.Description.Set {
		if req.Description.Null {
			sets = append(sets, "description = NULL")
		} else {
			sets = append(sets, "description = "+arg(req.Description.Value))
		}
	}
	if req.CalendarDayID.Set {
		if req.CalendarDayID.Null {
			sets = append(sets, "calendar_day_id = NULL")
		} else {
			sets = append(sets, "calendar_day_id = "+arg(int64(req.CalendarDayID.Value)))
		}
	}

	query := fmt.Sprintf(`UPDATE expenses SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(id))
	res, err := h.DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	e, err := h.fetchExpense(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	h.Sync.NotifyChanged("expenses")
	c.JSON(http.StatusOK, e)
}

// DeleteExpense removes a spend record.
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	h.Sync.NotifyChanged("expenses")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ExpenseHandler) categoryExists(id int64) bool {
	var exists bool
	if err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM expense_categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false
	}
	return exists
}

func (h *ExpenseHandler) fetchExpense(id int64) (models.Expense, error) {
	row := h.DB.QueryRow(`
		SELECT `+expenseColumns+expenseJoins+`
		WHERE e.id = $1
	`, id)
	return scanExpense(row)
}

func scanExpense(row rowScanner) (models.Expense, error) {
	var e models.Expense
	var cat models.ExpenseCategory
	var dayID sql.NullInt64
	var dayDate sql.NullTime
	var dayRegionID, regionID sql.NullInt64
	var dayNotes, regionName, regionCode, regionColor sql.NullString
	var dayCreated, dayUpdated, regionCreated sql.NullTime
	err := row.Scan(&e.ID, &e.Date, &e.AmountBRL, &e.CategoryID, &e.Description, &e.CalendarDayID,
		&e.CreatedAt, &e.UpdatedAt,
		&cat.ID, &cat.Name, &cat.Icon, &cat.ColorHex, &cat.BudgetLimit, &cat.DailyBudgetPerPerson,
		&cat.WarningThresholdPercent, &cat.CreatedAt,
		&dayID, &dayDate, &dayRegionID, &dayNotes, &dayCreated, &dayUpdated,
		&regionID, &regionName, &regionCode, &regionColor, &regionCreated)
	if err != nil {
		return models.Expense{}, err
	}
	e.Category = &cat
	if dayID.Valid {
		day := &models.CalendarDay{
			ID:        dayID.Int64,
			Date:      models.CivilDateOf(dayDate.Time),
			CreatedAt: dayCreated.Time,
			UpdatedAt: dayUpdated.Time,
		}
		if dayRegionID.Valid {
			day.RegionID = &dayRegionID.Int64
			day.Region = &models.Region{
				ID:        regionID.Int64,
				Name:      regionName.String,
				Code:      regionCode.String,
				ColorHex:  regionColor.String,
				CreatedAt: regionCreated.Time,
			}
		}
		if dayNotes.Valid {
			day.Notes = &dayNotes.String
		}
		e.CalendarDay = day
	}
	return e, nil
}
