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

type CalendarDayHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

// GetCalendarDays lists every trip day in date order with its assigned
// region and an event count, the shape the calendar grid renders from.
func (h *CalendarDayHandler) GetCalendarDays(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT cd.id, cd.date, cd.region_id, cd.notes, cd.created_at, cd.updated_at,
		       r.id, r.name, r.code, r.color_hex, r.created_at,
		       (SELECT COUNT(*) FROM events e WHERE e.calendar_day_id = cd.id)
		FROM calendar_days cd
		LEFT JOIN regions r ON cd.region_id = r.id
		ORDER BY cd.date ASC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calendar days"})
		return
	}
	defer rows.Close()

	days := []models.CalendarDay{}
	for rows.Next() {
		var day models.CalendarDay
		var eventsCount int
		var regionID sql.NullInt64
		var regionName, regionCode, regionColor sql.NullString
		var regionCreated sql.NullTime
		if err := rows.Scan(&day.ID, &day.Date, &day.RegionID, &day.Notes, &day.CreatedAt, &day.UpdatedAt,
			&regionID, &regionName, &regionCode, &regionColor, &regionCreated, &eventsCount); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read calendar days"})
			return
		}
		if regionID.Valid {
			day.Region = &models.Region{
				ID:        regionID.Int64,
				Name:      regionName.String,
				Code:      regionCode.String,
				ColorHex:  regionColor.String,
				CreatedAt: regionCreated.Time,
			}
		}
		day.EventsCount = &eventsCount
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read calendar days"})
		return
	}

	c.JSON(http.StatusOK, days)
}

// GetCalendarDay returns one day with its region, events and expenses.
func (h *CalendarDayHandler) GetCalendarDay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar day ID"})
		return
	}

	var day models.CalendarDay
	var regionID sql.NullInt64
	var regionName, regionCode, regionColor sql.NullString
	var regionCreated sql.NullTime
	err = h.DB.QueryRow(`
		SELECT cd.id, cd.date, cd.region_id, cd.notes, cd.created_at, cd.updated_at,
		       r.id, r.name, r.code, r.color_hex, r.created_at
		FROM calendar_days cd
		LEFT JOIN regions r ON cd.region_id = r.id
		WHERE cd.id = $1
	`, id).Scan(&day.ID, &day.Date, &day.RegionID, &day.Notes, &day.CreatedAt, &day.UpdatedAt,
		&regionID, &regionName, &regionCode, &regionColor, &regionCreated)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Calendar day not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch calendar day"})
		return
	}
	if regionID.Valid {
		day.Region = &models.Region{
			ID:        regionID.Int64,
			Name:      regionName.String,
			Code:      regionCode.String,
			ColorHex:  regionColor.String,
			CreatedAt: regionCreated.Time,
		}
	}

	events, err := h.fetchDayEvents(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	day.Events = events

	expenses, err := h.fetchDayExpenses(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	day.Expenses = expenses

	c.JSON(http.StatusOK, day)
}

// UpdateCalendarDay patches region assignment and notes. regionCode is
// accepted as an alternative to regionId and resolved here; null clears
// the assignment either way.
func (h *CalendarDayHandler) UpdateCalendarDay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid calendar day ID"})
		return
	}

	var req models.UpdateCalendarDayRequest
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

	switch {
	case req.RegionID.Set:
		if req.RegionID.Null {
			sets = append(sets, "region_id = NULL")
		} else {
			regionID := int64(req.RegionID.Value)
			if !h.regionExists(regionID) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Region not found"})
				return
			}
			sets = append(sets, "region_id = "+arg(regionID))
		}
	case req.RegionCode.Set:
		if req.RegionCode.Null {
			sets = append(sets, "region_id = NULL")
		} else {
			var regionID int64
			err := h.DB.QueryRow(`SELECT id FROM regions WHERE code = $1`, req.RegionCode.Value).Scan(&regionID)
			if err == sql.ErrNoRows {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Region not found"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve region"})
				return
			}
			sets = append(sets, "region_id = "+arg(regionID))
		}
	}

	if req.Notes.Set {
		if req.Notes.Null {
			sets = append(sets, "notes = NULL")
		} else {
			sets = append(sets, "notes = "+arg(req.Notes.Value))
		}
	}

	query := fmt.Sprintf(`UPDATE calendar_days SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(id))
	res, err := h.DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update calendar day"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Calendar day not found"})
		return
	}

	h.Sync.NotifyChanged("calendar-days")
	h.GetCalendarDay(c)
}

func (h *CalendarDayHandler) regionExists(id int64) bool {
	var exists bool
	if err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM regions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false
	}
	return exists
}

func (h *CalendarDayHandler) fetchDayEvents(dayID int64) ([]models.Event, error) {
	rows, err := h.DB.Query(`
		SELECT id, calendar_day_id, title, description, start_time, end_time,
		       location, category, created_at, updated_at
		FROM events
		WHERE calendar_day_id = $1
		ORDER BY start_time ASC NULLS LAST
	`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var ev models.Event
		var start, end sql.Null[models.TimeOfDay]
		if err := rows.Scan(&ev.ID, &ev.CalendarDayID, &ev.Title, &ev.Description, &start, &end,
			&ev.Location, &ev.Category, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		if start.Valid {
			v := start.V
			ev.StartTime = &v
		}
		if end.Valid {
			v := end.V
			ev.EndTime = &v
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (h *CalendarDayHandler) fetchDayExpenses(dayID int64) ([]models.Expense, error) {
	rows, err := h.DB.Query(`
		SELECT e.id, e.date, e.amount_brl, e.category_id, e.description, e.calendar_day_id,
		       e.created_at, e.updated_at,
		       c.id, c.name, c.icon, c.color_hex, c.budget_limit, c.daily_budget_per_person,
		       c.warning_threshold_percent, c.created_at
		FROM expenses e
		JOIN expense_categories c ON e.category_id = c.id
		WHERE e.calendar_day_id = $1
		ORDER BY e.created_at DESC
	`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		var cat models.ExpenseCategory
		if err := rows.Scan(&e.ID, &e.Date, &e.AmountBRL, &e.CategoryID, &e.Description, &e.CalendarDayID,
			&e.CreatedAt, &e.UpdatedAt,
			&cat.ID, &cat.Name, &cat.Icon, &cat.ColorHex, &cat.BudgetLimit, &cat.DailyBudgetPerPerson,
			&cat.WarningThresholdPercent, &cat.CreatedAt); err != nil {
			return nil, err
		}
		e.Category = &cat
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
