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

type EventHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

const eventColumns = `e.id, e.calendar_day_id, e.title, e.description, e.start_time, e.end_time,
	e.location, e.category, e.created_at, e.updated_at,
	cd.id, cd.date, cd.region_id, cd.notes, cd.created_at, cd.updated_at,
	r.id, r.name, r.code, r.color_hex, r.created_at`

// GetEvents lists every event with its calendar day and region, ordered
// chronologically.
func (h *EventHandler) GetEvents(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT ` + eventColumns + `
		FROM events e
		JOIN calendar_days cd ON e.calendar_day_id = cd.id
		LEFT JOIN regions r ON cd.region_id = r.id
		ORDER BY cd.date ASC, e.start_time ASC NULLS LAST
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read events"})
			return
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent returns a single event.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	ev, err := h.fetchEvent(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, ev)
}

// CreateEvent inserts an event anchored to an existing calendar day.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dayID := int64(req.CalendarDayID)
	if !h.calendarDayExists(dayID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Calendar day not found"})
		return
	}

	var id int64
	err := h.DB.QueryRow(`
		INSERT INTO events (calendar_day_id, title, description, start_time, end_time, location, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, dayID, req.Title, req.Description, req.StartTime, req.EndTime, req.Location, req.Category).Scan(&id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	ev, err := h.fetchEvent(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	h.Sync.NotifyChanged("events")
	c.JSON(http.StatusCreated, ev)
}

// UpdateEvent patches the provided fields only.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.UpdateEventRequest
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

	if req.CalendarDayID.Set {
		if req.CalendarDayID.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "calendarDayId cannot be null"})
			return
		}
		dayID := int64(req.CalendarDayID.Value)
		if !h.calendarDayExists(dayID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Calendar day not found"})
			return
		}
		sets = append(sets, "calendar_day_id = "+arg(dayID))
	}
	if req.Title.Set {
		if req.Title.Null || req.Title.Value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		sets = append(sets, "title = "+arg(req.Title.Value))
	}
	for _, f := range []struct {
		patch  models.Patch[string]
		column string
	}{
		{req.Description, "description"},
		{req.Location, "location"},
		{req.Category, "category"},
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
		patch  models.Patch[models.TimeOfDay]
		column string
	}{
		{req.StartTime, "start_time"},
		{req.EndTime, "end_time"},
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

	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(id))
	res, err := h.DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	ev, err := h.fetchEvent(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	h.Sync.NotifyChanged("events")
	c.JSON(http.StatusOK, ev)
}

// DeleteEvent removes an event.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	h.Sync.NotifyChanged("events")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EventHandler) calendarDayExists(id int64) bool {
	var exists bool
	if err := h.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM calendar_days WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false
	}
	return exists
}

func (h *EventHandler) fetchEvent(id int64) (models.Event, error) {
	row := h.DB.QueryRow(`
		SELECT `+eventColumns+`
		FROM events e
		JOIN calendar_days cd ON e.calendar_day_id = cd.id
		LEFT JOIN regions r ON cd.region_id = r.id
		WHERE e.id = $1
	`, id)
	return scanEvent(row)
}

func scanEvent(row rowScanner) (models.Event, error) {
	var ev models.Event
	var day models.CalendarDay
	var start, end sql.Null[models.TimeOfDay]
	var regionID sql.NullInt64
	var regionName, regionCode, regionColor sql.NullString
	var regionCreated sql.NullTime
	err := row.Scan(&ev.ID, &ev.CalendarDayID, &ev.Title, &ev.Description, &start, &end,
		&ev.Location, &ev.Category, &ev.CreatedAt, &ev.UpdatedAt,
		&day.ID, &day.Date, &day.RegionID, &day.Notes, &day.CreatedAt, &day.UpdatedAt,
		&regionID, &regionName, &regionCode, &regionColor, &regionCreated)
	if err != nil {
		return models.Event{}, err
	}
	if start.Valid {
		v := start.V
		ev.StartTime = &v
	}
	if end.Valid {
		v := end.V
		ev.EndTime = &v
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
	ev.CalendarDay = &day
	return ev, nil
}
