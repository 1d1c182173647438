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

type FlightHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

const flightColumns = `id, airline, flight_number, departure_city, arrival_city,
	departure_datetime, arrival_datetime, confirmation_number, price, currency, notes,
	created_at, updated_at`

// GetFlights lists flights in departure order.
func (h *FlightHandler) GetFlights(c *gin.Context) {
	rows, err := h.DB.Query(`SELECT ` + flightColumns + ` FROM flights ORDER BY departure_datetime ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flights"})
		return
	}
	defer rows.Close()

	flights := []models.Flight{}
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read flights"})
			return
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read flights"})
		return
	}

	c.JSON(http.StatusOK, flights)
}

// GetFlight returns a single flight.
func (h *FlightHandler) GetFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight ID"})
		return
	}

	f, err := h.fetchFlight(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flight not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flight"})
		return
	}

	c.JSON(http.StatusOK, f)
}

// CreateFlight inserts a flight. Datetimes are wall-clock airport times.
func (h *FlightHandler) CreateFlight(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	departure, err := models.ParseAirportTime(req.DepartureDatetime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	arrival, err := models.ParseAirportTime(req.ArrivalDatetime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "BRL"
	}

	var price *float64
	if req.Price != nil {
		v := float64(*req.Price)
		price = &v
	}

	var id int64
	err = h.DB.QueryRow(`
		INSERT INTO flights (airline, flight_number, departure_city, arrival_city,
			departure_datetime, arrival_datetime, confirmation_number, price, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, req.Airline, req.FlightNumber, req.DepartureCity, req.ArrivalCity,
		departure, arrival, req.ConfirmationNumber, price, currency, req.Notes).Scan(&id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create flight"})
		return
	}

	f, err := h.fetchFlight(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flight"})
		return
	}

	h.Sync.NotifyChanged("flights")
	c.JSON(http.StatusCreated, f)
}

// UpdateFlight patches the provided fields only.
func (h *FlightHandler) UpdateFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight ID"})
		return
	}

	var req models.UpdateFlightRequest
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

	// Required columns reject explicit nulls.
	for _, f := range []struct {
		patch  models.Patch[string]
		column string
	}{
		{req.Airline, "airline"},
		{req.FlightNumber, "flight_number"},
		{req.DepartureCity, "departure_city"},
		{req.ArrivalCity, "arrival_city"},
		{req.Currency, "currency"},
	} {
		if !f.patch.Set {
			continue
		}
		if f.patch.Null || f.patch.Value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": f.column + " cannot be empty"})
			return
		}
		sets = append(sets, f.column+" = "+arg(f.patch.Value))
	}

	for _, f := range []struct {
		patch  models.Patch[string]
		column string
	}{
		{req.DepartureDatetime, "departure_datetime"},
		{req.ArrivalDatetime, "arrival_datetime"},
	} {
		if !f.patch.Set {
			continue
		}
		if f.patch.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": f.column + " cannot be null"})
			return
		}
		t, err := models.ParseAirportTime(f.patch.Value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sets = append(sets, f.column+" = "+arg(t))
	}

	if req.ConfirmationNumber.Set {
		if req.ConfirmationNumber.Null {
			sets = append(sets, "confirmation_number = NULL")
		} else {
			sets = append(sets, "confirmation_number = "+arg(req.ConfirmationNumber.Value))
		}
	}
	if req.Price.Set {
		if req.Price.Null {
			sets = append(sets, "price = NULL")
		} else {
			sets = append(sets, "price = "+arg(float64(req.Price.Value)))
		}
	}
	if req.Notes.Set {
		if req.Notes.Null {
			sets = append(sets, "notes = NULL")
		} else {
			sets = append(sets, "notes = "+arg(req.Notes.Value))
		}
	}

	query := fmt.Sprintf(`UPDATE flights SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(id))
	res, err := h.DB.Exec(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flight"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flight not found"})
		return
	}

	f, err := h.fetchFlight(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flight"})
		return
	}

	h.Sync.NotifyChanged("flights")
	c.JSON(http.StatusOK, f)
}

// DeleteFlight removes a flight.
func (h *FlightHandler) DeleteFlight(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight ID"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete flight"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Flight not found"})
		return
	}

	h.Sync.NotifyChanged("flights")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FlightHandler) fetchFlight(id int64) (models.Flight, error) {
	row := h.DB.QueryRow(`SELECT `+flightColumns+` FROM flights WHERE id = $1`, id)
	return scanFlight(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFlight(row rowScanner) (models.Flight, error) {
	var f models.Flight
	err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.DepartureCity, &f.ArrivalCity,
		&f.DepartureDatetime, &f.ArrivalDatetime, &f.ConfirmationNumber, &f.Price, &f.Currency, &f.Notes,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return models.Flight{}, err
	}
	// Stored as wall-clock airport time; re-pin to UTC so JSON never shifts.
	f.DepartureDatetime = f.DepartureDatetime.UTC()
	f.ArrivalDatetime = f.ArrivalDatetime.UTC()
	return f, nil
}
