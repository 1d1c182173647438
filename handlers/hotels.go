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

type HotelHandler struct {
	DB   *sql.DB
	Sync *SyncHandler
}

const hotelColumns = `h.id, h.name, h.address, h.city, h.region_id, h.check_in_date, h.check_out_date,
	h.confirmation_number, h.price_per_night, h.total_cost, h.currency, h.notes, h.created_at, h.updated_at,
	r.id, r.name, r.code, r.color_hex, r.created_at`

// GetHotels lists stays in check-in order with their region.
func (h *HotelHandler) GetHotels(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT ` + hotelColumns + `
		FROM hotels h
		LEFT JOIN regions r ON h.region_id = r.id
		ORDER BY h.check_in_date ASC
	`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotels"})
		return
	}
	defer rows.Close()

	hotels := []models.Hotel{}
	for rows.Next() {
		hotel, err := scanHotel(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read hotels"})
			return
		}
		hotels = append(hotels, hotel)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read hotels"})
		return
	}

	c.JSON(http.StatusOK, hotels)
}

// GetHotel returns a single stay.
func (h *HotelHandler) GetHotel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	hotel, err := h.fetchHotel(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotel"})
		return
	}

	c.JSON(http.StatusOK, hotel)
}

// CreateHotel inserts a stay after validating the date range.
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	var req models.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.CheckOutDate.After(req.CheckInDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOutDate must be after checkInDate"})
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "BRL"
	}

	var regionID *int64
	if req.RegionID != nil {
		v := int64(*req.RegionID)
		regionID = &v
	}
	var pricePerNight, totalCost *float64
	if req.PricePerNight != nil {
		v := float64(*req.PricePerNight)
		pricePerNight = &v
	}
	if req.TotalCost != nil {
		v := float64(*req.TotalCost)
		totalCost = &v
	}

	var id int64
	err := h.DB.QueryRow(`
		INSERT INTO hotels (name, address, city, region_id, check_in_date, check_out_date,
			confirmation_number, price_per_night, total_cost, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, req.Name, req.Address, req.City, regionID, req.CheckInDate, req.CheckOutDate,
		req.ConfirmationNumber, pricePerNight, totalCost, currency, req.Notes).Scan(&id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hotel"})
		return
	}

	hotel, err := h.fetchHotel(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotel"})
		return
	}

	h.Sync.NotifyChanged("hotels")
	c.JSON(http.StatusCreated, hotel)
}

// UpdateHotel patches the provided fields. When either boundary date
// changes, the resulting range is re-validated against the stored row.
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	var req models.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	current, err := h.fetchHotel(id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotel"})
		return
	}

	checkIn := current.CheckInDate
	checkOut := current.CheckOutDate
	if req.CheckInDate.Set {
		if req.CheckInDate.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkInDate cannot be null"})
			return
		}
		checkIn = req.CheckInDate.Value
	}
	if req.CheckOutDate.Set {
		if req.CheckOutDate.Null {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkOutDate cannot be null"})
			return
		}
		checkOut = req.CheckOutDate.Value
	}
	if !checkOut.After(checkIn) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "checkOutDate must be after checkInDate"})
		return
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.Name.Set {
		if req.Name.Null || req.Name.Value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		sets = append(sets, "name = "+arg(req.Name.Value))
	}
	if req.Currency.Set {
		if req.Currency.Null || req.Currency.Value == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "currency cannot be empty"})
			return
		}
		sets = append(sets, "currency = "+arg(req.Currency.Value))
	}
	if req.CheckInDate.Set {
		sets = append(sets, "check_in_date = "+arg(checkIn))
	}
	if req.CheckOutDate.Set {
		sets = append(sets, "check_out_date = "+arg(checkOut))
	}
	if req.RegionID.Set {
		if req.RegionID.Null {
			sets = append(sets, "region_id = NULL")
		} else {
			sets = append(sets, "region_id = "+arg(int64(req.RegionID.Value)))
		}
	}
	for _, f := range []struct {
		patch  models.Patch[string]
		column string
	}{
		{req.Address, "address"},
		{req.City, "city"},
		{req.ConfirmationNumber, "confirmation_number"},
		{req.Notes, "notes"},
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
		{req.PricePerNight, "price_per_night"},
		{req.TotalCost, "total_cost"},
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

	query := fmt.Sprintf(`UPDATE hotels SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(id))
	if _, err := h.DB.Exec(query, args...); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hotel"})
		return
	}

	hotel, err := h.fetchHotel(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotel"})
		return
	}

	h.Sync.NotifyChanged("hotels")
	c.JSON(http.StatusOK, hotel)
}

// DeleteHotel removes a stay.
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	res, err := h.DB.Exec(`DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete hotel"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
		return
	}

	h.Sync.NotifyChanged("hotels")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *HotelHandler) fetchHotel(id int64) (models.Hotel, error) {
	row := h.DB.QueryRow(`
		SELECT `+hotelColumns+`
		FROM hotels h
		LEFT JOIN regions r ON h.region_id = r.id
		WHERE h.id = $1
	`, id)
	return scanHotel(row)
}

func scanHotel(row rowScanner) (models.Hotel, error) {
	var hotel models.Hotel
	var regionID sql.NullInt64
	var regionName, regionCode, regionColor sql.NullString
	var regionCreated sql.NullTime
	err := row.Scan(&hotel.ID, &hotel.Name, &hotel.Address, &hotel.City, &hotel.RegionID,
		&hotel.CheckInDate, &hotel.CheckOutDate, &hotel.ConfirmationNumber,
		&hotel.PricePerNight, &hotel.TotalCost, &hotel.Currency, &hotel.Notes,
		&hotel.CreatedAt, &hotel.UpdatedAt,
		&regionID, &regionName, &regionCode, &regionColor, &regionCreated)
	if err != nil {
		return models.Hotel{}, err
	}
	if regionID.Valid {
		hotel.Region = &models.Region{
			ID:        regionID.Int64,
			Name:      regionName.String,
			Code:      regionCode.String,
			ColorHex:  regionColor.String,
			CreatedAt: regionCreated.Time,
		}
	}
	return hotel, nil
}
