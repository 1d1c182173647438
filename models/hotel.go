package models

import "time"

type Hotel struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Address            *string   `json:"address"`
	City               *string   `json:"city"`
	RegionID           *int64    `json:"regionId"`
	CheckInDate        CivilDate `json:"checkInDate"`
	CheckOutDate       CivilDate `json:"checkOutDate"`
	ConfirmationNumber *string   `json:"confirmationNumber"`
	PricePerNight      *float64  `json:"pricePerNight"`
	TotalCost          *float64  `json:"totalCost"`
	Currency           string    `json:"currency"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Region *Region `json:"region,omitempty"`
}

// Nights returns the stay length; storage does not enforce
// checkOut > checkIn, handlers validate it before writing.
func (h Hotel) Nights() int {
	return h.CheckInDate.DaysUntil(h.CheckOutDate)
}

type CreateHotelRequest struct {
	Name               string     `json:"name" binding:"required"`
	Address            *string    `json:"address"`
	City               *string    `json:"city"`
	RegionID           *FlexInt   `json:"regionId"`
	CheckInDate        CivilDate  `json:"checkInDate" binding:"required"`
	CheckOutDate       CivilDate  `json:"checkOutDate" binding:"required"`
	ConfirmationNumber *string    `json:"confirmationNumber"`
	PricePerNight      *FlexFloat `json:"pricePerNight"`
	TotalCost          *FlexFloat `json:"totalCost"`
	Currency           string     `json:"currency"`
	Notes              *string    `json:"notes"`
}

type UpdateHotelRequest struct {
	Name               Patch[string]    `json:"name"`
	Address            Patch[string]    `json:"address"`
	City               Patch[string]    `json:"city"`
	RegionID           Patch[FlexInt]   `json:"regionId"`
	CheckInDate        Patch[CivilDate] `json:"checkInDate"`
	CheckOutDate       Patch[CivilDate] `json:"checkOutDate"`
	ConfirmationNumber Patch[string]    `json:"confirmationNumber"`
	PricePerNight      Patch[FlexFloat] `json:"pricePerNight"`
	TotalCost          Patch[FlexFloat] `json:"totalCost"`
	Currency           Patch[string]    `json:"currency"`
	Notes              Patch[string]    `json:"notes"`
}
