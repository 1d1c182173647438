package models

import (
	"fmt"
	"time"
)

// Flight timestamps are local airport time pinned to UTC: the wall-clock
// the traveler sees at the airport, stored with a UTC marker so no layer
// ever applies a timezone conversion on display.
type Flight struct {
	ID                 int64     `json:"id"`
	Airline            string    `json:"airline"`
	FlightNumber       string    `json:"flightNumber"`
	DepartureCity      string    `json:"departureCity"`
	ArrivalCity        string    `json:"arrivalCity"`
	DepartureDatetime  time.Time `json:"departureDatetime"`
	ArrivalDatetime    time.Time `json:"arrivalDatetime"`
	ConfirmationNumber *string   `json:"confirmationNumber"`
	Price              *float64  `json:"price"`
	Currency           string    `json:"currency"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type CreateFlightRequest struct {
	Airline            string     `json:"airline" binding:"required"`
	FlightNumber       string     `json:"flightNumber" binding:"required"`
	DepartureCity      string     `json:"departureCity" binding:"required"`
	ArrivalCity        string     `json:"arrivalCity" binding:"required"`
	DepartureDatetime  string     `json:"departureDatetime" binding:"required"`
	ArrivalDatetime    string     `json:"arrivalDatetime" binding:"required"`
	ConfirmationNumber *string    `json:"confirmationNumber"`
	Price              *FlexFloat `json:"price"`
	Currency           string     `json:"currency"`
	Notes              *string    `json:"notes"`
}

type UpdateFlightRequest struct {
	Airline            Patch[string]    `json:"airline"`
	FlightNumber       Patch[string]    `json:"flightNumber"`
	DepartureCity      Patch[string]    `json:"departureCity"`
	ArrivalCity        Patch[string]    `json:"arrivalCity"`
	DepartureDatetime  Patch[string]    `json:"departureDatetime"`
	ArrivalDatetime    Patch[string]    `json:"arrivalDatetime"`
	ConfirmationNumber Patch[string]    `json:"confirmationNumber"`
	Price              Patch[FlexFloat] `json:"price"`
	Currency           Patch[string]    `json:"currency"`
	Notes              Patch[string]    `json:"notes"`
}

// ParseAirportTime parses "2006-01-02T15:04" (seconds optional) as
// UTC-anchored local airport time.
func ParseAirportTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q: expected YYYY-MM-DDTHH:MM", s)
}
