package models

import "time"

// Region is seeded reference data: a named, colored geographic grouping
// of trip days.
type Region struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ColorHex  string    `json:"colorHex"`
	CreatedAt time.Time `json:"createdAt"`
}
