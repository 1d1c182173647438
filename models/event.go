package models

import "time"

// Event is a scheduled activity anchored to a calendar day. Start and end
// times are pure time-of-day values, immune to timezone drift.
type Event struct {
	ID            int64      `json:"id"`
	CalendarDayID int64      `json:"calendarDayId"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	StartTime     *TimeOfDay `json:"startTime"`
	EndTime       *TimeOfDay `json:"endTime"`
	Location      *string    `json:"location"`
	Category      *string    `json:"category"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	CalendarDay *CalendarDay `json:"calendarDay,omitempty"`
}

type CreateEventRequest struct {
	CalendarDayID FlexInt    `json:"calendarDayId" binding:"required"`
	Title         string     `json:"title" binding:"required"`
	Description   *string    `json:"description"`
	StartTime     *TimeOfDay `json:"startTime"`
	EndTime       *TimeOfDay `json:"endTime"`
	Location      *string    `json:"location"`
	Category      *string    `json:"category"`
}

type UpdateEventRequest struct {
	CalendarDayID Patch[FlexInt]   `json:"calendarDayId"`
	Title         Patch[string]    `json:"title"`
	Description   Patch[string]    `json:"description"`
	StartTime     Patch[TimeOfDay] `json:"startTime"`
	EndTime       Patch[TimeOfDay] `json:"endTime"`
	Location      Patch[string]    `json:"location"`
	Category      Patch[string]    `json:"category"`
}
