package models

import "time"

// CalendarDay is one row per date in the trip window. Rows are seeded once
// at startup and never deleted; users assign regions and notes to them.
type CalendarDay struct {
	ID        int64     `json:"id"`
	Date      CivilDate `json:"date"`
	RegionID  *int64    `json:"regionId"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Region      *Region   `json:"region,omitempty"`
	Events      []Event   `json:"events,omitempty"`
	Expenses    []Expense `json:"expenses,omitempty"`
	EventsCount *int      `json:"eventsCount,omitempty"`
}

// UpdateCalendarDayRequest patches region assignment and notes.
// regionCode is an alternative to regionId accepted for convenience;
// the handler resolves it against the regions table.
type UpdateCalendarDayRequest struct {
	RegionID   Patch[FlexInt] `json:"regionId"`
	RegionCode Patch[string]  `json:"regionCode"`
	Notes      Patch[string]  `json:"notes"`
}
