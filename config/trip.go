package config

import (
	"log"
	"os"
	"time"

	"trip-api/models"
)

// Trip holds the fixed calendar range the whole app plans against.
// Calendar days are seeded once for every date in [Start, End] inclusive.
type Trip struct {
	Start models.CivilDate
	End   models.CivilDate
}

// Defaults match the planned Brazil trip window.
var defaultTrip = Trip{
	Start: models.NewCivilDate(2026, time.January, 1),
	End:   models.NewCivilDate(2026, time.February, 7),
}

func LoadTrip() Trip {
	trip := defaultTrip
	if v := os.Getenv("TRIP_START"); v != "" {
		d, err := models.ParseCivilDate(v)
		if err != nil {
			log.Printf("⚠️ Invalid TRIP_START %q, using default %s", v, trip.Start)
		} else {
			trip.Start = d
		}
	}
	if v := os.Getenv("TRIP_END"); v != "" {
		d, err := models.ParseCivilDate(v)
		if err != nil {
			log.Printf("⚠️ Invalid TRIP_END %q, using default %s", v, trip.End)
		} else {
			trip.End = d
		}
	}
	if trip.End.Before(trip.Start) {
		log.Printf("⚠️ TRIP_END before TRIP_START, using defaults")
		trip = defaultTrip
	}
	return trip
}

// TotalDays is the inclusive day count of the trip window.
func (t Trip) TotalDays() int {
	return t.Start.DaysUntil(t.End) + 1
}

// Contains reports whether d falls inside the trip window.
func (t Trip) Contains(d models.CivilDate) bool {
	return !d.Before(t.Start) && !d.After(t.End)
}
