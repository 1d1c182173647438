package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"trip-api/models"
)

// ReminderService composes the daily reminder notifications and hands
// them to the push service. Triggered by the cron endpoint and the
// in-process ticker.
type ReminderService struct {
	db    *sql.DB
	push  *PushService
	nowFn func() time.Time
}

func NewReminderService(db *sql.DB, push *PushService) *ReminderService {
	return &ReminderService{db: db, push: push, nowFn: time.Now}
}

// ReminderResult summarizes one reminder run.
type ReminderResult struct {
	Success           bool                         `json:"success"`
	NotificationsSent int                          `json:"notificationsSent"`
	TotalDelivered    int                          `json:"totalDelivered"`
	TotalFailed       int                          `json:"totalFailed"`
	Notifications     []models.NotificationPayload `json:"notifications"`
}

// ReminderInput feeds the pure reminder builder: the rows for today and
// tomorrow only.
type ReminderInput struct {
	Today          models.CivilDate
	EventsToday    []models.Event
	EventsTomorrow []models.Event
	Flights        []models.Flight
	Hotels         []models.Hotel
}

// Run fetches today's and tomorrow's schedule, builds the notifications
// and broadcasts each one.
func (s *ReminderService) Run(ctx context.Context) (ReminderResult, error) {
	today := models.CivilDateOf(s.nowFn())
	tomorrow := today.AddDays(1)

	eventsToday, err := s.fetchEventsOn(ctx, today)
	if err != nil {
		return ReminderResult{}, fmt.Errorf("fetch today's events: %w", err)
	}
	eventsTomorrow, err := s.fetchEventsOn(ctx, tomorrow)
	if err != nil {
		return ReminderResult{}, fmt.Errorf("fetch tomorrow's events: %w", err)
	}
	flights, err := s.fetchFlightsBetween(ctx, today, today.AddDays(2))
	if err != nil {
		return ReminderResult{}, fmt.Errorf("fetch flights: %w", err)
	}
	hotels, err := s.fetchHotelsCheckingIn(ctx, today)
	if err != nil {
		return ReminderResult{}, fmt.Errorf("fetch hotels: %w", err)
	}

	notifications := BuildReminders(ReminderInput{
		Today:          today,
		EventsToday:    eventsToday,
		EventsTomorrow: eventsTomorrow,
		Flights:        flights,
		Hotels:         hotels,
	})

	result := ReminderResult{
		Success:       true,
		Notifications: notifications,
	}
	if len(notifications) == 0 {
		return result, nil
	}

	for _, n := range notifications {
		sent, err := s.push.SendToAll(ctx, n)
		if err != nil {
			log.Printf("❌ Failed to broadcast %q: %v", n.Title, err)
			result.Success = false
			continue
		}
		result.NotificationsSent++
		result.TotalDelivered += sent.Sent
		result.TotalFailed += sent.Failed
	}

	log.Printf("🔔 Reminder run: %d notifications, %d delivered, %d failed",
		result.NotificationsSent, result.TotalDelivered, result.TotalFailed)
	return result, nil
}

// BuildReminders turns today's and tomorrow's schedule into at most five
// notifications: events today, events tomorrow, a flight today, a flight
// tomorrow and today's hotel check-in. Each flight day gets one
// notification at most, for its earliest departure.
func BuildReminders(in ReminderInput) []models.NotificationPayload {
	var out []models.NotificationPayload

	if n := eventReminder(in.EventsToday, "today"); n != nil {
		out = append(out, *n)
	}
	if n := eventReminder(in.EventsTomorrow, "tomorrow"); n != nil {
		out = append(out, *n)
	}
	out = append(out, flightReminders(in.Flights, in.Today)...)
	if n := hotelReminder(in.Hotels); n != nil {
		out = append(out, *n)
	}
	return out
}

func eventReminder(events []models.Event, when string) *models.NotificationPayload {
	if len(events) == 0 {
		return nil
	}
	title := "Events Today"
	if when == "tomorrow" {
		title = "Events Tomorrow"
	}
	body := fmt.Sprintf("You have %d events scheduled %s", len(events), when)
	if len(events) == 1 {
		body = events[0].Title
	}
	return &models.NotificationPayload{Title: title, Body: body, URL: "/events"}
}

// flightReminders emits one notification per day with a departure, each
// for that day's chronologically first flight. Today's carries the
// departure time, tomorrow's just the route.
func flightReminders(flights []models.Flight, today models.CivilDate) []models.NotificationPayload {
	var todayFlight, tomorrowFlight *models.Flight
	tomorrow := today.AddDays(1)

	for i := range flights {
		f := &flights[i]
		dep := models.CivilDateOf(f.DepartureDatetime)
		switch {
		case dep.Equal(today):
			if todayFlight == nil || f.DepartureDatetime.Before(todayFlight.DepartureDatetime) {
				todayFlight = f
			}
		case dep.Equal(tomorrow):
			if tomorrowFlight == nil || f.DepartureDatetime.Before(tomorrowFlight.DepartureDatetime) {
				tomorrowFlight = f
			}
		}
	}

	var out []models.NotificationPayload
	if todayFlight != nil {
		t := models.TimeOfDay{Hour: todayFlight.DepartureDatetime.Hour(), Minute: todayFlight.DepartureDatetime.Minute()}
		out = append(out, models.NotificationPayload{
			Title: "Flight Today!",
			Body:  fmt.Sprintf("%s at %s", flightBody(todayFlight), t.Format12()),
			URL:   "/flights",
		})
	}
	if tomorrowFlight != nil {
		out = append(out, models.NotificationPayload{
			Title: "Flight Tomorrow",
			Body:  flightBody(tomorrowFlight),
			URL:   "/flights",
		})
	}
	return out
}

func flightBody(f *models.Flight) string {
	return fmt.Sprintf("%s %s: %s → %s", f.Airline, f.FlightNumber, f.DepartureCity, f.ArrivalCity)
}

func hotelReminder(hotels []models.Hotel) *models.NotificationPayload {
	if len(hotels) == 0 {
		return nil
	}
	h := hotels[0]
	body := fmt.Sprintf("Check-in at %s", h.Name)
	if h.City != nil {
		body = fmt.Sprintf("Check-in at %s, %s", h.Name, *h.City)
	}
	return &models.NotificationPayload{Title: "Hotel Check-in Today", Body: body, URL: "/hotels"}
}

func (s *ReminderService) fetchEventsOn(ctx context.Context, date models.CivilDate) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.calendar_day_id, e.title, e.description, e.start_time, e.end_time,
		       e.location, e.category, e.created_at, e.updated_at
		FROM events e
		JOIN calendar_days cd ON e.calendar_day_id = cd.id
		WHERE cd.date = $1
		ORDER BY e.start_time ASC NULLS LAST
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
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

func (s *ReminderService) fetchFlightsBetween(ctx context.Context, from, until models.CivilDate) ([]models.Flight, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, airline, flight_number, departure_city, arrival_city,
		       departure_datetime, arrival_datetime, confirmation_number, price, currency, notes,
		       created_at, updated_at
		FROM flights
		WHERE departure_datetime >= $1 AND departure_datetime < $2
		ORDER BY departure_datetime ASC
	`, from.Time(), until.Time())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []models.Flight
	for rows.Next() {
		var f models.Flight
		if err := rows.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.DepartureCity, &f.ArrivalCity,
			&f.DepartureDatetime, &f.ArrivalDatetime, &f.ConfirmationNumber, &f.Price, &f.Currency, &f.Notes,
			&f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		f.DepartureDatetime = f.DepartureDatetime.UTC()
		f.ArrivalDatetime = f.ArrivalDatetime.UTC()
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (s *ReminderService) fetchHotelsCheckingIn(ctx context.Context, date models.CivilDate) ([]models.Hotel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, city, region_id, check_in_date, check_out_date,
		       confirmation_number, price_per_night, total_cost, currency, notes, created_at, updated_at
		FROM hotels
		WHERE check_in_date = $1
		ORDER BY name ASC
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hotels []models.Hotel
	for rows.Next() {
		var h models.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.City, &h.RegionID, &h.CheckInDate, &h.CheckOutDate,
			&h.ConfirmationNumber, &h.PricePerNight, &h.TotalCost, &h.Currency, &h.Notes, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}
