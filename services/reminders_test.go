package services

import (
	"testing"
	"time"

	"trip-api/models"
)

func TestBuildRemindersEmptySchedule(t *testing.T) {
	t.Parallel()

	got := BuildReminders(ReminderInput{Today: models.NewCivilDate(2026, time.January, 10)})
	if len(got) != 0 {
		t.Errorf("got %d notifications, want 0", len(got))
	}
}

func TestBuildRemindersSingleEventToday(t *testing.T) {
	t.Parallel()

	in := ReminderInput{
		Today: models.NewCivilDate(2026, time.January, 10),
		EventsToday: []models.Event{
			{ID: 1, Title: "Ibirapuera Park", StartTime: timeOfDay(9, 30)},
		},
	}

	got := BuildReminders(in)
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}
	n := got[0]
	if n.Title != "Events Today" {
		t.Errorf("Title = %q, want %q", n.Title, "Events Today")
	}
	// A single event puts its bare title in the body.
	if n.Body != "Ibirapuera Park" {
		t.Errorf("Body = %q, want %q", n.Body, "Ibirapuera Park")
	}
	if n.URL != "/events" {
		t.Errorf("URL = %q, want /events", n.URL)
	}
}

func TestBuildRemindersMultipleEventsTomorrow(t *testing.T) {
	t.Parallel()

	in := ReminderInput{
		Today: models.NewCivilDate(2026, time.January, 10),
		EventsTomorrow: []models.Event{
			{ID: 1, Title: "Market"},
			{ID: 2, Title: "Dinner"},
			{ID: 3, Title: "Show"},
		},
	}

	got := BuildReminders(in)
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}
	if got[0].Title != "Events Tomorrow" {
		t.Errorf("Title = %q, want %q", got[0].Title, "Events Tomorrow")
	}
	if got[0].Body != "You have 3 events scheduled tomorrow" {
		t.Errorf("Body = %q, want %q", got[0].Body, "You have 3 events scheduled tomorrow")
	}
}

func TestBuildRemindersFlightPerDay(t *testing.T) {
	t.Parallel()

	today := models.NewCivilDate(2026, time.January, 10)
	in := ReminderInput{
		Today: today,
		Flights: []models.Flight{
			{
				ID:                1,
				Airline:           "LATAM",
				FlightNumber:      "LA3456",
				DepartureCity:     "São Paulo",
				ArrivalCity:       "Florianópolis",
				DepartureDatetime: time.Date(2026, time.January, 11, 8, 0, 0, 0, time.UTC),
			},
			{
				ID:                2,
				Airline:           "GOL",
				FlightNumber:      "G31402",
				DepartureCity:     "Belo Horizonte",
				ArrivalCity:       "Goiânia",
				DepartureDatetime: time.Date(2026, time.January, 10, 14, 15, 0, 0, time.UTC),
			},
			{
				ID:                3,
				Airline:           "Azul",
				FlightNumber:      "AD4020",
				DepartureCity:     "Goiânia",
				ArrivalCity:       "São Paulo",
				DepartureDatetime: time.Date(2026, time.January, 10, 6, 45, 0, 0, time.UTC),
			},
		},
	}

	got := BuildReminders(in)
	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}

	n := got[0]
	if n.Title != "Flight Today!" {
		t.Errorf("Title = %q, want %q", n.Title, "Flight Today!")
	}
	// The chronologically first of today's flights, not the list's first.
	want := "Azul AD4020: Goiânia → São Paulo at 6:45 AM"
	if n.Body != want {
		t.Errorf("Body = %q, want %q", n.Body, want)
	}
	if n.URL != "/flights" {
		t.Errorf("URL = %q, want /flights", n.URL)
	}

	// A departure today never suppresses tomorrow's notification.
	n = got[1]
	if n.Title != "Flight Tomorrow" {
		t.Errorf("Title = %q, want %q", n.Title, "Flight Tomorrow")
	}
	if n.Body != "LATAM LA3456: São Paulo → Florianópolis" {
		t.Errorf("Body = %q", n.Body)
	}
}

func TestBuildRemindersFlightTomorrow(t *testing.T) {
	t.Parallel()

	in := ReminderInput{
		Today: models.NewCivilDate(2026, time.January, 10),
		Flights: []models.Flight{
			{
				ID:                1,
				Airline:           "LATAM",
				FlightNumber:      "LA3456",
				DepartureCity:     "São Paulo",
				ArrivalCity:       "Florianópolis",
				DepartureDatetime: time.Date(2026, time.January, 11, 18, 30, 0, 0, time.UTC),
			},
		},
	}

	got := BuildReminders(in)
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}
	if got[0].Title != "Flight Tomorrow" {
		t.Errorf("Title = %q, want %q", got[0].Title, "Flight Tomorrow")
	}
	want := "LATAM LA3456: São Paulo → Florianópolis"
	if got[0].Body != want {
		t.Errorf("Body = %q, want %q", got[0].Body, want)
	}
}

func TestBuildRemindersHotelCheckIn(t *testing.T) {
	t.Parallel()

	city := "Belo Horizonte"
	in := ReminderInput{
		Today: models.NewCivilDate(2026, time.January, 10),
		Hotels: []models.Hotel{
			{ID: 1, Name: "Hotel Ouro Minas", City: &city},
		},
	}

	got := BuildReminders(in)
	if len(got) != 1 {
		t.Fatalf("got %d notifications, want 1", len(got))
	}
	if got[0].Title != "Hotel Check-in Today" {
		t.Errorf("Title = %q, want %q", got[0].Title, "Hotel Check-in Today")
	}
	if got[0].Body != "Check-in at Hotel Ouro Minas, Belo Horizonte" {
		t.Errorf("Body = %q", got[0].Body)
	}
}

func TestBuildRemindersBusyDay(t *testing.T) {
	t.Parallel()

	today := models.NewCivilDate(2026, time.January, 10)
	in := ReminderInput{
		Today:          today,
		EventsToday:    []models.Event{{ID: 1, Title: "Checkout brunch"}},
		EventsTomorrow: []models.Event{{ID: 2, Title: "Beach"}, {ID: 3, Title: "Surf class"}},
		Flights: []models.Flight{
			{
				ID:                1,
				Airline:           "GOL",
				FlightNumber:      "G31402",
				DepartureCity:     "São Paulo",
				ArrivalCity:       "Florianópolis",
				DepartureDatetime: time.Date(2026, time.January, 10, 11, 0, 0, 0, time.UTC),
			},
		},
		Hotels: []models.Hotel{{ID: 1, Name: "Pousada do Mar"}},
	}

	got := BuildReminders(in)
	if len(got) != 4 {
		t.Fatalf("got %d notifications, want 4", len(got))
	}

	titles := []string{got[0].Title, got[1].Title, got[2].Title, got[3].Title}
	want := []string{"Events Today", "Events Tomorrow", "Flight Today!", "Hotel Check-in Today"}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, titles[i], want[i])
		}
	}
}
