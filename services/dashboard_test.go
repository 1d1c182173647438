package services

import (
	"testing"
	"time"

	"trip-api/models"
)

func floatPtr(v float64) *float64 { return &v }

func timeOfDay(h, m int) *models.TimeOfDay {
	return &models.TimeOfDay{Hour: h, Minute: m}
}

func dayOn(date models.CivilDate) *models.CalendarDay {
	return &models.CalendarDay{Date: date}
}

func testSettings() models.AppSettings {
	return models.AppSettings{
		ID:                1,
		ExchangeRate:      5.4,
		TotalBudgetBRL:    floatPtr(10000),
		NumberOfTravelers: 3,
	}
}

func TestBuildDashboardTotals(t *testing.T) {
	t.Parallel()

	food := models.ExpenseCategory{ID: 1, Name: "Food", BudgetLimit: floatPtr(2000), WarningThresholdPercent: 80}
	transport := models.ExpenseCategory{ID: 2, Name: "Transportation", BudgetLimit: floatPtr(1000), WarningThresholdPercent: 80}

	in := DashboardInput{
		Settings:   testSettings(),
		Categories: []models.ExpenseCategory{food, transport},
		Expenses: []models.Expense{
			{ID: 1, CategoryID: 1, AmountBRL: 500},
			{ID: 2, CategoryID: 1, AmountBRL: 300},
			{ID: 3, CategoryID: 2, AmountBRL: 900},
		},
		Today:     models.NewCivilDate(2025, time.December, 22),
		TripStart: models.NewCivilDate(2026, time.January, 1),
		TotalDays: 38,
	}

	stats := BuildDashboard(in)

	if stats.TotalBudget != 10000 {
		t.Errorf("TotalBudget = %v, want 10000", stats.TotalBudget)
	}
	if stats.TotalSpent != 1700 {
		t.Errorf("TotalSpent = %v, want 1700", stats.TotalSpent)
	}
	if stats.RemainingBudget != 8300 {
		t.Errorf("RemainingBudget = %v, want 8300", stats.RemainingBudget)
	}
	if stats.BudgetStatus != models.BudgetOK {
		t.Errorf("BudgetStatus = %q, want ok", stats.BudgetStatus)
	}
	if stats.DaysUntilTrip != 10 {
		t.Errorf("DaysUntilTrip = %d, want 10", stats.DaysUntilTrip)
	}

	if len(stats.ExpensesByCategory) != 2 {
		t.Fatalf("ExpensesByCategory has %d entries, want 2", len(stats.ExpensesByCategory))
	}
	foodSpend := stats.ExpensesByCategory[0]
	if foodSpend.Spent != 800 || foodSpend.Percentage != 40 || foodSpend.Status != models.BudgetOK {
		t.Errorf("food = {Spent:%v Pct:%v Status:%q}, want {800 40 ok}",
			foodSpend.Spent, foodSpend.Percentage, foodSpend.Status)
	}
	transportSpend := stats.ExpensesByCategory[1]
	if transportSpend.Spent != 900 || transportSpend.Status != models.BudgetWarning {
		t.Errorf("transport = {Spent:%v Status:%q}, want {900 warning}",
			transportSpend.Spent, transportSpend.Status)
	}
}

func TestBuildDashboardClampsRemainingAndCountdown(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.TotalBudgetBRL = floatPtr(1000)

	in := DashboardInput{
		Settings: settings,
		Categories: []models.ExpenseCategory{
			{ID: 1, Name: "Other", WarningThresholdPercent: 80},
		},
		Expenses: []models.Expense{{ID: 1, CategoryID: 1, AmountBRL: 1500}},
		// Trip already started: countdown stays at zero, not negative.
		Today:     models.NewCivilDate(2026, time.January, 10),
		TripStart: models.NewCivilDate(2026, time.January, 1),
		TotalDays: 38,
	}

	stats := BuildDashboard(in)

	if stats.RemainingBudget != 0 {
		t.Errorf("RemainingBudget = %v, want 0", stats.RemainingBudget)
	}
	if stats.BudgetStatus != models.BudgetExceeded {
		t.Errorf("BudgetStatus = %q, want exceeded", stats.BudgetStatus)
	}
	if stats.DaysUntilTrip != 0 {
		t.Errorf("DaysUntilTrip = %d, want 0", stats.DaysUntilTrip)
	}
}

func TestBuildDashboardEmptyInputs(t *testing.T) {
	t.Parallel()

	stats := BuildDashboard(DashboardInput{Settings: models.DefaultSettings(), TotalDays: 38})

	if stats.TotalSpent != 0 {
		t.Errorf("TotalSpent = %v, want 0", stats.TotalSpent)
	}
	if stats.BudgetStatus != models.BudgetOK {
		t.Errorf("BudgetStatus = %q, want ok", stats.BudgetStatus)
	}
	if len(stats.ExpensesByCategory) != 0 || len(stats.RegionDays) != 0 || len(stats.UpcomingEvents) != 0 {
		t.Error("empty inputs should produce empty slices")
	}
}

func TestFoldRegionDays(t *testing.T) {
	t.Parallel()

	sp := models.Region{ID: 1, Name: "São Paulo", Code: "SP"}
	mg := models.Region{ID: 2, Name: "Minas Gerais", Code: "MG"}

	days := []models.CalendarDay{
		{ID: 1, Region: &sp},
		{ID: 2, Region: &sp},
		{ID: 3, Region: &mg},
		{ID: 4}, // unassigned, not counted
	}

	result := foldRegionDays(days, 10)
	if len(result) != 2 {
		t.Fatalf("got %d regions, want 2", len(result))
	}

	// Sorted by region name: Minas Gerais first.
	if result[0].Region.Code != "MG" || result[0].Days != 1 || result[0].Percentage != 10 {
		t.Errorf("first = {%s %d %v}, want {MG 1 10}", result[0].Region.Code, result[0].Days, result[0].Percentage)
	}
	if result[1].Region.Code != "SP" || result[1].Days != 2 || result[1].Percentage != 20 {
		t.Errorf("second = {%s %d %v}, want {SP 2 20}", result[1].Region.Code, result[1].Days, result[1].Percentage)
	}
}

func TestUpcomingEventsOrdering(t *testing.T) {
	t.Parallel()

	jan10 := models.NewCivilDate(2026, time.January, 10)
	jan11 := models.NewCivilDate(2026, time.January, 11)

	events := []models.Event{
		{ID: 1, Title: "Dinner", CalendarDay: dayOn(jan10), StartTime: timeOfDay(19, 0)},
		{ID: 2, Title: "Museum", CalendarDay: dayOn(jan10), StartTime: timeOfDay(9, 30)},
		{ID: 3, Title: "Free day", CalendarDay: dayOn(jan10)}, // no start time sorts last
		{ID: 4, Title: "Hike", CalendarDay: dayOn(jan11), StartTime: timeOfDay(7, 0)},
	}

	got := UpcomingEvents(events, 5)
	wantOrder := []int64{2, 1, 3, 4}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d events, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("position %d: got event %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestUpcomingEventsLimit(t *testing.T) {
	t.Parallel()

	jan10 := models.NewCivilDate(2026, time.January, 10)
	events := make([]models.Event, 8)
	for i := range events {
		events[i] = models.Event{ID: int64(i + 1), CalendarDay: dayOn(jan10), StartTime: timeOfDay(8+i, 0)}
	}

	got := UpcomingEvents(events, 5)
	if len(got) != 5 {
		t.Errorf("got %d events, want 5", len(got))
	}
}
