package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"trip-api/config"
	"trip-api/models"
)

// DashboardService computes the derived read-only views that no single
// table stores: dashboard totals and the daily-spending breakdown.
type DashboardService struct {
	db    *sql.DB
	trip  config.Trip
	nowFn func() time.Time
}

func NewDashboardService(db *sql.DB, trip config.Trip) *DashboardService {
	return &DashboardService{db: db, trip: trip, nowFn: time.Now}
}

// DashboardInput is everything the pure aggregation folds over.
type DashboardInput struct {
	Settings     models.AppSettings
	Categories   []models.ExpenseCategory
	Expenses     []models.Expense
	CalendarDays []models.CalendarDay
	Events       []models.Event
	FlightsCount int
	HotelsCount  int
	Today        models.CivilDate
	TripStart    models.CivilDate
	TotalDays    int
}

// Stats fetches the raw rows and folds them into the dashboard summary.
func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	settings, err := s.fetchSettings(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("fetch settings: %w", err)
	}

	categories, err := s.fetchCategories(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("fetch categories: %w", err)
	}

	expenses, err := s.fetchExpenses(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("fetch expenses: %w", err)
	}

	days, err := s.fetchCalendarDays(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("fetch calendar days: %w", err)
	}

	events, err := s.fetchEvents(ctx)
	if err != nil {
		return models.DashboardStats{}, fmt.Errorf("fetch events: %w", err)
	}

	var flightsCount, hotelsCount int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`).Scan(&flightsCount); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count flights: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hotels`).Scan(&hotelsCount); err != nil {
		return models.DashboardStats{}, fmt.Errorf("count hotels: %w", err)
	}

	in := DashboardInput{
		Settings:     settings,
		Categories:   categories,
		Expenses:     expenses,
		CalendarDays: days,
		Events:       events,
		FlightsCount: flightsCount,
		HotelsCount:  hotelsCount,
		Today:        models.CivilDateOf(s.nowFn()),
		TripStart:    s.trip.Start,
		TotalDays:    s.trip.TotalDays(),
	}

	return BuildDashboard(in), nil
}

// BuildDashboard folds the fetched rows into the summary. It never fails:
// empty inputs produce zeroed summaries and a missing budget means status ok.
func BuildDashboard(in DashboardInput) models.DashboardStats {
	spentByCategory := make(map[int64]float64, len(in.Categories))
	totalSpent := 0.0
	for _, e := range in.Expenses {
		spentByCategory[e.CategoryID] += e.AmountBRL
		totalSpent += e.AmountBRL
	}

	totalBudget := 0.0
	if in.Settings.TotalBudgetBRL != nil {
		totalBudget = *in.Settings.TotalBudgetBRL
	}

	remaining := totalBudget - totalSpent
	if remaining < 0 {
		remaining = 0
	}

	byCategory := make([]models.CategorySpend, 0, len(in.Categories))
	for _, cat := range in.Categories {
		spent := spentByCategory[cat.ID]
		limit := 0.0
		if cat.BudgetLimit != nil {
			limit = *cat.BudgetLimit
		}
		pct := 0.0
		if limit > 0 {
			pct = spent / limit * 100
		}
		cat.Spent = &spent
		byCategory = append(byCategory, models.CategorySpend{
			Category:   cat,
			Spent:      spent,
			Percentage: pct,
			Status:     BudgetStatusFor(spent, limit, cat.WarningThresholdPercent),
		})
	}

	regionDays := foldRegionDays(in.CalendarDays, in.TotalDays)

	daysUntil := in.Today.DaysUntil(in.TripStart)
	if daysUntil < 0 {
		daysUntil = 0
	}

	return models.DashboardStats{
		TotalBudget:        totalBudget,
		TotalSpent:         totalSpent,
		RemainingBudget:    remaining,
		BudgetStatus:       BudgetStatusFor(totalSpent, totalBudget, defaultWarningThreshold),
		ExchangeRate:       in.Settings.ExchangeRate,
		DaysUntilTrip:      daysUntil,
		TotalDays:          in.TotalDays,
		FlightsCount:       in.FlightsCount,
		HotelsCount:        in.HotelsCount,
		EventsCount:        len(in.Events),
		ExpensesByCategory: byCategory,
		RegionDays:         regionDays,
		UpcomingEvents:     UpcomingEvents(in.Events, 5),
	}
}

const defaultWarningThreshold = 80

func foldRegionDays(days []models.CalendarDay, totalTripDays int) []models.RegionDays {
	counts := make(map[int64]*models.RegionDays)
	order := make([]int64, 0)
	for _, day := range days {
		if day.Region == nil {
			continue
		}
		rd, ok := counts[day.Region.ID]
		if !ok {
			rd = &models.RegionDays{Region: *day.Region}
			counts[day.Region.ID] = rd
			order = append(order, day.Region.ID)
		}
		rd.Days++
	}

	result := make([]models.RegionDays, 0, len(order))
	for _, id := range order {
		rd := counts[id]
		if totalTripDays > 0 {
			rd.Percentage = float64(rd.Days) / float64(totalTripDays) * 100
		}
		result = append(result, *rd)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Region.Name < result[j].Region.Name })
	return result
}

// UpcomingEvents orders events by calendar day date then start time
// (events without a start time sort after timed ones on the same day)
// and returns the first limit entries.
func UpcomingEvents(events []models.Event, limit int) []models.Event {
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := eventDate(sorted[i]), eventDate(sorted[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		si, sj := sorted[i].StartTime, sorted[j].StartTime
		switch {
		case si == nil && sj == nil:
			return false
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return si.Minutes() < sj.Minutes()
		}
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func eventDate(e models.Event) models.CivilDate {
	if e.CalendarDay != nil {
		return e.CalendarDay.Date
	}
	return models.CivilDate{}
}

func (s *DashboardService) fetchSettings(ctx context.Context) (models.AppSettings, error) {
	var settings models.AppSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT id, exchange_rate, total_budget_brl, number_of_travelers, updated_at
		FROM app_settings
		WHERE id = 1
	`).Scan(&settings.ID, &settings.ExchangeRate, &settings.TotalBudgetBRL, &settings.NumberOfTravelers, &settings.UpdatedAt)
	if err == sql.ErrNoRows {
		// Aggregates never fail on a missing settings row.
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.AppSettings{}, err
	}
	return settings, nil
}

func (s *DashboardService) fetchCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, color_hex, budget_limit, daily_budget_per_person, warning_threshold_percent, created_at
		FROM expense_categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.ExpenseCategory
	for rows.Next() {
		var cat models.ExpenseCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.ColorHex, &cat.BudgetLimit,
			&cat.DailyBudgetPerPerson, &cat.WarningThresholdPercent, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (s *DashboardService) fetchExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, amount_brl, category_id, description, calendar_day_id, created_at, updated_at
		FROM expenses
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.AmountBRL, &e.CategoryID, &e.Description,
			&e.CalendarDayID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *DashboardService) fetchCalendarDays(ctx context.Context) ([]models.CalendarDay, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cd.id, cd.date, cd.region_id, cd.notes, cd.created_at, cd.updated_at,
		       r.id, r.name, r.code, r.color_hex, r.created_at
		FROM calendar_days cd
		LEFT JOIN regions r ON cd.region_id = r.id
		ORDER BY cd.date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.CalendarDay
	for rows.Next() {
		var day models.CalendarDay
		var regionID sql.NullInt64
		var regionName, regionCode, regionColor sql.NullString
		var regionCreated sql.NullTime
		if err := rows.Scan(&day.ID, &day.Date, &day.RegionID, &day.Notes, &day.CreatedAt, &day.UpdatedAt,
			&regionID, &regionName, &regionCode, &regionColor, &regionCreated); err != nil {
			return nil, err
		}
		if regionID.Valid {
			day.Region = &models.Region{
				ID:        regionID.Int64,
				Name:      regionName.String,
				Code:      regionCode.String,
				ColorHex:  regionColor.String,
				CreatedAt: regionCreated.Time,
			}
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *DashboardService) fetchEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.calendar_day_id, e.title, e.description, e.start_time, e.end_time,
		       e.location, e.category, e.created_at, e.updated_at,
		       cd.id, cd.date, cd.region_id, cd.notes, cd.created_at, cd.updated_at,
		       r.id, r.name, r.code, r.color_hex, r.created_at
		FROM events e
		JOIN calendar_days cd ON e.calendar_day_id = cd.id
		LEFT JOIN regions r ON cd.region_id = r.id
		ORDER BY cd.date ASC, e.start_time ASC NULLS LAST
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var day models.CalendarDay
		var regionID sql.NullInt64
		var regionName, regionCode, regionColor sql.NullString
		var regionCreated sql.NullTime
		var startTime, endTime *models.TimeOfDay
		var start, end sql.Null[models.TimeOfDay]
		if err := rows.Scan(&ev.ID, &ev.CalendarDayID, &ev.Title, &ev.Description, &start, &end,
			&ev.Location, &ev.Category, &ev.CreatedAt, &ev.UpdatedAt,
			&day.ID, &day.Date, &day.RegionID, &day.Notes, &day.CreatedAt, &day.UpdatedAt,
			&regionID, &regionName, &regionCode, &regionColor, &regionCreated); err != nil {
			return nil, err
		}
		if start.Valid {
			v := start.V
			startTime = &v
		}
		if end.Valid {
			v := end.V
			endTime = &v
		}
		ev.StartTime = startTime
		ev.EndTime = endTime
		if regionID.Valid {
			day.Region = &models.Region{
				ID:        regionID.Int64,
				Name:      regionName.String,
				Code:      regionCode.String,
				ColorHex:  regionColor.String,
				CreatedAt: regionCreated.Time,
			}
		}
		ev.CalendarDay = &day
		events = append(events, ev)
	}
	return events, rows.Err()
}
