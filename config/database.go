package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"trip-api/utils"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS regions (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			code VARCHAR(100) UNIQUE NOT NULL,
			color_hex VARCHAR(7) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS calendar_days (
			id SERIAL PRIMARY KEY,
			date DATE UNIQUE NOT NULL,
			region_id INTEGER REFERENCES regions(id) ON DELETE SET NULL,
			notes TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS flights (
			id SERIAL PRIMARY KEY,
			airline VARCHAR(255) NOT NULL,
			flight_number VARCHAR(50) NOT NULL,
			departure_city VARCHAR(255) NOT NULL,
			arrival_city VARCHAR(255) NOT NULL,
			departure_datetime TIMESTAMPTZ NOT NULL,
			arrival_datetime TIMESTAMPTZ NOT NULL,
			confirmation_number VARCHAR(100),
			price NUMERIC(12,2),
			currency VARCHAR(10) NOT NULL DEFAULT 'BRL',
			notes TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS hotels (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address TEXT,
			city VARCHAR(255),
			region_id INTEGER REFERENCES regions(id) ON DELETE SET NULL,
			check_in_date DATE NOT NULL,
			check_out_date DATE NOT NULL,
			confirmation_number VARCHAR(100),
			price_per_night NUMERIC(12,2),
			total_cost NUMERIC(12,2),
			currency VARCHAR(10) NOT NULL DEFAULT 'BRL',
			notes TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expense_categories (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			icon VARCHAR(100),
			color_hex VARCHAR(7),
			budget_limit NUMERIC(12,2),
			daily_budget_per_person NUMERIC(12,2),
			warning_threshold_percent INTEGER NOT NULL DEFAULT 80,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id SERIAL PRIMARY KEY,
			date DATE NOT NULL,
			amount_brl NUMERIC(12,2) NOT NULL,
			category_id INTEGER NOT NULL REFERENCES expense_categories(id) ON DELETE RESTRICT,
			description TEXT,
			calendar_day_id INTEGER REFERENCES calendar_days(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			calendar_day_id INTEGER NOT NULL REFERENCES calendar_days(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			start_time TIME,
			end_time TIME,
			location VARCHAR(255),
			category VARCHAR(100),
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS app_settings (
			id INTEGER PRIMARY KEY,
			exchange_rate NUMERIC(10,4) NOT NULL DEFAULT 5.4,
			total_budget_brl NUMERIC(12,2),
			number_of_travelers INTEGER NOT NULL DEFAULT 3,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS push_subscriptions (
			id SERIAL PRIMARY KEY,
			endpoint TEXT UNIQUE NOT NULL,
			p256dh TEXT NOT NULL,
			auth TEXT NOT NULL,
			user_agent TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_calendar_days_date ON calendar_days(date)`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_days_region_id ON calendar_days(region_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_category_id ON expenses(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_calendar_day_id ON expenses(calendar_day_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_calendar_day_id ON events(calendar_day_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flights_departure ON flights(departure_datetime)`,
		`CREATE INDEX IF NOT EXISTS idx_hotels_check_in ON hotels(check_in_date)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}

type seedRegion struct {
	name, code, colorHex string
}

type seedCategory struct {
	name, icon, colorHex string
}

var seedRegions = []seedRegion{
	{"São Paulo", "sao-paulo", "#FBBF24"},
	{"Minas Gerais", "minas-gerais", "#166534"},
	{"Goiás", "goias", "#1E40AF"},
	{"Santa Catarina", "santa-catarina", "#F97316"},
}

var seedCategories = []seedCategory{
	{"Food", "utensils", "#EF4444"},
	{"Transportation", "car", "#3B82F6"},
	{"Accommodation", "bed", "#8B5CF6"},
	{"Activities", "ticket", "#F59E0B"},
	{"Shopping", "shopping-bag", "#EC4899"},
	{"Other", "more-horizontal", "#6B7280"},
}

// Seed inserts the fixed reference data and one calendar day per date in
// the trip window. Idempotent: existing rows are left alone, and calendar
// days are never deleted once seeded. Runs in one transaction so a partial
// seed never survives a crash.
func Seed(db *sql.DB, trip Trip) error {
	seeded := 0
	err := utils.WithTransaction(db, func(tx *sql.Tx) error {
		for _, r := range seedRegions {
			_, err := tx.Exec(`
				INSERT INTO regions (name, code, color_hex)
				VALUES ($1, $2, $3)
				ON CONFLICT (code) DO NOTHING
			`, r.name, r.code, r.colorHex)
			if err != nil {
				return fmt.Errorf("failed to seed region %s: %w", r.code, err)
			}
		}

		for _, c := range seedCategories {
			_, err := tx.Exec(`
				INSERT INTO expense_categories (name, icon, color_hex, warning_threshold_percent)
				VALUES ($1, $2, $3, 80)
				ON CONFLICT (name) DO NOTHING
			`, c.name, c.icon, c.colorHex)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.name, err)
			}
		}

		for d := trip.Start; !d.After(trip.End); d = d.AddDays(1) {
			res, err := tx.Exec(`
				INSERT INTO calendar_days (date)
				VALUES ($1)
				ON CONFLICT (date) DO NOTHING
			`, d)
			if err != nil {
				return fmt.Errorf("failed to seed calendar day %s: %w", d, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				seeded++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if seeded > 0 {
		log.Printf("🌱 Seeded %d calendar days (%s to %s)", seeded, trip.Start, trip.End)
	}
	return nil
}
