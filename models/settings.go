package models

import "time"

// Default settings used when the singleton row is lazily created.
const (
	DefaultExchangeRate   = 5.4
	DefaultTotalBudgetBRL = 10000
	DefaultTravelers      = 3
)

// AppSettings is a singleton row (id = 1), lazily created with defaults
// on first read. ExchangeRate is BRL per 1 USD.
type AppSettings struct {
	ID                int64     `json:"id"`
	ExchangeRate      float64   `json:"exchangeRate"`
	TotalBudgetBRL    *float64  `json:"totalBudgetBrl"`
	NumberOfTravelers int       `json:"numberOfTravelers"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DefaultSettings builds the in-memory fallback used when the settings row
// is absent and must not fail an aggregate response.
func DefaultSettings() AppSettings {
	budget := float64(DefaultTotalBudgetBRL)
	return AppSettings{
		ID:                1,
		ExchangeRate:      DefaultExchangeRate,
		TotalBudgetBRL:    &budget,
		NumberOfTravelers: DefaultTravelers,
	}
}

type UpdateSettingsRequest struct {
	ExchangeRate      Patch[FlexFloat] `json:"exchangeRate"`
	TotalBudgetBRL    Patch[FlexFloat] `json:"totalBudgetBrl"`
	NumberOfTravelers Patch[FlexInt]   `json:"numberOfTravelers"`
}
