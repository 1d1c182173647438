package services

import "trip-api/models"

// BudgetStatusFor is the single budget classifier shared by the dashboard,
// the per-category views and the daily-spending view. Boundaries are
// inclusive: exactly 100% is exceeded, exactly at the threshold is warning.
// A zero or negative budget means "no budget set" and never alerts.
func BudgetStatusFor(spent, budget float64, warningThresholdPercent int) models.BudgetStatus {
	if budget <= 0 {
		return models.BudgetOK
	}
	pct := spent / budget * 100
	if pct >= 100 {
		return models.BudgetExceeded
	}
	if pct >= float64(warningThresholdPercent) {
		return models.BudgetWarning
	}
	return models.BudgetOK
}

// ToUSD converts a BRL amount using rate (BRL per 1 USD).
func ToUSD(amountBRL, rate float64) float64 {
	if rate == 0 {
		return 0
	}
	return amountBRL / rate
}

// ToBRL converts a USD amount using rate (BRL per 1 USD).
func ToBRL(amountUSD, rate float64) float64 {
	return amountUSD * rate
}
