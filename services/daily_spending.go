package services

import (
	"context"
	"fmt"
	"sort"

	"trip-api/models"
)

// DailySpendingInput feeds the pure daily-spending fold.
type DailySpendingInput struct {
	Settings   models.AppSettings
	Categories []models.ExpenseCategory
	Expenses   []models.Expense
}

// DailySpending groups expenses by UTC calendar date and category.
func (s *DashboardService) DailySpending(ctx context.Context) ([]models.DailySpendingDay, error) {
	settings, err := s.fetchSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch settings: %w", err)
	}
	categories, err := s.fetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	expenses, err := s.fetchExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}

	return BuildDailySpending(DailySpendingInput{
		Settings:   settings,
		Categories: categories,
		Expenses:   expenses,
	}), nil
}

// BuildDailySpending folds expenses into per-date, per-category buckets.
// Grouping uses the expense's civil date directly, so a spend logged for
// "2026-01-15" lands on January 15 whatever timezone recorded it.
//
// Categories with a configured dailyBudgetPerPerson (a USD figure) get a
// comparable daily limit in BRL: perPerson x travelers x exchangeRate,
// classified with the same shared status function.
func BuildDailySpending(in DailySpendingInput) []models.DailySpendingDay {
	catByID := make(map[int64]models.ExpenseCategory, len(in.Categories))
	for _, c := range in.Categories {
		catByID[c.ID] = c
	}

	type dayBucket struct {
		total      float64
		byCategory map[int64]float64
		order      []int64
	}
	buckets := make(map[models.CivilDate]*dayBucket)
	var dates []models.CivilDate

	for _, e := range in.Expenses {
		b, ok := buckets[e.Date]
		if !ok {
			b = &dayBucket{byCategory: make(map[int64]float64)}
			buckets[e.Date] = b
			dates = append(dates, e.Date)
		}
		if _, seen := b.byCategory[e.CategoryID]; !seen {
			b.order = append(b.order, e.CategoryID)
		}
		b.total += e.AmountBRL
		b.byCategory[e.CategoryID] += e.AmountBRL
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	travelers := in.Settings.NumberOfTravelers
	if travelers <= 0 {
		travelers = 1
	}

	result := make([]models.DailySpendingDay, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		day := models.DailySpendingDay{Date: date, TotalSpent: b.total}
		for _, catID := range b.order {
			cat := catByID[catID]
			spent := b.byCategory[catID]
			entry := models.DailyCategorySpend{
				Category: cat,
				Spent:    spent,
				Status:   models.BudgetOK,
			}
			if cat.DailyBudgetPerPerson != nil {
				limit := ToBRL(*cat.DailyBudgetPerPerson*float64(travelers), in.Settings.ExchangeRate)
				entry.DailyLimit = &limit
				entry.Status = BudgetStatusFor(spent, limit, cat.WarningThresholdPercent)
			}
			day.Categories = append(day.Categories, entry)
		}
		result = append(result, day)
	}
	return result
}
