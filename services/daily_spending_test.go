package services

import (
	"testing"
	"time"

	"trip-api/models"
)

func TestBuildDailySpendingGroupsByDateAndCategory(t *testing.T) {
	t.Parallel()

	food := models.ExpenseCategory{ID: 1, Name: "Food", WarningThresholdPercent: 80}
	transport := models.ExpenseCategory{ID: 2, Name: "Transportation", WarningThresholdPercent: 80}

	jan10 := models.NewCivilDate(2026, time.January, 10)
	jan11 := models.NewCivilDate(2026, time.January, 11)

	in := DailySpendingInput{
		Settings:   testSettings(),
		Categories: []models.ExpenseCategory{food, transport},
		Expenses: []models.Expense{
			// Deliberately unsorted: grouping must not depend on input order.
			{ID: 1, Date: jan11, CategoryID: 1, AmountBRL: 120},
			{ID: 2, Date: jan10, CategoryID: 1, AmountBRL: 80},
			{ID: 3, Date: jan10, CategoryID: 2, AmountBRL: 40},
			{ID: 4, Date: jan10, CategoryID: 1, AmountBRL: 20},
		},
	}

	days := BuildDailySpending(in)
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}

	first := days[0]
	if !first.Date.Equal(jan10) {
		t.Errorf("first day = %v, want %v", first.Date, jan10)
	}
	if first.TotalSpent != 140 {
		t.Errorf("jan10 TotalSpent = %v, want 140", first.TotalSpent)
	}
	if len(first.Categories) != 2 {
		t.Fatalf("jan10 has %d categories, want 2", len(first.Categories))
	}
	if first.Categories[0].Category.ID != 1 || first.Categories[0].Spent != 100 {
		t.Errorf("jan10 food = {%d %v}, want {1 100}",
			first.Categories[0].Category.ID, first.Categories[0].Spent)
	}
	if first.Categories[1].Category.ID != 2 || first.Categories[1].Spent != 40 {
		t.Errorf("jan10 transport = {%d %v}, want {2 40}",
			first.Categories[1].Category.ID, first.Categories[1].Spent)
	}

	second := days[1]
	if !second.Date.Equal(jan11) || second.TotalSpent != 120 {
		t.Errorf("second day = {%v %v}, want {%v 120}", second.Date, second.TotalSpent, jan11)
	}
}

func TestBuildDailySpendingDailyLimit(t *testing.T) {
	t.Parallel()

	// $25/person/day, 3 travelers, rate 5.4 → 405 BRL/day.
	food := models.ExpenseCategory{
		ID:                      1,
		Name:                    "Food",
		DailyBudgetPerPerson:    floatPtr(25),
		WarningThresholdPercent: 80,
	}

	jan10 := models.NewCivilDate(2026, time.January, 10)
	jan11 := models.NewCivilDate(2026, time.January, 11)

	in := DailySpendingInput{
		Settings:   testSettings(),
		Categories: []models.ExpenseCategory{food},
		Expenses: []models.Expense{
			{ID: 1, Date: jan10, CategoryID: 1, AmountBRL: 200}, // under threshold
			{ID: 2, Date: jan11, CategoryID: 1, AmountBRL: 500}, // over the limit
		},
	}

	days := BuildDailySpending(in)
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}

	under := days[0].Categories[0]
	if under.DailyLimit == nil || *under.DailyLimit != 405 {
		t.Fatalf("DailyLimit = %v, want 405", under.DailyLimit)
	}
	if under.Status != models.BudgetOK {
		t.Errorf("jan10 status = %q, want ok", under.Status)
	}

	over := days[1].Categories[0]
	if over.Status != models.BudgetExceeded {
		t.Errorf("jan11 status = %q, want exceeded", over.Status)
	}
}

func TestBuildDailySpendingNoLimitConfigured(t *testing.T) {
	t.Parallel()

	other := models.ExpenseCategory{ID: 1, Name: "Other", WarningThresholdPercent: 80}
	jan10 := models.NewCivilDate(2026, time.January, 10)

	days := BuildDailySpending(DailySpendingInput{
		Settings:   testSettings(),
		Categories: []models.ExpenseCategory{other},
		Expenses:   []models.Expense{{ID: 1, Date: jan10, CategoryID: 1, AmountBRL: 9999}},
	})

	entry := days[0].Categories[0]
	if entry.DailyLimit != nil {
		t.Errorf("DailyLimit = %v, want nil", *entry.DailyLimit)
	}
	if entry.Status != models.BudgetOK {
		t.Errorf("status = %q, want ok", entry.Status)
	}
}

func TestBuildDailySpendingClampsTravelers(t *testing.T) {
	t.Parallel()

	settings := testSettings()
	settings.NumberOfTravelers = 0

	food := models.ExpenseCategory{
		ID:                      1,
		Name:                    "Food",
		DailyBudgetPerPerson:    floatPtr(10),
		WarningThresholdPercent: 80,
	}

	days := BuildDailySpending(DailySpendingInput{
		Settings:   settings,
		Categories: []models.ExpenseCategory{food},
		Expenses: []models.Expense{
			{ID: 1, Date: models.NewCivilDate(2026, time.January, 10), CategoryID: 1, AmountBRL: 10},
		},
	})

	// Travelers clamp to 1: limit is 10 x 1 x 5.4.
	limit := days[0].Categories[0].DailyLimit
	if limit == nil || *limit != 54 {
		t.Errorf("DailyLimit = %v, want 54", limit)
	}
}
