package models

import "time"

// ExpenseCategory is seeded reference data (Food, Transportation,
// Accommodation, Activities, Shopping, Other). Edit-only, never deleted.
// Spent is always derived by summing linked expenses at query time and
// is never stored on the row.
type ExpenseCategory struct {
	ID                      int64     `json:"id"`
	Name                    string    `json:"name"`
	Icon                    *string   `json:"icon"`
	ColorHex                *string   `json:"colorHex"`
	BudgetLimit             *float64  `json:"budgetLimit"`
	DailyBudgetPerPerson    *float64  `json:"dailyBudgetPerPerson"`
	WarningThresholdPercent int       `json:"warningThresholdPercent"`
	CreatedAt               time.Time `json:"createdAt"`

	Spent *float64 `json:"spent,omitempty"`
}

type UpdateExpenseCategoryRequest struct {
	ID                      int64            `json:"id" binding:"required"`
	Icon                    Patch[string]    `json:"icon"`
	ColorHex                Patch[string]    `json:"colorHex"`
	BudgetLimit             Patch[FlexFloat] `json:"budgetLimit"`
	DailyBudgetPerPerson    Patch[FlexFloat] `json:"dailyBudgetPerPerson"`
	WarningThresholdPercent Patch[FlexInt]   `json:"warningThresholdPercent"`
}

// Expense is the highest-churn entity: one spend record in BRL against a
// category, optionally linked to a calendar day.
type Expense struct {
	ID            int64     `json:"id"`
	Date          CivilDate `json:"date"`
	AmountBRL     float64   `json:"amountBrl"`
	CategoryID    int64     `json:"categoryId"`
	Description   *string   `json:"description"`
	CalendarDayID *int64    `json:"calendarDayId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Category    *ExpenseCategory `json:"category,omitempty"`
	CalendarDay *CalendarDay     `json:"calendarDay,omitempty"`
}

type CreateExpenseRequest struct {
	Date          CivilDate `json:"date" binding:"required"`
	AmountBRL     FlexFloat `json:"amountBrl" binding:"required"`
	CategoryID    FlexInt   `json:"categoryId" binding:"required"`
	Description   *string   `json:"description"`
	CalendarDayID *FlexInt  `json:"calendarDayId"`
}

type UpdateExpenseRequest struct {
	Date          Patch[CivilDate] `json:"date"`
	AmountBRL     Patch[FlexFloat] `json:"amountBrl"`
	CategoryID    Patch[FlexInt]   `json:"categoryId"`
	Description   Patch[string]    `json:"description"`
	CalendarDayID Patch[FlexInt]   `json:"calendarDayId"`
}
