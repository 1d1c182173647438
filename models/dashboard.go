package models

// BudgetStatus classifies spend against a limit: ok, warning once the
// warning threshold is reached, exceeded at or past 100%.
type BudgetStatus string

const (
	BudgetOK       BudgetStatus = "ok"
	BudgetWarning  BudgetStatus = "warning"
	BudgetExceeded BudgetStatus = "exceeded"
)

type CategorySpend struct {
	Category   ExpenseCategory `json:"category"`
	Spent      float64         `json:"spent"`
	Percentage float64         `json:"percentage"`
	Status     BudgetStatus    `json:"status"`
}

type RegionDays struct {
	Region     Region  `json:"region"`
	Days       int     `json:"days"`
	Percentage float64 `json:"percentage"`
}

// DashboardStats is the aggregated summary behind GET /dashboard.
type DashboardStats struct {
	TotalBudget        float64         `json:"totalBudget"`
	TotalSpent         float64         `json:"totalSpent"`
	RemainingBudget    float64         `json:"remainingBudget"`
	BudgetStatus       BudgetStatus    `json:"budgetStatus"`
	ExchangeRate       float64         `json:"exchangeRate"`
	DaysUntilTrip      int             `json:"daysUntilTrip"`
	TotalDays          int             `json:"totalDays"`
	FlightsCount       int             `json:"flightsCount"`
	HotelsCount        int             `json:"hotelsCount"`
	EventsCount        int             `json:"eventsCount"`
	ExpensesByCategory []CategorySpend `json:"expensesByCategory"`
	RegionDays         []RegionDays    `json:"regionDays"`
	UpcomingEvents     []Event         `json:"upcomingEvents"`
}

// DailyCategorySpend is one category's spend within a single day of the
// daily-spending view.
type DailyCategorySpend struct {
	Category   ExpenseCategory `json:"category"`
	Spent      float64         `json:"spent"`
	DailyLimit *float64        `json:"dailyLimit"`
	Status     BudgetStatus    `json:"status"`
}

type DailySpendingDay struct {
	Date       CivilDate            `json:"date"`
	TotalSpent float64              `json:"totalSpent"`
	Categories []DailyCategorySpend `json:"categories"`
}
