package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"trip-api/config"
	"trip-api/handlers"
	"trip-api/services"
)

// SetupAuthRoutes sets up the public PIN verification routes.
func SetupAuthRoutes(rg *gin.RouterGroup) {
	authHandler := &handlers.AuthHandler{}

	rg.POST("/auth/verify", authHandler.VerifyPIN)
	rg.DELETE("/auth/verify", authHandler.Logout)
}

// SetupTripRoutes sets up the protected trip data routes.
func SetupTripRoutes(rg *gin.RouterGroup, db *sql.DB, sync *handlers.SyncHandler) {
	regionHandler := &handlers.RegionHandler{DB: db}
	rg.GET("/regions", regionHandler.GetRegions)

	dayHandler := &handlers.CalendarDayHandler{DB: db, Sync: sync}
	rg.GET("/calendar-days", dayHandler.GetCalendarDays)
	rg.GET("/calendar-days/:id", dayHandler.GetCalendarDay)
	rg.PUT("/calendar-days/:id", dayHandler.UpdateCalendarDay)

	flightHandler := &handlers.FlightHandler{DB: db, Sync: sync}
	rg.GET("/flights", flightHandler.GetFlights)
	rg.POST("/flights", flightHandler.CreateFlight)
	rg.GET("/flights/:id", flightHandler.GetFlight)
	rg.PUT("/flights/:id", flightHandler.UpdateFlight)
	rg.DELETE("/flights/:id", flightHandler.DeleteFlight)

	hotelHandler := &handlers.HotelHandler{DB: db, Sync: sync}
	rg.GET("/hotels", hotelHandler.GetHotels)
	rg.POST("/hotels", hotelHandler.CreateHotel)
	rg.GET("/hotels/:id", hotelHandler.GetHotel)
	rg.PUT("/hotels/:id", hotelHandler.UpdateHotel)
	rg.DELETE("/hotels/:id", hotelHandler.DeleteHotel)

	eventHandler := &handlers.EventHandler{DB: db, Sync: sync}
	rg.GET("/events", eventHandler.GetEvents)
	rg.POST("/events", eventHandler.CreateEvent)
	rg.GET("/events/:id", eventHandler.GetEvent)
	rg.PUT("/events/:id", eventHandler.UpdateEvent)
	rg.DELETE("/events/:id", eventHandler.DeleteEvent)
}

// SetupBudgetRoutes sets up the protected expense and budget routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB, sync *handlers.SyncHandler) {
	expenseHandler := &handlers.ExpenseHandler{DB: db, Sync: sync}
	rg.GET("/expenses", expenseHandler.GetExpenses)
	rg.POST("/expenses", expenseHandler.CreateExpense)
	rg.GET("/expenses/:id", expenseHandler.GetExpense)
	rg.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	rg.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	categoryHandler := &handlers.ExpenseCategoryHandler{DB: db, Sync: sync}
	rg.GET("/expense-categories", categoryHandler.GetExpenseCategories)
	rg.PUT("/expense-categories", categoryHandler.UpdateExpenseCategory)

	settingsHandler := &handlers.SettingsHandler{DB: db, Sync: sync}
	rg.GET("/settings", settingsHandler.GetSettings)
	rg.PUT("/settings", settingsHandler.UpdateSettings)
}

// SetupDashboardRoutes sets up the protected aggregate views.
func SetupDashboardRoutes(rg *gin.RouterGroup, db *sql.DB, trip config.Trip) {
	dashboardHandler := &handlers.DashboardHandler{Dashboard: services.NewDashboardService(db, trip)}

	rg.GET("/dashboard", dashboardHandler.GetDashboard)
	rg.GET("/daily-spending", dashboardHandler.GetDailySpending)
}

// SetupPushRoutes sets up the push subscription routes. CheckReminders is
// registered on the public group so an external cron can hit it; it
// carries its own secret check.
func SetupPushRoutes(public, protected *gin.RouterGroup, db *sql.DB, push *services.PushService, reminders *services.ReminderService) {
	pushHandler := &handlers.PushHandler{DB: db, Push: push, Reminders: reminders}

	protected.GET("/push/vapid-public-key", pushHandler.GetVAPIDPublicKey)
	protected.POST("/push/subscribe", pushHandler.Subscribe)
	protected.POST("/push/unsubscribe", pushHandler.Unsubscribe)
	protected.POST("/push/send", pushHandler.SendPush)
	public.GET("/push/check-reminders", pushHandler.CheckReminders)
}

// SetupSyncRoutes sets up the realtime invalidation socket.
func SetupSyncRoutes(rg *gin.RouterGroup, sync *handlers.SyncHandler) {
	rg.GET("/ws", sync.HandleWS)
}
