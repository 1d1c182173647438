package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"trip-api/config"
	"trip-api/handlers"
	"trip-api/middleware"
	"trip-api/routes"
	"trip-api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	trip := config.LoadTrip()

	if err := config.Seed(db, trip); err != nil {
		log.Fatal("Failed to seed data:", err)
	}

	pushService := services.NewPushService(db)
	reminderService := services.NewReminderService(db, pushService)
	if pushService.Configured() {
		go scheduleReminders(reminderService)
	} else {
		log.Println("⚠️ VAPID keys not set, push reminders disabled")
	}

	syncHandler := handlers.NewSyncHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1)
		routes.SetupSyncRoutes(v1, syncHandler)

		protected := v1.Group("/")
		protected.Use(middleware.RequireSession())
		{
			routes.SetupTripRoutes(protected, db, syncHandler)
			routes.SetupBudgetRoutes(protected, db, syncHandler)
			routes.SetupDashboardRoutes(protected, db, trip)
		}

		routes.SetupPushRoutes(v1, protected, db, pushService, reminderService)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// scheduleReminders runs the reminder pass on an interval as a backstop
// for deployments without an external cron hitting check-reminders.
// REMINDER_INTERVAL takes a Go duration; "0" disables the ticker.
func scheduleReminders(reminders *services.ReminderService) {
	interval := 6 * time.Hour
	if v := os.Getenv("REMINDER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("⚠️ Invalid REMINDER_INTERVAL %q, using %s", v, interval)
		} else if d <= 0 {
			log.Println("⚠️ REMINDER_INTERVAL is 0, reminder ticker disabled")
			return
		} else {
			interval = d
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		runReminders(reminders)
	}
}

func runReminders(reminders *services.ReminderService) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := reminders.Run(ctx); err != nil {
		log.Printf("❌ Scheduled reminder run failed: %v", err)
	}
}
