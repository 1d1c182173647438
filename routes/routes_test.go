package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCheckRemindersAnswersGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("CRON_SECRET", "s3cret")

	router := gin.New()
	v1 := router.Group("/api/v1")
	SetupPushRoutes(v1, v1, nil, nil, nil)

	// Cron services ping with a plain GET; the handler must answer it
	// (401 here, wrong secret) rather than 404.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/push/check-reminders?secret=wrong", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET status = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/push/check-reminders", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("POST status = %d, want 404", w.Code)
	}
}
