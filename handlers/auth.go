package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"trip-api/middleware"
	"trip-api/utils"
)

type AuthHandler struct{}

type verifyPINRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// VerifyPIN checks the shared household PIN and, on success, sets the
// session cookie. Wrong PINs answer 200 with valid:false so the client
// can show "wrong PIN" without treating it as a transport error.
func (h *AuthHandler) VerifyPIN(c *gin.Context) {
	var req verifyPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PIN is required"})
		return
	}

	ok, err := utils.VerifyPIN(strings.TrimSpace(req.PIN))
	if err != nil {
		log.Printf("❌ PIN verification unavailable: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PIN verification not configured"})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	token, err := utils.GenerateSessionToken()
	if err != nil {
		log.Printf("❌ Failed to generate session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, int(utils.SessionDuration.Seconds()), "/", "", secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secureCookies(), true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func secureCookies() bool {
	return os.Getenv("GIN_MODE") == "release"
}
