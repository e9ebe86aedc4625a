package handlers

import (
	"log"
	"net/http"

	"intervue/mailer"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shared handler state, injected once from main.

var notifier mailer.Notifier = mailer.NopNotifier{}
var appBaseURL = "http://localhost:3000"

// SetNotifier sets the outbound email gateway.
func SetNotifier(n mailer.Notifier) {
	notifier = n
}

// SetAppBaseURL sets the frontend base URL used in notification links.
func SetAppBaseURL(url string) {
	if url != "" {
		appBaseURL = url
	}
}

// All API responses share the {success, message, ...} envelope.

func respondOK(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondInternal logs the real error and hides it behind a generic message.
func respondInternal(c *gin.Context, message string, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   "internal error",
	})
}

// actingUserID extracts the authenticated user's id set by the JWT
// middleware. Responds 401 and returns false when it is missing or invalid.
func actingUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return userID, true
}
