package mailer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves POST /send-reply-email. It answers {data} on success and
// {error} otherwise.
func Handler(sender Sender, from string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		msg, err := Compose(req, from)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrNoRecipient) || errors.Is(err, ErrNoReplyBody) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		data, err := sender.Send(c.Request.Context(), msg)
		if err != nil {
			log.Error(err, "reply not sent", "to", req.Email)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

// CORS lets the console call the function from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
