package httpserver

import (
	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/domain"
)

// respond emits the uniform {success, message, data} envelope the UI expects.
func respond(c *gin.Context, status int, success bool, message string, data interface{}) {
	body := gin.H{"success": success}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondCart(c *gin.Context, status int, success bool, message string, snap domain.Cart) {
	respond(c, status, success, message, gin.H{"cart": snap})
}
