package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/service/session"
)

const (
	sessionCookie = "cart_session_id"
	sessionCtxKey = "cartSessionID"

	// Session tokens have no expiry in scope; the cookie just outlives the
	// browser session by a wide margin.
	sessionCookieMaxAge = 365 * 24 * 60 * 60
)

// sessionMiddleware resolves the anonymous session id for the request: the
// cookie when the browser already has one, otherwise the persisted device
// identity. Storage-not-ready degrades to 503 and the UI treats the cart as
// unavailable, retrying on its side.
func sessionMiddleware(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
			c.Set(sessionCtxKey, token)
			c.Next()
			return
		}

		token, err := sessions.WaitForSession(c.Request.Context())
		if err != nil || token == session.Unavailable {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Cart is unavailable right now, please retry",
			})
			return
		}

		c.SetCookie(sessionCookie, token, sessionCookieMaxAge, "/", "", false, true)
		c.Set(sessionCtxKey, token)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
