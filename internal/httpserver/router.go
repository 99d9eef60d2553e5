package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/service/session"
)

// buildRouter wires the routes the storefront UI calls.
func buildRouter(logger *log.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Sessions))

	h := &cartHandlers{deps: deps, logger: logger}

	authed := router.Group("/", sessionMiddleware(deps.Sessions))
	authed.GET("/cart", h.getCart)
	authed.POST("/cart/items", h.addItem)
	authed.PUT("/cart/items/:itemID", h.updateQuantity)
	authed.DELETE("/cart/items/:itemID", h.removeItem)
	authed.DELETE("/cart", h.clearCart)
	authed.POST("/cart/items/:itemID/changes", h.editItem)
	authed.GET("/cart/items/:itemID/options", h.itemOptions)
	authed.GET("/products/:productID/options", h.productOptions)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler reports ready once the session storage scope answers; without
// it no cart can be correlated and the gateway is useless.
func readyHandler(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "sessions not configured"})
			return
		}
		if _, err := sessions.GetOrCreate(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "session storage not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
