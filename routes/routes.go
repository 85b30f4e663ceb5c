package routes

import (
	"net/http"
	"time"

	"huduma/handlers"
	"huduma/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterQuoteFlowRoutes registers all endpoints for the quote acceptance flow.
func RegisterQuoteFlowRoutes(r *gin.Engine, qf *handlers.QuoteFlowHandler) {
	api := r.Group("/api/quote-flow")
	api.Use(middleware.JWTAuthUserMiddleware())
	{
		api.POST("", qf.Open)
		api.GET("/:flowID", qf.Get)
		api.PUT("/:flowID/date", qf.SelectDate)
		api.PUT("/:flowID/slot", qf.SelectSlot)
		api.PUT("/:flowID/method", qf.SelectMethod)
		api.POST("/:flowID/proceed", qf.Proceed)
		api.POST("/:flowID/checkout/complete", qf.CompleteCheckout)
		api.POST("/:flowID/checkout/failed", qf.FailCheckout)
		api.DELETE("/:flowID", qf.Close)
	}
}

// RegisterRoutes wires global middleware and all route groups.
func RegisterRoutes(r *gin.Engine, qf *handlers.QuoteFlowHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	RegisterQuoteFlowRoutes(r, qf)
}
