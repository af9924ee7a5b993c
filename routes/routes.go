package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhaven/handlers"
	"stayhaven/middleware"
	"stayhaven/utils"
)

// RegisterPropertyRoutes registers listing search and host endpoints.
func RegisterPropertyRoutes(r *gin.Engine, ph *handlers.PropertyHandler) {
	api := r.Group("/api/properties")
	{
		api.GET("", ph.SearchProperties)
		api.GET("/:id", ph.GetProperty)

		// Host endpoints require authentication.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", ph.CreateProperty)
		protected.GET("/mine", ph.ListMyProperties)
	}
}

// RegisterBookingRoutes registers the direct booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.GET("/availability", bh.CheckAvailability)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.POST("", bh.CreateBooking)
		protected.GET("", bh.ListBookings)
		protected.POST("/:id/cancel", bh.CancelBooking)
	}
}

// RegisterAssistantRoutes registers the conversational assistant endpoint.
// Authentication is optional: anonymous callers can search and check
// availability, and booking tools answer with a sign-in prompt.
func RegisterAssistantRoutes(r *gin.Engine, ah *handlers.AssistantHandler) {
	api := r.Group("/api/assistant")
	{
		api.Use(middleware.OptionalAuthMiddleware())
		api.POST("/chat", ah.Chat)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}
