package routes

import (
	"github.com/campushub/eventreg/internal/container"
	"github.com/campushub/eventreg/internal/handlers"
	"github.com/campushub/eventreg/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func middlewareStack(container *container.Container) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.StructuredLogger(container.Logger),
		middleware.ErrorLogger(container.Logger),
		gin.Recovery(),
	}
}

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middlewareStack(container)...)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "OK",
			"service": "eventreg-api",
		})
	})

	// Event routes
	r.GET("/events", handlers.ListActiveEvents(container.Ledger))
	r.POST("/events/add", handlers.CreateEvent(container.Ledger))

	event := r.Group("/event")
	{
		event.GET("/:id", handlers.GetEvent(container.Ledger))
		event.PUT("/:id", handlers.UpdateEvent(container.Ledger))
		event.DELETE("/:id", handlers.CancelEvent(container.Ledger))
	}

	// Booking routes
	bookings := r.Group("/api/bookings")
	{
		bookings.GET("", handlers.ListConfirmedBookings(container.Ledger))
		bookings.POST("", handlers.CreateBooking(container.Ledger))
		bookings.GET("/:id", handlers.GetBooking(container.Ledger))
		bookings.PUT("/:id", handlers.UpdateBooking(container.Ledger))
		bookings.DELETE("/:id", handlers.CancelBooking(container.Ledger))
	}

	return r
}
