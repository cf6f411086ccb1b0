package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"wheelshare/internal/handler"
	"wheelshare/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	DriverHandler  *handler.DriverHandler
	PaymentHandler *handler.PaymentHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Customer-facing ride routes.
		rides := api.Group("/rides")
		{
			rides.POST("/estimate-fare", deps.RideHandler.EstimateFare)
			rides.POST("/request", deps.RideHandler.RequestRide)
			rides.GET("/pending", deps.RideHandler.GetPendingRides)
			rides.GET("/history", deps.RideHandler.GetHistory)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.POST("/:id/pay", deps.PaymentHandler.RecordPayment)
		}

		// Ops views.
		api.GET("/drivers", deps.DriverHandler.ListDrivers)
		api.GET("/drivers/nearby", deps.DriverHandler.GetNearbyDrivers)

		// Driver-facing routes.
		driver := api.Group("/driver")
		{
			driver.POST("/go-online", deps.DriverHandler.GoOnline)
			driver.POST("/go-offline", deps.DriverHandler.GoOffline)
			driver.POST("/update-location", deps.DriverHandler.UpdateLocation)
			driver.GET("/nearby-rides", deps.DriverHandler.GetNearbyRides)
			driver.GET("/my-rides", deps.DriverHandler.GetMyRides)
			driver.GET("/wallet/history", deps.DriverHandler.GetWalletHistory)
			driver.POST("/accept-ride/:rideId", deps.DriverHandler.AcceptRide)
			driver.POST("/start-ride/:rideId", deps.DriverHandler.StartRide)
			driver.POST("/complete-ride/:rideId", deps.DriverHandler.CompleteRide)
		}

		// Payment lookup.
		payments := api.Group("/payments")
		{
			payments.GET("/:id", deps.PaymentHandler.GetPayment)
		}
	}

	return router
}
