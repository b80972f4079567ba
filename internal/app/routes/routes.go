package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/vitbooks/exchange/internal/app/controllers"
	"github.com/vitbooks/exchange/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	listingController *controllers.ListingController,
	requestController *controllers.RentalRequestController,
	borrowController *controllers.BorrowRequestController,
	profileController *controllers.ProfileController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	api.GET("/health", healthController.Health)

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/generate-otp", authController.GenerateOTP)
		auth.POST("/verify-otp", authController.VerifyOTP)
	}

	listings := api.Group("/listings")
	{
		listings.GET("", listingController.List)
		listings.GET("/:id", listingController.GetByID)
	}

	// --- Authenticated routes ---
	requireAuth := authMiddleware.JWTAuth()

	ownListings := api.Group("/listings", requireAuth)
	{
		ownListings.POST("", listingController.Create)
		ownListings.PUT("/:id", listingController.Update)
		ownListings.DELETE("/:id", listingController.Delete)
	}

	requests := api.Group("/requests", requireAuth)
	{
		requests.POST("", requestController.Create)
		requests.GET("/incoming", requestController.ListIncoming)
		requests.PUT("/:id/respond", requestController.Respond)
	}

	profile := api.Group("/profile", requireAuth)
	{
		profile.GET("/listings", profileController.MyListings)
		profile.GET("/requests", profileController.MyRequests)
	}

	board := api.Group("/borrow-requests", requireAuth)
	{
		board.GET("", borrowController.List)
		board.POST("", borrowController.Create)
	}
}
