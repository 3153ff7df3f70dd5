package routes

import (
	"net/http"
	"time"

	"astraguru/handlers"
	"astraguru/middleware"
	"astraguru/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures cross-origin access for the app frontends.
func SetupCORS(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://app.astraguru.app", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// RegisterSessionRoutes registers session bootstrap endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/session")
	{
		api.POST("/login", hb.LoginHandler)

		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/me", hb.MeHandler)
	}
}

// RegisterChatRoutes registers the credit-gated chat endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/send", hb.SendMessageHandler)
		api.GET("/transcript", hb.TranscriptHandler)
		api.GET("/draft", hb.DraftHandler)
		api.PUT("/draft", hb.SaveDraftHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking flow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/gurus", hb.ListGurusHandler)
		api.POST("/flow", hb.StartFlowHandler)
		api.PUT("/flow/:flowID/guru", hb.SelectGuruHandler)
		api.PUT("/flow/:flowID/consultation", hb.SelectConsultationHandler)
		api.PUT("/flow/:flowID/date", hb.SelectDateHandler)
		api.PUT("/flow/:flowID/slot", hb.SelectSlotHandler)
		api.POST("/flow/:flowID/confirm", hb.ConfirmBookingHandler)
		api.POST("/:bookingID/cancel", hb.CancelBookingHandler)
		api.GET("/history", hb.BookingHistoryHandler)
	}
}

// RegisterPurchaseRoutes registers credit purchase endpoints.
func RegisterPurchaseRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/purchase")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/packages", hb.ListPackagesHandler)
		api.POST("", hb.PurchaseHandler)
	}
}

// RegisterCreditRoutes registers balance endpoints.
func RegisterCreditRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/credits")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/balance", hb.BalanceHandler)
		api.POST("/refresh", hb.RefreshBalanceHandler)
		api.GET("/transactions", hb.TransactionHistoryHandler)
		api.POST("/free-horoscope", hb.FreeHoroscopeHandler)
	}
}

// RegisterSettingsRoutes registers preference endpoints.
func RegisterSettingsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/settings")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("", hb.GetSettingsHandler)
		api.PATCH("", hb.UpdateSettingsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}
