// File: astraguru/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astraguru/backend"
	"astraguru/config"
	"astraguru/database"
	journalRepo "astraguru/database/repository/journal"
	"astraguru/handlers"
	"astraguru/middleware"
	"astraguru/routes"
	"astraguru/services/booking"
	"astraguru/services/chat"
	"astraguru/services/credit"
	"astraguru/services/purchase"
	"astraguru/services/settings"
	"astraguru/session"
	"astraguru/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	routes.SetupCORS(router)

	// Remote backend client.
	api := backend.NewClient(
		config.AppConfig.BackendBaseURL,
		time.Duration(config.AppConfig.BackendTimeoutSec)*time.Second,
	)

	// Stores and repositories.
	sessionStore := session.NewStore(utils.GetSessionCacheClient())
	journal := journalRepo.NewMongoJournalRepo(database.MongoClient)

	// Services.
	ledger := &credit.DefaultLedgerService{
		API:      api,
		Sessions: sessionStore,
		Journal:  journal,
	}
	authorizer := &credit.SpendAuthorizer{
		Ledger:   ledger,
		Sessions: sessionStore,
	}
	grants := &credit.GrantService{
		Ledger: ledger,
		Flags:  sessionStore,
	}
	chatService := chat.NewChatService(authorizer, sessionStore, utils.GetCacheClient())
	availability := &booking.AvailabilityCache{
		API:   api,
		Cache: utils.GetCacheClient(),
		TTL:   time.Duration(config.AppConfig.AvailabilityTTLSec) * time.Second,
	}
	consultationTypes := &booking.ConsultationTypeCache{
		API:   api,
		Cache: utils.GetCacheClient(),
		TTL:   10 * time.Minute,
	}
	bookingService := &booking.DefaultBookingFlowService{
		API:          api,
		Availability: availability,
		Types:        consultationTypes,
		Ledger:       ledger,
		Journal:      journal,
		Flows:        &booking.RedisFlowRepository{Client: utils.GetCacheClient()},
	}
	purchaseService := &purchase.DefaultPurchaseService{
		API:     api,
		Ledger:  ledger,
		Journal: journal,
	}
	settingsService := &settings.DefaultSettingsService{
		API:      api,
		Sessions: sessionStore,
	}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions:  sessionStore,
		Ledger:    ledger,
		Grants:    grants,
		Chat:      chatService,
		Booking:   bookingService,
		Purchases: purchaseService,
		Settings:  settingsService,
		Gurus:     api,
		Journal:   journal,
	}

	// Routes.
	routes.RegisterHealthRoute(router)
	routes.RegisterSessionRoutes(router, handlerBundle)
	routes.RegisterChatRoutes(router, handlerBundle)
	routes.RegisterBookingRoutes(router, handlerBundle)
	routes.RegisterPurchaseRoutes(router, handlerBundle)
	routes.RegisterCreditRoutes(router, handlerBundle)
	routes.RegisterSettingsRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetCacheClient()},
		database.MongoClient,
	)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("forced shutdown: %v", err)
	}
}
