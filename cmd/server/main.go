package main

import (
	"context"
	"errors"
	"laundry_manager/internal/config"
	"laundry_manager/internal/database"
	"laundry_manager/internal/handlers"
	"laundry_manager/internal/migrations"
	"laundry_manager/internal/redis"
	"laundry_manager/internal/repository"
	"laundry_manager/internal/scheduler"
	"laundry_manager/internal/services"
	"laundry_manager/pkg/whatsapp"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	loc := cfg.Location()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := migrations.RunMigrations(db, cfg); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize WhatsApp client
	whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath, cfg.WhatsAppCountryPrefix)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	noticeRepo := repository.NewAgingNoticeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	// Initialize services
	rule := services.NewLoyaltyRule(cfg.Loyalty())
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, services.NewPasswordAuthenticator(userRepo), tokens)
	customerService := services.NewCustomerService(customerRepo, cfg.WhatsAppCountryPrefix)
	loyaltyService := services.NewLoyaltyService(customerRepo, loyaltyRepo, rule)
	ticketService := services.NewTicketService(ticketRepo, serviceRepo, customerService, rule, cfg.TicketNumberWidth)
	catalogService := services.NewCatalogService(serviceRepo)
	whatsappService := services.NewWhatsAppService(whatsappClient)
	agingService := services.NewAgingService(ticketRepo, customerRepo, noticeRepo, whatsappService, services.NewAgingPolicy(cfg.Aging()))
	analyticsService := services.NewAnalyticsService(ticketRepo, expenseRepo, redisClient, time.Duration(cfg.CacheTTL)*time.Second, loc)
	expenseService := services.NewExpenseService(expenseRepo)
	inventoryService := services.NewInventoryService(inventoryRepo)
	preferenceService := services.NewPreferenceService(redisClient, time.Duration(cfg.PreferenceTTL)*time.Second)
	adminService := services.NewAdminService(redisClient, counterRepo)
	chatService := services.NewChatService(customerService, ticketRepo, rule)

	// Initialize handlers
	router := gin.Default()
	handlers.SetupRouter(router, handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Tickets:     handlers.NewTicketHandler(ticketService, loc),
		Customers:   handlers.NewCustomerHandler(customerService, loyaltyService),
		Catalog:     handlers.NewCatalogHandler(catalogService),
		Inventory:   handlers.NewInventoryHandler(inventoryService),
		Expenses:    handlers.NewExpenseHandler(expenseService, loc),
		Analytics:   handlers.NewAnalyticsHandler(analyticsService, agingService, loc),
		Preferences: handlers.NewPreferenceHandler(preferenceService),
		Admin:       handlers.NewAdminHandler(adminService, agingService),
		WhatsApp:    handlers.NewWhatsAppHandler(whatsappService, chatService, cfg.WhatsappWebhookSecret),
		Health: handlers.NewHealthHandler(map[string]handlers.CheckFunc{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
			"redis":    redisClient.Ping,
		}),
	}, tokens)

	if cfg.AgingScanEnabled {
		agingScheduler := scheduler.NewAgingScheduler(agingService, loc, cfg.AgingScanHour)
		agingScheduler.Start()
		defer agingScheduler.Stop()
	}

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
