package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/baaaiiiiii85858/bengal-bet/internal/database"
	"github.com/baaaiiiiii85858/bengal-bet/internal/handlers"
	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	// Init Services
	helperService := services.NewHelperService(db)
	notificationService := services.NewNotificationService(db, asynqClient)
	accountService := services.NewAccountService(db)
	settingsService := services.NewSettingsService(db, notificationService)
	depositService := services.NewDepositService(db, accountService, settingsService, helperService, notificationService)
	withdrawalService := services.NewWithdrawalService(db, accountService, helperService, notificationService)
	affiliateService := services.NewAffiliateService(db, settingsService, accountService, helperService, notificationService)
	vipService := services.NewVipService(db, settingsService, accountService, helperService, notificationService)
	betService := services.NewBetService(db, accountService, helperService, notificationService, affiliateService, vipService)
	gameService := services.NewGameService(settingsService)
	smsService := services.NewSmsService(db, depositService, notificationService, os.Getenv("SMS_WEBHOOK_SECRET"))

	// Stale pending deposits are swept hourly.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		expired, err := depositService.ExpireStalePending(24 * time.Hour)
		if err != nil {
			log.Printf("pending deposit sweep failed: %v", err)
			return
		}
		if expired > 0 {
			log.Printf("pending deposit sweep: %d expired", expired)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule deposit sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize Gin
	r := gin.Default()

	handler := handlers.NewHandler(
		accountService,
		depositService,
		withdrawalService,
		betService,
		gameService,
		affiliateService,
		vipService,
		settingsService,
		helperService,
		notificationService,
		smsService,
	)
	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting ledger service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
