package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/baaaiiiiii85858/bengal-bet/internal/database"
	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
	"github.com/baaaiiiiii85858/bengal-bet/internal/worker"
)

func main() {
	// Load env
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found in ../../.env, trying .env")
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system env")
		}
	}

	// Connect DB
	database.Connect()
	db := database.DB

	// Redis
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	// The worker enqueues follow-up notifications of its own, so it gets
	// a client too.
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	// Init Services
	helperService := services.NewHelperService(db)
	notificationService := services.NewNotificationService(db, asynqClient)
	accountService := services.NewAccountService(db)
	settingsService := services.NewSettingsService(db, notificationService)
	depositService := services.NewDepositService(db, accountService, settingsService, helperService, notificationService)

	log.Println("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, depositService)
}
