package database

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

var DB *gorm.DB

func Connect() {
	var err error
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
	)

	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	log.Println("Database connection established")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.Account{},
		&models.Reward{},
		&models.Deposit{},
		&models.Withdrawal{},
		&models.Wager{},
		&models.Bet{},
		&models.Transaction{},
		&models.Notification{},
		&models.CallbackLog{},
		&models.BonusTierSettings{},
		&models.VipLevel{},
		&models.AffiliateSettings{},
		&models.GameSetting{},
		&models.PaymentNumber{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	log.Println("Database migration completed")
}
