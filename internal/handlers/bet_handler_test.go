package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
)

// NOTE: These tests require a running MySQL instance.
// Set DATABASE_URL to run them; without it every test here skips.

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping handler DB tests: DATABASE_URL not set")
		return
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}

	testDB.AutoMigrate(
		&models.Account{}, &models.Reward{},
		&models.Deposit{}, &models.Withdrawal{},
		&models.Wager{}, &models.Bet{},
		&models.Transaction{}, &models.Notification{}, &models.CallbackLog{},
		&models.BonusTierSettings{}, &models.VipLevel{},
		&models.AffiliateSettings{}, &models.GameSetting{}, &models.PaymentNumber{},
	)
}

func cleanup() {
	if testDB == nil {
		return
	}
	for _, table := range []string{
		"transactions", "notifications", "callback_logs",
		"bets", "wagers", "deposits", "withdrawals", "rewards",
		"vip_levels", "bonus_tier_settings", "affiliate_settings",
		"game_settings", "payment_numbers",
		"accounts",
	} {
		testDB.Exec("DELETE FROM " + table)
	}
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	setup()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func newTestRouter() (*gin.Engine, *services.AccountService, *services.DepositService) {
	helper := services.NewHelperService(testDB)
	notify := services.NewNotificationService(testDB, nil)
	accounts := services.NewAccountService(testDB)
	settings := services.NewSettingsService(testDB, notify)
	deposits := services.NewDepositService(testDB, accounts, settings, helper, notify)
	withdrawals := services.NewWithdrawalService(testDB, accounts, helper, notify)
	affiliate := services.NewAffiliateService(testDB, settings, accounts, helper, notify)
	vip := services.NewVipService(testDB, settings, accounts, helper, notify)
	bets := services.NewBetService(testDB, accounts, helper, notify, affiliate, vip)
	games := services.NewGameService(settings)
	sms := services.NewSmsService(testDB, deposits, notify, "webhook-secret")

	h := NewHandler(accounts, deposits, withdrawals, bets, games, affiliate, vip, settings, helper, notify, sms)
	r := gin.New()
	h.RegisterRoutes(r)
	return r, accounts, deposits
}

func TestPlayReportsWagerWhenRoundFails(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	r, accounts, deposits := newTestRouter()

	acct, err := accounts.Register(services.RegisterDTO{Name: "Round Player", Phone: "01800000001"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	dep, err := deposits.CreateDepositRequest(services.CreateDepositDTO{
		AccountID: acct.ID,
		Amount:    decimal.NewFromInt(1000),
		Method:    "bkash",
		TrxID:     "TRXPLAY",
	})
	if err != nil {
		t.Fatalf("CreateDepositRequest failed: %v", err)
	}
	if _, err := deposits.ApproveDeposit(dep.ID, false); err != nil {
		t.Fatalf("ApproveDeposit failed: %v", err)
	}

	// A bad multiplier fails the round after the stake is held; the
	// response must name the open wager.
	body, _ := json.Marshal(gin.H{
		"account_id":     acct.ID,
		"game":           "slots",
		"stake":          100,
		"win_multiplier": -1,
	})
	req := httptest.NewRequest(http.MethodPost, "/play", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Data struct {
			WagerID string `json:"wager_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if res.Data.WagerID == "" {
		t.Fatalf("Expected wager id in error payload, got %s", w.Body.String())
	}

	var wager models.Wager
	if err := testDB.Where("id = ?", res.Data.WagerID).First(&wager).Error; err != nil {
		t.Fatalf("Reported wager not found: %v", err)
	}
	if wager.Settled {
		t.Errorf("Wager should still be open for settlement")
	}
}
