package services

import (
	"log"
	"os"
	"testing"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

// NOTE: These tests require a running MySQL instance.
// Set DATABASE_URL to run them; without it every test here skips.

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
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
	setup()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

type ledger struct {
	accounts    *AccountService
	settings    *SettingsService
	deposits    *DepositService
	withdrawals *WithdrawalService
	affiliate   *AffiliateService
	vip         *VipService
	bets        *BetService
}

func newLedger() ledger {
	helper := NewHelperService(testDB)
	notify := NewNotificationService(testDB, nil)
	accounts := NewAccountService(testDB)
	settings := NewSettingsService(testDB, notify)
	deposits := NewDepositService(testDB, accounts, settings, helper, notify)
	withdrawals := NewWithdrawalService(testDB, accounts, helper, notify)
	affiliate := NewAffiliateService(testDB, settings, accounts, helper, notify)
	vip := NewVipService(testDB, settings, accounts, helper, notify)
	bets := NewBetService(testDB, accounts, helper, notify, affiliate, vip)
	return ledger{
		accounts:    accounts,
		settings:    settings,
		deposits:    deposits,
		withdrawals: withdrawals,
		affiliate:   affiliate,
		vip:         vip,
		bets:        bets,
	}
}

func seedTiers(t *testing.T, l ledger) {
	t.Helper()
	_, err := l.settings.UpdateBonusTiers(models.BonusTierSettings{
		FirstBonusPercent:  100,
		FirstTurnover:      2,
		SecondBonusPercent: 50,
		SecondTurnover:     1.5,
		ThirdBonusPercent:  25,
		ThirdTurnover:      1.5,
		DefaultTurnover:    2,
	})
	if err != nil {
		t.Fatalf("UpdateBonusTiers failed: %v", err)
	}
}

func registerPlayer(t *testing.T, l ledger, phone, referralCode string) *models.Account {
	t.Helper()
	acct, err := l.accounts.Register(RegisterDTO{Name: "Player " + phone, Phone: phone, ReferralCode: referralCode})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return acct
}

func approvedDeposit(t *testing.T, l ledger, accountID, amount string, wantsBonus bool) *models.Account {
	t.Helper()
	dep, err := l.deposits.CreateDepositRequest(CreateDepositDTO{
		AccountID:  accountID,
		Amount:     dec(amount),
		Method:     "bkash",
		TrxID:      "TRX-" + accountID[:8] + amount,
		WantsBonus: wantsBonus,
	})
	if err != nil {
		t.Fatalf("CreateDepositRequest failed: %v", err)
	}
	acct, err := l.deposits.ApproveDeposit(dep.ID, false)
	if err != nil {
		t.Fatalf("ApproveDeposit failed: %v", err)
	}
	return acct
}

func TestDepositApprovalAppliesTieredBonus(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000001", "")

	acct := approvedDeposit(t, l, player.ID, "1000", true)
	if !acct.Balance.Equal(dec("2000")) {
		t.Errorf("Expected balance 2000, got %s", acct.Balance)
	}
	if !acct.RemainingTurnover.Equal(dec("4000")) {
		t.Errorf("Expected turnover 4000, got %s", acct.RemainingTurnover)
	}
	if acct.DepositCount != 1 {
		t.Errorf("Expected deposit count 1, got %d", acct.DepositCount)
	}

	acct = approvedDeposit(t, l, player.ID, "500", true)
	if !acct.Balance.Equal(dec("2750")) {
		t.Errorf("Expected balance 2750, got %s", acct.Balance)
	}
	if !acct.RemainingTurnover.Equal(dec("5125")) {
		t.Errorf("Expected turnover 5125, got %s", acct.RemainingTurnover)
	}
}

func TestDepositApprovalIsExactlyOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000002", "")

	dep, err := l.deposits.CreateDepositRequest(CreateDepositDTO{
		AccountID:  player.ID,
		Amount:     dec("1000"),
		Method:     "nagad",
		TrxID:      "TRXDOUBLE",
		WantsBonus: true,
	})
	if err != nil {
		t.Fatalf("CreateDepositRequest failed: %v", err)
	}

	if _, err := l.deposits.ApproveDeposit(dep.ID, false); err != nil {
		t.Fatalf("First approve failed: %v", err)
	}
	if _, err := l.deposits.ApproveDeposit(dep.ID, false); err != ErrAlreadyProcessed {
		t.Fatalf("Expected ErrAlreadyProcessed, got %v", err)
	}

	acct, _ := l.accounts.Get(player.ID)
	if !acct.Balance.Equal(dec("2000")) {
		t.Errorf("Second approve mutated balance: %s", acct.Balance)
	}
	if acct.DepositCount != 1 {
		t.Errorf("Second approve bumped deposit count: %d", acct.DepositCount)
	}
}

func TestRejectedDepositLeavesAccountAlone(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000003", "")

	dep, _ := l.deposits.CreateDepositRequest(CreateDepositDTO{
		AccountID:  player.ID,
		Amount:     dec("1000"),
		Method:     "bkash",
		TrxID:      "TRXREJ",
		WantsBonus: true,
	})
	if err := l.deposits.RejectDeposit(dep.ID); err != nil {
		t.Fatalf("RejectDeposit failed: %v", err)
	}
	if _, err := l.deposits.ApproveDeposit(dep.ID, false); err != ErrAlreadyProcessed {
		t.Fatalf("Approve after reject: expected ErrAlreadyProcessed, got %v", err)
	}

	acct, _ := l.accounts.Get(player.ID)
	if !acct.Balance.IsZero() || acct.DepositCount != 0 {
		t.Errorf("Rejected deposit touched the account: balance=%s count=%d", acct.Balance, acct.DepositCount)
	}
}

func TestWagerSettlementBalances(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000004", "")
	approvedDeposit(t, l, player.ID, "1000", false) // balance 1000, turnover 1000

	// Loss: balance drops by exactly the stake.
	wager, err := l.bets.PlaceWager(PlaceWagerDTO{AccountID: player.ID, Game: "slots", Stake: dec("100")})
	if err != nil {
		t.Fatalf("PlaceWager failed: %v", err)
	}
	bet, err := l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: player.ID, WagerID: wager.ID, Result: models.ResultLoss, Payout: dec("0")})
	if err != nil {
		t.Fatalf("SettleOutcome failed: %v", err)
	}
	if bet.Result != models.ResultLoss || !bet.Payout.IsZero() {
		t.Errorf("Bad loss record: %+v", bet)
	}

	acct, _ := l.accounts.Get(player.ID)
	if !acct.Balance.Equal(dec("900")) {
		t.Errorf("Expected balance 900 after loss, got %s", acct.Balance)
	}

	// Win: balance drops by the stake and rises by the payout.
	wager, _ = l.bets.PlaceWager(PlaceWagerDTO{AccountID: player.ID, Game: "crash", Stake: dec("100")})
	if _, err := l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: player.ID, WagerID: wager.ID, Result: models.ResultWin, Payout: dec("250")}); err != nil {
		t.Fatalf("SettleOutcome win failed: %v", err)
	}

	acct, _ = l.accounts.Get(player.ID)
	if !acct.Balance.Equal(dec("1050")) {
		t.Errorf("Expected balance 1050 after win, got %s", acct.Balance)
	}
	if !acct.TotalTurnover.Equal(dec("200")) {
		t.Errorf("Expected total turnover 200, got %s", acct.TotalTurnover)
	}

	// Settling the same wager twice must not pay twice.
	if _, err := l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: player.ID, WagerID: wager.ID, Result: models.ResultWin, Payout: dec("250")}); err != ErrAlreadyProcessed {
		t.Fatalf("Expected ErrAlreadyProcessed on resettle, got %v", err)
	}
}

func TestWagerRejectsOverdraft(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000005", "")
	approvedDeposit(t, l, player.ID, "100", false)

	if _, err := l.bets.PlaceWager(PlaceWagerDTO{AccountID: player.ID, Game: "slots", Stake: dec("100.01")}); err != ErrInsufficientBalance {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTurnoverClampsAtZero(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000006", "")
	approvedDeposit(t, l, player.ID, "1000", false) // turnover requirement 1000

	// Wager past the requirement; remaining must clamp, not go negative.
	for i := 0; i < 3; i++ {
		wager, err := l.bets.PlaceWager(PlaceWagerDTO{AccountID: player.ID, Game: "fishing", Stake: dec("400")})
		if err != nil {
			t.Fatalf("PlaceWager %d failed: %v", i, err)
		}
		if _, err := l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: player.ID, WagerID: wager.ID, Result: models.ResultWin, Payout: dec("400")}); err != nil {
			t.Fatalf("SettleOutcome %d failed: %v", i, err)
		}
	}

	acct, _ := l.accounts.Get(player.ID)
	if !acct.RemainingTurnover.IsZero() {
		t.Errorf("Expected remaining turnover 0, got %s", acct.RemainingTurnover)
	}
	if !acct.TotalTurnover.Equal(dec("1200")) {
		t.Errorf("Expected total turnover 1200, got %s", acct.TotalTurnover)
	}
}

func TestWithdrawalGating(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000007", "")
	approvedDeposit(t, l, player.ID, "1000", false)

	// No PIN on file yet.
	req := CreateWithdrawalDTO{AccountID: player.ID, Amount: dec("100"), Method: "bkash", WalletNumber: "01700000007", Pin: "1234"}
	if _, err := l.withdrawals.CreateWithdrawalRequest(req); err != ErrInvalidPin {
		t.Fatalf("Expected ErrInvalidPin without PIN, got %v", err)
	}
	if err := l.accounts.SetWithdrawPin(player.ID, "", "1234"); err != nil {
		t.Fatalf("SetWithdrawPin failed: %v", err)
	}

	// Turnover still outstanding blocks withdrawal regardless of balance.
	if _, err := l.withdrawals.CreateWithdrawalRequest(req); err != ErrTurnoverNotMet {
		t.Fatalf("Expected ErrTurnoverNotMet, got %v", err)
	}

	// Clear the requirement, then the hold math must line up.
	wager, _ := l.bets.PlaceWager(PlaceWagerDTO{AccountID: player.ID, Game: "slots", Stake: dec("1000")})
	l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: player.ID, WagerID: wager.ID, Result: models.ResultWin, Payout: dec("1000")})

	wd, err := l.withdrawals.CreateWithdrawalRequest(req)
	if err != nil {
		t.Fatalf("CreateWithdrawalRequest failed: %v", err)
	}
	acct, _ := l.accounts.Get(player.ID)
	if !acct.Balance.Equal(dec("900")) {
		t.Errorf("Expected hold to leave balance 900, got %s", acct.Balance)
	}

	// Rejection refunds the hold.
	if err := l.withdrawals.RejectWithdrawal(wd.ID, "wallet number mismatch"); err != nil {
		t.Fatalf("RejectWithdrawal failed: %v", err)
	}
	acct, _ = l.accounts.Get(player.ID)
	if !acct.Balance.Equal(dec("1000")) {
		t.Errorf("Expected refund back to 1000, got %s", acct.Balance)
	}

	// Approval only flips status, the hold already moved the funds.
	wd, _ = l.withdrawals.CreateWithdrawalRequest(req)
	if _, err := l.withdrawals.ApproveWithdrawal(wd.ID); err != nil {
		t.Fatalf("ApproveWithdrawal failed: %v", err)
	}
	if _, err := l.withdrawals.ApproveWithdrawal(wd.ID); err != ErrAlreadyProcessed {
		t.Fatalf("Expected ErrAlreadyProcessed on re-approve, got %v", err)
	}
	acct, _ = l.accounts.Get(player.ID)
	if !acct.Balance.Equal(dec("900")) {
		t.Errorf("Expected balance 900 after approval, got %s", acct.Balance)
	}
}

func TestAffiliateBonusPaidOnce(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	if _, err := l.settings.UpdateAffiliateSettings(models.AffiliateSettings{
		TurnoverTarget: dec("500"),
		BonusAmount:    dec("200"),
	}); err != nil {
		t.Fatalf("UpdateAffiliateSettings failed: %v", err)
	}

	referrer := registerPlayer(t, l, "01700000008", "")
	invited := registerPlayer(t, l, "01700000009", referrer.ReferralCode)
	if invited.ReferredBy != referrer.ID {
		t.Fatalf("Referral link not set")
	}
	approvedDeposit(t, l, invited.ID, "2000", false)

	// Two wagers that each leave turnover past the target.
	for i := 0; i < 2; i++ {
		wager, err := l.bets.PlaceWager(PlaceWagerDTO{AccountID: invited.ID, Game: "slots", Stake: dec("600")})
		if err != nil {
			t.Fatalf("PlaceWager %d failed: %v", i, err)
		}
		l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: invited.ID, WagerID: wager.ID, Result: models.ResultLoss, Payout: dec("0")})
	}

	ref, _ := l.accounts.Get(referrer.ID)
	if !ref.AffiliateEarnings.Equal(dec("200")) {
		t.Errorf("Expected affiliate earnings 200, got %s", ref.AffiliateEarnings)
	}
	if !ref.AffiliateClaimable.Equal(dec("200")) {
		t.Errorf("Expected claimable 200, got %s", ref.AffiliateClaimable)
	}
	if ref.TotalInvited != 1 {
		t.Errorf("Expected 1 invited, got %d", ref.TotalInvited)
	}

	// Claiming moves the aggregate into the balance.
	claimed, err := l.affiliate.ClaimEarnings(referrer.ID)
	if err != nil {
		t.Fatalf("ClaimEarnings failed: %v", err)
	}
	if !claimed.Balance.Equal(dec("200")) || !claimed.AffiliateClaimable.IsZero() {
		t.Errorf("Claim math wrong: balance=%s claimable=%s", claimed.Balance, claimed.AffiliateClaimable)
	}
	if _, err := l.affiliate.ClaimEarnings(referrer.ID); err != ErrValidation {
		t.Fatalf("Expected ErrValidation on empty claim, got %v", err)
	}
}

func TestVipProgressionAndRewardClaim(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	if err := l.settings.ReplaceVipLevels(vipLadder()); err != nil {
		t.Fatalf("ReplaceVipLevels failed: %v", err)
	}

	player := registerPlayer(t, l, "01700000010", "")
	approvedDeposit(t, l, player.ID, "2000", false)

	wager, _ := l.bets.PlaceWager(PlaceWagerDTO{AccountID: player.ID, Game: "crash", Stake: dec("1500")})
	l.bets.SettleOutcome(SettleOutcomeDTO{AccountID: player.ID, WagerID: wager.ID, Result: models.ResultWin, Payout: dec("1500")})

	acct, _ := l.accounts.Get(player.ID)
	if acct.VipLevel != 1 {
		t.Fatalf("Expected VIP level 1, got %d", acct.VipLevel)
	}

	rewards, _ := l.vip.ListRewards(player.ID)
	if len(rewards) != 1 {
		t.Fatalf("Expected 1 claimable reward, got %d", len(rewards))
	}
	if !rewards[0].Amount.Equal(dec("50")) || rewards[0].Level != 1 {
		t.Errorf("Bad reward: %+v", rewards[0])
	}

	before, _ := l.accounts.Get(player.ID)
	claimed, err := l.vip.ClaimReward(player.ID, rewards[0].ID)
	if err != nil {
		t.Fatalf("ClaimReward failed: %v", err)
	}
	if !claimed.Balance.Equal(before.Balance.Add(dec("50"))) {
		t.Errorf("Claim credited wrong amount: %s -> %s", before.Balance, claimed.Balance)
	}
	if _, err := l.vip.ClaimReward(player.ID, rewards[0].ID); err != ErrRewardNotFound {
		t.Fatalf("Expected ErrRewardNotFound on double claim, got %v", err)
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	registerPlayer(t, l, "01700000012", "")

	_, err := l.accounts.Register(RegisterDTO{Name: "Second Player", Phone: "01700000012"})
	if err != ErrValidation {
		t.Fatalf("Expected ErrValidation on duplicate phone, got %v", err)
	}
}

func TestSpecialBonusConsumedByNextDeposit(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	l := newLedger()
	seedTiers(t, l)
	player := registerPlayer(t, l, "01700000011", "")

	percent := 200.0
	mult := 3.0
	if err := l.settings.SetSpecialBonus(player.ID, &percent, &mult); err != nil {
		t.Fatalf("SetSpecialBonus failed: %v", err)
	}

	acct := approvedDeposit(t, l, player.ID, "100", true)
	if !acct.Balance.Equal(dec("300")) {
		t.Errorf("Expected balance 300 from special offer, got %s", acct.Balance)
	}
	if !acct.RemainingTurnover.Equal(dec("900")) {
		t.Errorf("Expected turnover 900, got %s", acct.RemainingTurnover)
	}
	if acct.SpecialBonusPercent != nil || acct.SpecialBonusTurnover != nil {
		t.Errorf("Special offer should be consumed after approval")
	}
	fresh, _ := l.accounts.Get(player.ID)
	if fresh.SpecialBonusPercent != nil || fresh.SpecialBonusTurnover != nil {
		t.Errorf("Special offer still stored after approval")
	}

	// The next deposit falls back to the tier for its ordinal.
	acct = approvedDeposit(t, l, player.ID, "100", true)
	if !acct.Balance.Equal(dec("450")) { // second tier: 50% of 100
		t.Errorf("Expected balance 450 on tier fallback, got %s", acct.Balance)
	}
}
