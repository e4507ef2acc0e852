package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

// BetService settles play in two phases. The stake is debited up front
// when the wager is placed; the payout, if any, is credited when the
// outcome arrives. A loss still produces a Bet row with payout zero, so
// every wager ends as exactly one immutable record.
type BetService struct {
	DB        *gorm.DB
	Accounts  *AccountService
	Helper    *HelperService
	Notify    *NotificationService
	Affiliate *AffiliateService
	Vip       *VipService
}

func NewBetService(db *gorm.DB, accounts *AccountService, helper *HelperService, notify *NotificationService, affiliate *AffiliateService, vip *VipService) *BetService {
	return &BetService{DB: db, Accounts: accounts, Helper: helper, Notify: notify, Affiliate: affiliate, Vip: vip}
}

type PlaceWagerDTO struct {
	AccountID string
	Game      string
	Stake     decimal.Decimal
}

// PlaceWager debits the stake, burns down the wagering requirement and
// grows lifetime turnover, all under the account row lock. Affiliate and
// VIP evaluations run on the new turnover figure inside the same
// transaction.
func (s *BetService) PlaceWager(data PlaceWagerDTO) (*models.Wager, error) {
	if !data.Stake.IsPositive() || data.Game == "" {
		return nil, ErrValidation
	}
	stake := common.RoundMoney(data.Stake)

	wager := models.Wager{
		ID:        uuid.NewString(),
		AccountID: data.AccountID,
		Game:      data.Game,
		Stake:     stake,
	}

	var (
		payout     *AffiliatePayout
		reward     *models.Reward
		newBalance decimal.Decimal
	)
	err := s.Accounts.WithAccount(data.AccountID, func(tx *gorm.DB, acct *models.Account) error {
		if acct.Balance.LessThan(stake) {
			return ErrInsufficientBalance
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
			Updates(map[string]interface{}{
				"balance":            gorm.Expr("balance - ?", stake),
				"remaining_turnover": gorm.Expr("GREATEST(remaining_turnover - ?, 0)", stake),
				"total_turnover":     gorm.Expr("total_turnover + ?", stake),
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(&wager).Error; err != nil {
			return err
		}

		newBalance = acct.Balance.Sub(stake)
		if err := s.Helper.SaveTransaction(tx, TransactionData{
			AccountID:    acct.ID,
			Amount:       stake,
			TrxType:      "debit",
			Subject:      "Wager",
			Description:  fmt.Sprintf("Stake on %s", data.Game),
			Channel:      data.Game,
			BalanceAfter: newBalance,
		}); err != nil {
			return err
		}

		newTotal := acct.TotalTurnover.Add(stake)
		var err error
		payout, err = s.Affiliate.Evaluate(tx, acct, newTotal)
		if err != nil {
			return err
		}
		reward, err = s.Vip.Evaluate(tx, acct, newTotal)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Notify.AccountChanged(data.AccountID, newBalance.StringFixed(2))
	if payout != nil {
		s.Notify.Send(payout.ReferrerID, "Referral Bonus Earned",
			fmt.Sprintf("A player you invited reached the turnover target. %s has been added to your claimable earnings.", payout.Amount.StringFixed(2)),
			"success")
	}
	if reward != nil {
		s.Notify.Send(data.AccountID, "VIP Level Up",
			fmt.Sprintf("Congratulations! You reached VIP level %d. A reward of %s is waiting to be claimed.", reward.Level, reward.Amount.StringFixed(2)),
			"success")
	}

	return &wager, nil
}

type SettleOutcomeDTO struct {
	AccountID string
	WagerID   string
	Result    string
	Payout    decimal.Decimal
}

// SettleOutcome records the decided result for a placed wager. A win
// credits the payout; a loss must carry a zero payout. Either way the
// wager settles exactly once and leaves one Bet row behind.
func (s *BetService) SettleOutcome(data SettleOutcomeDTO) (*models.Bet, error) {
	if data.Result != models.ResultWin && data.Result != models.ResultLoss {
		return nil, ErrValidation
	}
	if data.Payout.IsNegative() {
		return nil, ErrValidation
	}
	if data.Result == models.ResultLoss && !data.Payout.IsZero() {
		return nil, ErrValidation
	}
	payout := common.RoundMoney(data.Payout)

	var (
		bet        models.Bet
		newBalance decimal.Decimal
		won        bool
	)
	err := s.Accounts.RunTxn(func(tx *gorm.DB) error {
		var wager models.Wager
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND account_id = ?", data.WagerID, data.AccountID).
			First(&wager).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if wager.Settled {
			return ErrAlreadyProcessed
		}

		res := tx.Model(&models.Wager{}).
			Where("id = ? AND settled = ?", wager.ID, false).
			Update("settled", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		if data.Result == models.ResultWin && payout.IsPositive() {
			acct, err := LockAccount(tx, data.AccountID)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
				UpdateColumn("balance", gorm.Expr("balance + ?", payout)).Error; err != nil {
				return err
			}
			newBalance = acct.Balance.Add(payout)
			won = true

			if err := s.Helper.SaveTransaction(tx, TransactionData{
				AccountID:    acct.ID,
				Amount:       payout,
				TrxType:      "credit",
				Subject:      "Winnings",
				Description:  fmt.Sprintf("Payout on %s", wager.Game),
				Channel:      wager.Game,
				BalanceAfter: newBalance,
			}); err != nil {
				return err
			}
		}

		bet = models.Bet{
			ID:        uuid.NewString(),
			WagerID:   wager.ID,
			AccountID: wager.AccountID,
			Game:      wager.Game,
			Stake:     wager.Stake,
			Result:    data.Result,
			Payout:    payout,
		}
		return tx.Create(&bet).Error
	})
	if err != nil {
		return nil, err
	}

	if won {
		s.Notify.AccountChanged(data.AccountID, newBalance.StringFixed(2))
	}
	return &bet, nil
}

func (s *BetService) ListBets(accountID string, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Bet{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var bets []models.Bet
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&bets).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(bets, total, page, limit, "Bets fetched"), nil
}
