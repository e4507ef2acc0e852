package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

type DepositService struct {
	DB       *gorm.DB
	Accounts *AccountService
	Settings *SettingsService
	Helper   *HelperService
	Notify   *NotificationService
}

func NewDepositService(db *gorm.DB, accounts *AccountService, settings *SettingsService, helper *HelperService, notify *NotificationService) *DepositService {
	return &DepositService{DB: db, Accounts: accounts, Settings: settings, Helper: helper, Notify: notify}
}

type CreateDepositDTO struct {
	AccountID    string
	Amount       decimal.Decimal
	Method       string
	SenderNumber string
	TrxID        string
	WantsBonus   bool
}

func (s *DepositService) CreateDepositRequest(data CreateDepositDTO) (*models.Deposit, error) {
	if !data.Amount.IsPositive() || !models.PaymentMethods[data.Method] {
		return nil, ErrValidation
	}
	if _, err := s.Accounts.Get(data.AccountID); err != nil {
		return nil, err
	}

	dep := models.Deposit{
		ID:           uuid.NewString(),
		AccountID:    data.AccountID,
		Amount:       common.RoundMoney(data.Amount),
		Method:       data.Method,
		SenderNumber: data.SenderNumber,
		TrxID:        data.TrxID,
		WantsBonus:   data.WantsBonus,
		Status:       models.StatusPending,
	}
	if err := s.DB.Create(&dep).Error; err != nil {
		return nil, err
	}
	return &dep, nil
}

// ApproveDeposit moves a pending deposit to approved and applies the
// bonus engine's output to the account in the same transaction: balance,
// remaining turnover and deposit count move together or not at all. The
// bonus is computed against the account state as of this transaction, so
// a special override set after the request was filed still applies.
func (s *DepositService) ApproveDeposit(depositID string, auto bool) (*models.Account, error) {
	var (
		acct  *models.Account
		dep   models.Deposit
		bonus BonusResult
	)

	err := s.Accounts.RunTxn(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", depositID).First(&dep).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if dep.Status != models.StatusPending {
			return ErrAlreadyProcessed
		}

		var err error
		acct, err = LockAccount(tx, dep.AccountID)
		if err != nil {
			return err
		}

		cfg, err := s.Settings.getBonusTiers(tx)
		if err != nil {
			return err
		}
		bonus = ComputeBonus(acct, dep.Amount, dep.WantsBonus, cfg)

		updates := map[string]interface{}{
			"balance":            gorm.Expr("balance + ?", bonus.TotalCredit),
			"remaining_turnover": gorm.Expr("remaining_turnover + ?", bonus.TurnoverRequirement),
			"deposit_count":      gorm.Expr("deposit_count + 1"),
		}
		// A special offer is one-shot: consumed by the deposit it
		// applied to.
		offerConsumed := dep.WantsBonus && acct.SpecialBonusPercent != nil
		if offerConsumed {
			updates["special_bonus_percent"] = nil
			updates["special_bonus_turnover"] = nil
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Deposit{}).
			Where("id = ? AND status = ?", dep.ID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":                models.StatusApproved,
				"approved_at":           now,
				"applied_bonus_percent": bonus.AppliedPercent,
				"turnover_added":        bonus.TurnoverRequirement,
				"auto_approved":         auto,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		acct.Balance = acct.Balance.Add(bonus.TotalCredit)
		acct.RemainingTurnover = acct.RemainingTurnover.Add(bonus.TurnoverRequirement)
		acct.DepositCount++
		if offerConsumed {
			acct.SpecialBonusPercent = nil
			acct.SpecialBonusTurnover = nil
		}

		return s.Helper.SaveTransaction(tx, TransactionData{
			AccountID:    acct.ID,
			Amount:       bonus.TotalCredit,
			TrxType:      "credit",
			Subject:      "Deposit",
			Description:  fmt.Sprintf("Deposit via %s (trx %s)", dep.Method, dep.TrxID),
			Channel:      dep.Method,
			BalanceAfter: acct.Balance,
		})
	})
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your deposit of %s has been approved.", dep.Amount.StringFixed(2))
	if bonus.BonusAmount.IsPositive() {
		msg += fmt.Sprintf(" Bonus: %s added!", bonus.BonusAmount.StringFixed(2))
	}
	s.Notify.Send(acct.ID, "Deposit Approved", msg, "success")
	s.Notify.AccountChanged(acct.ID, acct.Balance.StringFixed(2))

	return acct, nil
}

// RejectDeposit is terminal and touches no account state.
func (s *DepositService) RejectDeposit(depositID string) error {
	var dep models.Deposit
	if err := s.DB.Where("id = ?", depositID).First(&dep).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	now := time.Now()
	res := s.DB.Model(&models.Deposit{}).
		Where("id = ? AND status = ?", depositID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      models.StatusRejected,
			"rejected_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyProcessed
	}

	s.Notify.Send(dep.AccountID, "Deposit Rejected",
		fmt.Sprintf("Your deposit of %s has been rejected. Please contact support if you think this is a mistake.", dep.Amount.StringFixed(2)),
		"error")
	return nil
}

// FindPendingByTrxID matches an inbound payment text to a pending
// deposit by its external transaction id.
func (s *DepositService) FindPendingByTrxID(trxID string) (*models.Deposit, error) {
	var dep models.Deposit
	err := s.DB.Where("trx_id = ? AND status = ?", trxID, models.StatusPending).
		Order("created_at ASC").First(&dep).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (s *DepositService) List(status string, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Deposit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var deposits []models.Deposit
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&deposits).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(deposits, total, page, limit, "Deposits fetched"), nil
}

// ExpireStalePending rejects deposit requests left pending longer than
// ttl. Runs from the cron scheduler.
func (s *DepositService) ExpireStalePending(ttl time.Duration) (int, error) {
	var stale []models.Deposit
	cutoff := time.Now().Add(-ttl)
	if err := s.DB.Where("status = ? AND created_at < ?", models.StatusPending, cutoff).Find(&stale).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, dep := range stale {
		if err := s.RejectDeposit(dep.ID); err != nil {
			if errors.Is(err, ErrAlreadyProcessed) {
				continue
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}
