package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

// WithdrawalService holds funds at request time: the amount leaves the
// balance when the request is filed, comes back on rejection, and is
// simply confirmed gone on approval. Several pending requests can never
// jointly overdraw a balance this way.
type WithdrawalService struct {
	DB       *gorm.DB
	Accounts *AccountService
	Helper   *HelperService
	Notify   *NotificationService
}

func NewWithdrawalService(db *gorm.DB, accounts *AccountService, helper *HelperService, notify *NotificationService) *WithdrawalService {
	return &WithdrawalService{DB: db, Accounts: accounts, Helper: helper, Notify: notify}
}

type CreateWithdrawalDTO struct {
	AccountID    string
	Amount       decimal.Decimal
	Method       string
	WalletNumber string
	Pin          string
}

// CreateWithdrawalRequest enforces all withdrawal preconditions: PIN on
// file and matching, wagering requirement cleared, and balance covering
// the amount. The debit happens here, under the account row lock.
func (s *WithdrawalService) CreateWithdrawalRequest(data CreateWithdrawalDTO) (*models.Withdrawal, error) {
	if !data.Amount.IsPositive() || !models.PaymentMethods[data.Method] || data.WalletNumber == "" {
		return nil, ErrValidation
	}
	amount := common.RoundMoney(data.Amount)

	wd := models.Withdrawal{
		ID:           uuid.NewString(),
		AccountID:    data.AccountID,
		Amount:       amount,
		Method:       data.Method,
		WalletNumber: data.WalletNumber,
		Status:       models.StatusPending,
	}

	err := s.Accounts.WithAccount(data.AccountID, func(tx *gorm.DB, acct *models.Account) error {
		if acct.WithdrawPin == "" || acct.WithdrawPin != data.Pin {
			return ErrInvalidPin
		}
		if acct.RemainingTurnover.IsPositive() {
			return ErrTurnoverNotMet
		}
		if acct.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Create(&wd).Error; err != nil {
			return err
		}

		return s.Helper.SaveTransaction(tx, TransactionData{
			AccountID:    acct.ID,
			Amount:       amount,
			TrxType:      "debit",
			Subject:      "Withdrawal Request",
			Description:  fmt.Sprintf("Withdrawal to %s (%s)", data.WalletNumber, data.Method),
			Channel:      data.Method,
			BalanceAfter: acct.Balance.Sub(amount),
		})
	})
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

// ApproveWithdrawal confirms the payout. The hold already removed the
// funds, so only the status flips.
func (s *WithdrawalService) ApproveWithdrawal(withdrawalID string) (*models.Account, error) {
	var wd models.Withdrawal
	if err := s.DB.Where("id = ?", withdrawalID).First(&wd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	res := s.DB.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", withdrawalID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      models.StatusApproved,
			"approved_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrAlreadyProcessed
	}

	s.Notify.Send(wd.AccountID, "Withdrawal Approved",
		fmt.Sprintf("Your withdrawal of %s has been sent to %s.", wd.Amount.StringFixed(2), wd.WalletNumber),
		"success")

	return s.Accounts.Get(wd.AccountID)
}

// RejectWithdrawal releases the hold back to the balance.
func (s *WithdrawalService) RejectWithdrawal(withdrawalID, comment string) error {
	var wd models.Withdrawal
	err := s.Accounts.RunTxn(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", withdrawalID).First(&wd).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawalID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":      models.StatusRejected,
				"rejected_at": now,
				"comment":     comment,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		acct, err := LockAccount(tx, wd.AccountID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
			UpdateColumn("balance", gorm.Expr("balance + ?", wd.Amount)).Error; err != nil {
			return err
		}

		if err := s.Helper.SaveTransaction(tx, TransactionData{
			AccountID:    acct.ID,
			Amount:       wd.Amount,
			TrxType:      "credit",
			Subject:      "Cancelled Request",
			Description:  comment,
			Channel:      "internal",
			BalanceAfter: acct.Balance.Add(wd.Amount),
		}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Notify.Send(wd.AccountID, "Withdrawal Rejected",
		fmt.Sprintf("Your withdrawal of %s was rejected and the amount returned to your balance.", wd.Amount.StringFixed(2)),
		"error")
	return nil
}

func (s *WithdrawalService) List(status string, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Withdrawal{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var withdrawals []models.Withdrawal
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error; err != nil {
		return common.PaginationResult{}, err
	}
	return common.PaginateResponse(withdrawals, total, page, limit, "Withdrawals fetched"), nil
}
