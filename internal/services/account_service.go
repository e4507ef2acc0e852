package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

// AccountService owns the account store. Every mutation runs inside a
// transaction holding a row lock on the account, so concurrent operations
// against the same account serialize; lock conflicts are retried with a
// short backoff.
type AccountService struct {
	DB *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{DB: db}
}

const lockRetries = 3

func retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock") || strings.Contains(msg, "Lock wait timeout")
}

// RunTxn runs fn in a transaction, retrying lock conflicts. Use it for
// operations that lock rows in their own order (request rows before the
// account row).
func (s *AccountService) RunTxn(fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 0; attempt < lockRetries; attempt++ {
		lastErr = s.DB.Transaction(fn)
		if !retryable(lastErr) {
			return lastErr
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return lastErr
}

// WithAccount runs fn inside a transaction with the account row locked
// FOR UPDATE. fn sees the current committed state and may mutate it via
// tx; the lock is held until commit.
func (s *AccountService) WithAccount(id string, fn func(tx *gorm.DB, acct *models.Account) error) error {
	var lastErr error
	for attempt := 0; attempt < lockRetries; attempt++ {
		lastErr = s.DB.Transaction(func(tx *gorm.DB) error {
			acct, err := LockAccount(tx, id)
			if err != nil {
				return err
			}
			return fn(tx, acct)
		})
		if !retryable(lastErr) {
			return lastErr
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return lastErr
}

// LockAccount fetches an account under FOR UPDATE within tx.
func LockAccount(tx *gorm.DB, id string) (*models.Account, error) {
	var acct models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

type RegisterDTO struct {
	Name         string
	Phone        string
	ReferralCode string
}

// Register creates an account, links the referrer when a valid referral
// code is supplied, and bumps the referrer's invite counter. The
// referred-by link is set once at registration and never changes.
func (s *AccountService) Register(data RegisterDTO) (*models.Account, error) {
	if data.Name == "" || data.Phone == "" {
		return nil, ErrValidation
	}

	id := uuid.NewString()
	acct := models.Account{
		ID:           id,
		Name:         data.Name,
		Phone:        data.Phone,
		ReferralCode: common.ReferralCodeFromID(id),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if data.ReferralCode != "" {
			var referrer models.Account
			err := tx.Where("referral_code = ?", data.ReferralCode).First(&referrer).Error
			if err == nil {
				acct.ReferredBy = referrer.ID
				if err := tx.Model(&models.Account{}).Where("id = ?", referrer.ID).
					UpdateColumn("affiliate_total_invited", gorm.Expr("affiliate_total_invited + 1")).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Unknown codes are ignored, the account is still created.
		}
		if err := tx.Create(&acct).Error; err != nil {
			if strings.Contains(err.Error(), "Duplicate entry") {
				return ErrValidation
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *AccountService) Get(id string) (*models.Account, error) {
	var acct models.Account
	err := s.DB.Where("id = ?", id).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// SetWithdrawPin sets the withdrawal PIN. Once set it can only be
// changed by presenting the current PIN.
func (s *AccountService) SetWithdrawPin(id, currentPin, newPin string) error {
	if len(newPin) < 4 {
		return ErrValidation
	}
	return s.WithAccount(id, func(tx *gorm.DB, acct *models.Account) error {
		if acct.WithdrawPin != "" && acct.WithdrawPin != currentPin {
			return ErrInvalidPin
		}
		return tx.Model(acct).UpdateColumn("withdraw_pin", newPin).Error
	})
}
