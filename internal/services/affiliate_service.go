package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

// AffiliateService pays the one-time referral bonus when a referred
// account's lifetime turnover crosses the configured target. The flag
// flip on the referred account is the commit point: once it is set the
// payout cannot happen again, no matter how often turnover grows.
type AffiliateService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Accounts *AccountService
	Helper   *HelperService
	Notify   *NotificationService
}

func NewAffiliateService(db *gorm.DB, settings *SettingsService, accounts *AccountService, helper *HelperService, notify *NotificationService) *AffiliateService {
	return &AffiliateService{DB: db, Settings: settings, Accounts: accounts, Helper: helper, Notify: notify}
}

// AffiliatePayout describes a bonus paid during an Evaluate call so the
// caller can notify the referrer after its transaction commits.
type AffiliatePayout struct {
	ReferrerID string
	ReferredID string
	Amount     decimal.Decimal
}

// TargetCrossed reports whether a referred account at the given turnover
// qualifies for the referral bonus.
func TargetCrossed(totalTurnover, target decimal.Decimal) bool {
	return totalTurnover.GreaterThanOrEqual(target)
}

// Evaluate runs inside the caller's transaction after a turnover
// increase. acct is the referred account's state before the increase;
// totalTurnover is the updated lifetime figure. Returns nil when no
// payout happened.
func (s *AffiliateService) Evaluate(tx *gorm.DB, acct *models.Account, totalTurnover decimal.Decimal) (*AffiliatePayout, error) {
	if acct.ReferredBy == "" || acct.ReferralBonusGiven {
		return nil, nil
	}

	cfg, err := s.Settings.getAffiliateSettings(tx)
	if err != nil {
		return nil, err
	}
	if !TargetCrossed(totalTurnover, cfg.TurnoverTarget) {
		return nil, nil
	}

	// Flip first. RowsAffected 0 means a concurrent wager already paid.
	res := tx.Model(&models.Account{}).
		Where("id = ? AND referral_bonus_given = ?", acct.ID, false).
		Update("referral_bonus_given", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	if err := tx.Model(&models.Account{}).Where("id = ?", acct.ReferredBy).
		Updates(map[string]interface{}{
			"affiliate_total_earnings": gorm.Expr("affiliate_total_earnings + ?", cfg.BonusAmount),
			"affiliate_claimable":      gorm.Expr("affiliate_claimable + ?", cfg.BonusAmount),
		}).Error; err != nil {
		return nil, err
	}

	return &AffiliatePayout{
		ReferrerID: acct.ReferredBy,
		ReferredID: acct.ID,
		Amount:     cfg.BonusAmount,
	}, nil
}

// ClaimEarnings moves the referrer's claimable affiliate balance into
// the spendable balance.
func (s *AffiliateService) ClaimEarnings(accountID string) (*models.Account, error) {
	var claimed decimal.Decimal
	err := s.Accounts.WithAccount(accountID, func(tx *gorm.DB, acct *models.Account) error {
		if !acct.AffiliateClaimable.IsPositive() {
			return ErrValidation
		}
		claimed = acct.AffiliateClaimable

		if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
			Updates(map[string]interface{}{
				"balance":             gorm.Expr("balance + ?", claimed),
				"affiliate_claimable": decimal.Zero,
			}).Error; err != nil {
			return err
		}

		return s.Helper.SaveTransaction(tx, TransactionData{
			AccountID:    acct.ID,
			Amount:       claimed,
			TrxType:      "credit",
			Subject:      "Affiliate Earnings",
			Description:  "Affiliate earnings moved to balance",
			Channel:      "internal",
			BalanceAfter: acct.Balance.Add(claimed),
		})
	})
	if err != nil {
		return nil, err
	}

	acct, err := s.Accounts.Get(accountID)
	if err != nil {
		return nil, err
	}

	s.Notify.Send(accountID, "Affiliate Earnings Claimed",
		fmt.Sprintf("%s in affiliate earnings has been added to your balance.", claimed.StringFixed(2)),
		"success")
	s.Notify.AccountChanged(accountID, acct.Balance.StringFixed(2))
	return acct, nil
}

// ListReferrals returns the accounts referred by the given account with
// their progress toward the turnover target.
func (s *AffiliateService) ListReferrals(accountID string) ([]models.Account, error) {
	var referred []models.Account
	err := s.DB.Where("referred_by = ?", accountID).Order("created_at DESC").Find(&referred).Error
	return referred, err
}
