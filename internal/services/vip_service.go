package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

// VipService raises the account's VIP level as lifetime turnover grows
// and queues a claimable level-up reward for each promotion. Rewards are
// never auto-credited; the player claims them explicitly.
type VipService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Accounts *AccountService
	Helper   *HelperService
	Notify   *NotificationService
}

func NewVipService(db *gorm.DB, settings *SettingsService, accounts *AccountService, helper *HelperService, notify *NotificationService) *VipService {
	return &VipService{DB: db, Settings: settings, Accounts: accounts, Helper: helper, Notify: notify}
}

// HighestLevel returns the highest-id level whose requirement is covered
// by the given turnover, or nil when none is. levels must be ordered by
// ascending id.
func HighestLevel(levels []models.VipLevel, totalTurnover decimal.Decimal) *models.VipLevel {
	var best *models.VipLevel
	for i := range levels {
		if levels[i].TurnoverRequired.LessThanOrEqual(totalTurnover) {
			best = &levels[i]
		}
	}
	return best
}

// Evaluate runs inside the caller's transaction after a turnover
// increase. Returns the queued reward when the account levelled up, nil
// otherwise. The level column only moves up; the guard in the update
// keeps a stale evaluation from ever lowering it.
func (s *VipService) Evaluate(tx *gorm.DB, acct *models.Account, totalTurnover decimal.Decimal) (*models.Reward, error) {
	var levels []models.VipLevel
	if err := tx.Order("id ASC").Find(&levels).Error; err != nil {
		return nil, err
	}

	level := HighestLevel(levels, totalTurnover)
	if level == nil || level.ID <= acct.VipLevel {
		return nil, nil
	}

	res := tx.Model(&models.Account{}).
		Where("id = ? AND vip_level < ?", acct.ID, level.ID).
		Update("vip_level", level.ID)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	reward := models.Reward{
		ID:        uuid.NewString(),
		AccountID: acct.ID,
		Type:      "vip_levelup",
		Amount:    level.LevelUpBonus,
		Level:     level.ID,
	}
	if err := tx.Create(&reward).Error; err != nil {
		return nil, err
	}
	return &reward, nil
}

// ClaimReward removes the reward row and credits its amount. The delete
// with its rows-affected check is the replay guard: whichever claim
// deletes the row wins, any other attempt gets RewardNotFound.
func (s *VipService) ClaimReward(accountID, rewardID string) (*models.Account, error) {
	var reward models.Reward
	err := s.Accounts.RunTxn(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND account_id = ?", rewardID, accountID).
			First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return err
		}

		acct, err := LockAccount(tx, accountID)
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND account_id = ?", rewardID, accountID).
			Delete(&models.Reward{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRewardNotFound
		}

		if err := tx.Model(&models.Account{}).Where("id = ?", acct.ID).
			UpdateColumn("balance", gorm.Expr("balance + ?", reward.Amount)).Error; err != nil {
			return err
		}

		return s.Helper.SaveTransaction(tx, TransactionData{
			AccountID:    acct.ID,
			Amount:       reward.Amount,
			TrxType:      "credit",
			Subject:      "VIP Reward",
			Description:  fmt.Sprintf("Level %d reward claimed", reward.Level),
			Channel:      "internal",
			BalanceAfter: acct.Balance.Add(reward.Amount),
		})
	})
	if err != nil {
		return nil, err
	}

	acct, err := s.Accounts.Get(accountID)
	if err != nil {
		return nil, err
	}

	s.Notify.Send(accountID, "Reward Claimed",
		fmt.Sprintf("Your level %d reward of %s has been added to your balance.", reward.Level, reward.Amount.StringFixed(2)),
		"success")
	s.Notify.AccountChanged(accountID, acct.Balance.StringFixed(2))
	return acct, nil
}

func (s *VipService) ListRewards(accountID string) ([]models.Reward, error) {
	var rewards []models.Reward
	err := s.DB.Where("account_id = ?", accountID).Order("created_at ASC").Find(&rewards).Error
	return rewards, err
}
