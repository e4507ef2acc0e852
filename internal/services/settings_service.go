package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

// SettingsService holds the operator-facing configuration: bonus tiers,
// VIP levels, affiliate rules, per-user special offers, game win ratios
// and the published payment numbers.
type SettingsService struct {
	DB     *gorm.DB
	Notify *NotificationService
}

func NewSettingsService(db *gorm.DB, notify *NotificationService) *SettingsService {
	return &SettingsService{DB: db, Notify: notify}
}

const settingsRowID = 1

// GetBonusTiers returns the singleton tier settings row, creating the
// defaults on first read.
func (s *SettingsService) GetBonusTiers() (models.BonusTierSettings, error) {
	return s.getBonusTiers(s.DB)
}

func (s *SettingsService) getBonusTiers(tx *gorm.DB) (models.BonusTierSettings, error) {
	var cfg models.BonusTierSettings
	err := tx.Where("id = ?", settingsRowID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.BonusTierSettings{
			ID:              settingsRowID,
			FirstTurnover:   1,
			SecondTurnover:  1,
			ThirdTurnover:   1,
			DefaultTurnover: 1,
		}
		if err := tx.Create(&cfg).Error; err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return cfg, err
}

func (s *SettingsService) UpdateBonusTiers(cfg models.BonusTierSettings) (models.BonusTierSettings, error) {
	if cfg.FirstTurnover <= 0 || cfg.SecondTurnover <= 0 || cfg.ThirdTurnover <= 0 || cfg.DefaultTurnover <= 0 {
		return cfg, ErrValidation
	}
	cfg.ID = settingsRowID
	if err := s.DB.Save(&cfg).Error; err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (s *SettingsService) ListVipLevels() ([]models.VipLevel, error) {
	var levels []models.VipLevel
	err := s.DB.Order("id ASC").Find(&levels).Error
	return levels, err
}

// ReplaceVipLevels swaps the full level ladder in one transaction.
func (s *SettingsService) ReplaceVipLevels(levels []models.VipLevel) error {
	for _, l := range levels {
		if l.ID <= 0 || l.TurnoverRequired.IsNegative() || l.LevelUpBonus.IsNegative() {
			return ErrValidation
		}
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.VipLevel{}).Error; err != nil {
			return err
		}
		for _, l := range levels {
			if err := tx.Create(&l).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SettingsService) GetAffiliateSettings() (models.AffiliateSettings, error) {
	return s.getAffiliateSettings(s.DB)
}

func (s *SettingsService) getAffiliateSettings(tx *gorm.DB) (models.AffiliateSettings, error) {
	var cfg models.AffiliateSettings
	err := tx.Where("id = ?", settingsRowID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = models.AffiliateSettings{ID: settingsRowID, CommissionPercent: 5}
		if err := tx.Create(&cfg).Error; err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return cfg, err
}

func (s *SettingsService) UpdateAffiliateSettings(cfg models.AffiliateSettings) (models.AffiliateSettings, error) {
	if cfg.TurnoverTarget.IsNegative() || cfg.BonusAmount.IsNegative() {
		return cfg, ErrValidation
	}
	cfg.ID = settingsRowID
	if err := s.DB.Save(&cfg).Error; err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SetSpecialBonus sets or clears the per-user override applied to the
// user's next approved deposit. Passing nil percent clears both fields.
func (s *SettingsService) SetSpecialBonus(accountID string, percent, turnoverMultiplier *float64) error {
	var acct models.Account
	if err := s.DB.Where("id = ?", accountID).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	updates := map[string]interface{}{
		"special_bonus_percent":  percent,
		"special_bonus_turnover": turnoverMultiplier,
	}
	if percent == nil {
		updates["special_bonus_turnover"] = nil
	}
	if err := s.DB.Model(&acct).Updates(updates).Error; err != nil {
		return err
	}

	if percent != nil {
		s.Notify.Send(accountID, "Special Bonus Offer",
			fmt.Sprintf("You have received a Special Bonus Offer of %.0f%%! Deposit now to claim it.", *percent),
			"success")
	}
	return nil
}

func (s *SettingsService) ListPaymentNumbers(activeOnly bool) ([]models.PaymentNumber, error) {
	var numbers []models.PaymentNumber
	query := s.DB.Order("created_at ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&numbers).Error
	return numbers, err
}

func (s *SettingsService) AddPaymentNumber(number, typ string) (models.PaymentNumber, error) {
	if number == "" || !models.PaymentMethods[typ] {
		return models.PaymentNumber{}, ErrValidation
	}
	pn := models.PaymentNumber{
		ID:     uuid.NewString(),
		Number: number,
		Type:   typ,
		Active: true,
	}
	if err := s.DB.Create(&pn).Error; err != nil {
		return models.PaymentNumber{}, err
	}
	return pn, nil
}

func (s *SettingsService) DeletePaymentNumber(id string) error {
	res := s.DB.Where("id = ?", id).Delete(&models.PaymentNumber{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SettingsService) GetGameSetting(gameID string) (models.GameSetting, error) {
	var gs models.GameSetting
	err := s.DB.Where("game_id = ?", gameID).First(&gs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Unconfigured games run at the stock ratio.
		return models.GameSetting{GameID: gameID, WinRatio: 60}, nil
	}
	return gs, err
}

func (s *SettingsService) SetGameWinRatio(gameID string, winRatio int) (models.GameSetting, error) {
	if gameID == "" || winRatio < 0 || winRatio > 100 {
		return models.GameSetting{}, ErrValidation
	}
	gs := models.GameSetting{GameID: gameID, WinRatio: winRatio}
	if err := s.DB.Save(&gs).Error; err != nil {
		return models.GameSetting{}, err
	}
	return gs, nil
}
