package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BonusTierSettings is the single operator-configured row of tiered
// deposit promotion rules. Deposits beyond the third tier fall back to
// zero bonus at 1x turnover; DefaultTurnover covers special-bonus
// deposits with no per-user multiplier override.
type BonusTierSettings struct {
	ID int `gorm:"primaryKey" json:"id"`

	FirstBonusPercent float64 `gorm:"column:first_bonus_percent;default:0" json:"first_bonus_percent"`
	FirstTurnover     float64 `gorm:"column:first_turnover;default:1" json:"first_turnover"`

	SecondBonusPercent float64 `gorm:"column:second_bonus_percent;default:0" json:"second_bonus_percent"`
	SecondTurnover     float64 `gorm:"column:second_turnover;default:1" json:"second_turnover"`

	ThirdBonusPercent float64 `gorm:"column:third_bonus_percent;default:0" json:"third_bonus_percent"`
	ThirdTurnover     float64 `gorm:"column:third_turnover;default:1" json:"third_turnover"`

	DefaultTurnover float64 `gorm:"column:default_turnover;default:1" json:"default_turnover"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BonusTierSettings) TableName() string {
	return "bonus_tier_settings"
}

// VipLevel ids define the progression order; TurnoverRequired is assumed
// strictly increasing with id.
type VipLevel struct {
	ID               int             `gorm:"primaryKey" json:"id"`
	Name             string          `gorm:"column:name;size:60;not null" json:"name"`
	TurnoverRequired decimal.Decimal `gorm:"column:turnover_required;type:decimal(20,2);not null" json:"turnover_required"`
	LevelUpBonus     decimal.Decimal `gorm:"column:level_up_bonus;type:decimal(20,2);not null" json:"level_up_bonus"`
}

func (VipLevel) TableName() string {
	return "vip_levels"
}

type AffiliateSettings struct {
	ID             int             `gorm:"primaryKey" json:"id"`
	TurnoverTarget decimal.Decimal `gorm:"column:turnover_target;type:decimal(20,2);default:4000.00" json:"turnover_target"`
	BonusAmount    decimal.Decimal `gorm:"column:bonus_amount;type:decimal(20,2);default:200.00" json:"bonus_amount"`
	// Advertised recurring loss commission; carried for the UI but not
	// applied by the ledger.
	CommissionPercent float64   `gorm:"column:commission_percent;default:5" json:"commission_percent"`
	ReferralDomain    string    `gorm:"column:referral_domain;size:255" json:"referral_domain"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (AffiliateSettings) TableName() string {
	return "affiliate_settings"
}

// GameSetting holds the operator-tuned win ratio per game. The ledger
// never reads it; games consult it when deciding an outcome.
type GameSetting struct {
	GameID    string    `gorm:"primaryKey;size:40" json:"game_id"`
	WinRatio  int       `gorm:"column:win_ratio;default:60" json:"win_ratio"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (GameSetting) TableName() string {
	return "game_settings"
}

// PaymentNumber is a deposit destination number shown to players.
type PaymentNumber struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Number    string    `gorm:"column:number;size:20;not null" json:"number"`
	Type      string    `gorm:"column:type;size:20;not null" json:"type"`
	Active    bool      `gorm:"column:active;default:true" json:"active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PaymentNumber) TableName() string {
	return "payment_numbers"
}
