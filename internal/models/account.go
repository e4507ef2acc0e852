package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the per-user ledger record. All monetary columns are
// decimal(20,2); the service layer is the only writer.
type Account struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	Name              string          `gorm:"column:name;size:255;not null" json:"name"`
	Phone             string          `gorm:"column:phone;size:20;not null;uniqueIndex" json:"phone"`
	Balance           decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	RemainingTurnover decimal.Decimal `gorm:"column:remaining_turnover;type:decimal(20,2);default:0.00" json:"remaining_turnover"`
	TotalTurnover     decimal.Decimal `gorm:"column:total_turnover;type:decimal(20,2);default:0.00" json:"total_turnover"`
	DepositCount      int             `gorm:"column:deposit_count;default:0" json:"deposit_count"`

	// Per-user override for the next approved deposit. Nil means the
	// tiered rules apply.
	SpecialBonusPercent  *float64 `gorm:"column:special_bonus_percent" json:"special_bonus_percent,omitempty"`
	SpecialBonusTurnover *float64 `gorm:"column:special_bonus_turnover" json:"special_bonus_turnover,omitempty"`

	WithdrawPin string `gorm:"column:withdraw_pin;size:64" json:"-"`
	VipLevel    int    `gorm:"column:vip_level;default:0" json:"vip_level"`

	ReferralCode       string `gorm:"column:referral_code;size:16;uniqueIndex" json:"referral_code"`
	ReferredBy         string `gorm:"column:referred_by;size:36;index" json:"referred_by"`
	ReferralBonusGiven bool   `gorm:"column:referral_bonus_given;default:false" json:"referral_bonus_given"`

	// Aggregates mutated only when this account is the referrer.
	TotalInvited       int             `gorm:"column:affiliate_total_invited;default:0" json:"affiliate_total_invited"`
	AffiliateEarnings  decimal.Decimal `gorm:"column:affiliate_total_earnings;type:decimal(20,2);default:0.00" json:"affiliate_total_earnings"`
	AffiliateClaimable decimal.Decimal `gorm:"column:affiliate_claimable;type:decimal(20,2);default:0.00" json:"affiliate_claimable"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// Reward is a claimable level-up bonus. Rows are deleted on claim, so
// presence in the table is the single source of claimability.
type Reward struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	AccountID string          `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	Type      string          `gorm:"column:type;size:30;default:vip_levelup" json:"type"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Level     int             `gorm:"column:level;not null" json:"level"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Reward) TableName() string {
	return "rewards"
}
