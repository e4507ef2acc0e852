package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// Wager is the receipt for a stake that has been debited but whose
// outcome has not yet been settled.
type Wager struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	AccountID string          `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	Game      string          `gorm:"column:game;size:40;not null" json:"game"`
	Stake     decimal.Decimal `gorm:"column:stake;type:decimal(20,2);not null" json:"stake"`
	Settled   bool            `gorm:"column:settled;default:false" json:"settled"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Wager) TableName() string {
	return "wagers"
}

// Bet is the immutable record of a settled wager.
type Bet struct {
	ID        string          `gorm:"primaryKey;size:36" json:"id"`
	WagerID   string          `gorm:"column:wager_id;size:36;not null;uniqueIndex" json:"wager_id"`
	AccountID string          `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	Game      string          `gorm:"column:game;size:40;not null" json:"game"`
	Stake     decimal.Decimal `gorm:"column:stake;type:decimal(20,2);not null" json:"stake"`
	Result    string          `gorm:"column:result;size:10;not null" json:"result"`
	Payout    decimal.Decimal `gorm:"column:payout;type:decimal(20,2);default:0.00" json:"payout"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Bet) TableName() string {
	return "bets"
}
