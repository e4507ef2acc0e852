package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Funding request statuses. Transitions are pending -> approved|rejected,
// enforced with a compare-and-swap on the status column.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Payment channels accepted for deposits and withdrawals.
var PaymentMethods = map[string]bool{
	"bkash":  true,
	"nagad":  true,
	"rocket": true,
}

type Deposit struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	AccountID    string          `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Method       string          `gorm:"column:method;size:20;not null" json:"method"`
	SenderNumber string          `gorm:"column:sender_number;size:20" json:"sender_number"`
	TrxID        string          `gorm:"column:trx_id;size:64;index" json:"trx_id"`
	WantsBonus   bool            `gorm:"column:wants_bonus;default:true" json:"wants_bonus"`
	Status       string          `gorm:"column:status;size:10;default:pending;index" json:"status"`

	// Audit fields stamped at approval time.
	AppliedBonusPercent float64         `gorm:"column:applied_bonus_percent;default:0" json:"applied_bonus_percent"`
	TurnoverAdded       decimal.Decimal `gorm:"column:turnover_added;type:decimal(20,2);default:0.00" json:"turnover_added"`
	AutoApproved        bool            `gorm:"column:auto_approved;default:false" json:"auto_approved"`

	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectedAt *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
}

func (Deposit) TableName() string {
	return "deposits"
}

type Withdrawal struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	AccountID    string          `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	Method       string          `gorm:"column:method;size:20;not null" json:"method"`
	WalletNumber string          `gorm:"column:wallet_number;size:20;not null" json:"wallet_number"`
	Status       string          `gorm:"column:status;size:10;default:pending;index" json:"status"`
	Comment      string          `gorm:"column:comment;type:text" json:"comment"`

	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ApprovedAt *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	RejectedAt *time.Time `gorm:"column:rejected_at" json:"rejected_at,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
