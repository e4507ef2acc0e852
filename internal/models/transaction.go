package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the audit row written alongside every balance mutation.
type Transaction struct {
	ID            int             `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID     string          `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	TransactionNo string          `gorm:"column:transaction_no;size:40;not null;index" json:"transaction_no"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,2);not null" json:"amount"`
	TrxType       string          `gorm:"column:transaction_type;size:10;not null" json:"transaction_type"` // credit or debit
	Subject       string          `gorm:"column:subject;size:60;not null" json:"subject"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	Channel       string          `gorm:"column:channel;size:30" json:"channel"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(20,2);default:0.00" json:"balance"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	AccountID string    `gorm:"column:account_id;size:36;not null;index" json:"account_id"`
	Title     string    `gorm:"column:title;size:120;not null" json:"title"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	Type      string    `gorm:"column:type;size:20;default:info" json:"type"`
	Read      bool      `gorm:"column:read;default:false" json:"read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// CallbackLog records every inbound SMS webhook hit for troubleshooting
// unmatched payments.
type CallbackLog struct {
	ID            int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Request       string    `gorm:"column:request;type:text" json:"request"`
	TransactionID string    `gorm:"column:transaction_id;size:64;index" json:"transaction_id"`
	RequestType   string    `gorm:"column:request_type;size:40" json:"request_type"`
	Response      string    `gorm:"column:response;type:text" json:"response"`
	Status        int       `gorm:"column:status;default:0" json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CallbackLog) TableName() string {
	return "callback_logs"
}
