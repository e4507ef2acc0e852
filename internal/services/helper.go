package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
	"github.com/baaaiiiiii85858/bengal-bet/pkg/common"
)

type HelperService struct {
	DB *gorm.DB
}

func NewHelperService(db *gorm.DB) *HelperService {
	return &HelperService{DB: db}
}

type TransactionData struct {
	AccountID    string
	Amount       decimal.Decimal
	TrxType      string
	Subject      string
	Description  string
	Channel      string
	BalanceAfter decimal.Decimal
}

// SaveTransaction writes an audit row for a committed balance mutation.
// Call it with the tx of the operation so the row commits atomically
// with the mutation it describes.
func (s *HelperService) SaveTransaction(tx *gorm.DB, data TransactionData) error {
	if tx == nil {
		tx = s.DB
	}
	row := models.Transaction{
		AccountID:     data.AccountID,
		TransactionNo: common.GenerateTrxNo(),
		Amount:        data.Amount,
		TrxType:       data.TrxType,
		Subject:       data.Subject,
		Description:   data.Description,
		Channel:       data.Channel,
		Balance:       data.BalanceAfter,
	}
	return tx.Create(&row).Error
}

func (s *HelperService) ListTransactions(accountID string, page, limit int) (common.PaginationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := s.DB.Model(&models.Transaction{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return common.PaginationResult{}, err
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return common.PaginationResult{}, err
	}

	return common.PaginateResponse(transactions, total, page, limit, "Transactions fetched"), nil
}
