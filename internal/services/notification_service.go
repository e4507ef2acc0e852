package services

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

// Task types shared with the worker process.
const (
	TypeNotificationDispatch = "notification:dispatch"
	TypeAccountChanged       = "account:changed"
	TypeDepositAutoApprove   = "deposit:auto-approve"
)

type NotificationPayload struct {
	NotificationID string `json:"notificationId"`
	AccountID      string `json:"accountId"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Type           string `json:"type"`
}

type AccountChangedPayload struct {
	AccountID string `json:"accountId"`
	Balance   string `json:"balance"`
}

type AutoApprovePayload struct {
	DepositID string `json:"depositId"`
	TrxID     string `json:"trxId"`
}

// NotificationService persists notification rows and fans events out to
// the worker queue. All of it is fire-and-forget: failures are logged,
// never propagated into the ledger transaction that triggered them.
type NotificationService struct {
	DB     *gorm.DB
	Client *asynq.Client
}

func NewNotificationService(db *gorm.DB, client *asynq.Client) *NotificationService {
	return &NotificationService{DB: db, Client: client}
}

func (s *NotificationService) Send(accountID, title, message, typ string) {
	n := models.Notification{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Title:     title,
		Message:   message,
		Type:      typ,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		log.Printf("notification save failed for account %s: %v", accountID, err)
		return
	}

	s.enqueue(TypeNotificationDispatch, NotificationPayload{
		NotificationID: n.ID,
		AccountID:      accountID,
		Title:          title,
		Message:        message,
		Type:           typ,
	})
}

// AccountChanged publishes a balance-changed event after a committed
// mutation so presentation layers can push updates.
func (s *NotificationService) AccountChanged(accountID, balance string) {
	s.enqueue(TypeAccountChanged, AccountChangedPayload{
		AccountID: accountID,
		Balance:   balance,
	})
}

// EnqueueAutoApprove schedules a matched deposit for approval through the
// worker, deduplicated on the deposit id so webhook retries collapse into
// one task.
func (s *NotificationService) EnqueueAutoApprove(depositID, trxID string) error {
	if s.Client == nil {
		return nil
	}
	data, err := json.Marshal(AutoApprovePayload{DepositID: depositID, TrxID: trxID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeDepositAutoApprove, data)
	_, err = s.Client.Enqueue(task, asynq.TaskID("deposit:auto-approve:"+depositID))
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}
	return nil
}

func (s *NotificationService) enqueue(taskType string, payload interface{}) {
	if s.Client == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("task payload marshal failed: %v", err)
		return
	}
	if _, err := s.Client.Enqueue(asynq.NewTask(taskType, data)); err != nil {
		log.Printf("task enqueue failed (%s): %v", taskType, err)
	}
}

func (s *NotificationService) List(accountID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("account_id = ?", accountID).Order("created_at DESC").Limit(100).Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkRead(accountID, notificationID string) error {
	res := s.DB.Model(&models.Notification{}).
		Where("id = ? AND account_id = ?", notificationID, accountID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
