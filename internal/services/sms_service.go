package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/baaaiiiiii85858/bengal-bet/internal/models"
)

// Transaction id formats of the supported payment channels.
var (
	bkashTrxRe = regexp.MustCompile(`TrxID\s+([A-Z0-9]+)`)
	nagadTrxRe = regexp.MustCompile(`TxnID:\s+([A-Z0-9]+)`)
)

// ParseTrxID pulls the payment transaction id out of an inbound SMS
// body. The channel is recognized from the id format itself, so a
// forwarding device does not need to tag the sender.
func ParseTrxID(body string) (trxID, channel string, ok bool) {
	if m := bkashTrxRe.FindStringSubmatch(body); len(m) == 2 {
		return m[1], "bkash", true
	}
	if m := nagadTrxRe.FindStringSubmatch(body); len(m) == 2 {
		return m[1], "nagad", true
	}
	return "", "", false
}

// SmsService ingests payment confirmation texts forwarded by the
// operator's SIM device and auto-approves the matching pending deposit
// through the worker queue. Every hit is logged for troubleshooting
// unmatched payments.
type SmsService struct {
	DB       *gorm.DB
	Deposits *DepositService
	Notify   *NotificationService
	Secret   string
}

func NewSmsService(db *gorm.DB, deposits *DepositService, notify *NotificationService, secret string) *SmsService {
	return &SmsService{DB: db, Deposits: deposits, Notify: notify, Secret: secret}
}

// HandleInbound verifies the shared secret, extracts the transaction id
// and queues the matching pending deposit for approval. Unmatched texts
// are logged and reported back so the device operator can follow up.
func (s *SmsService) HandleInbound(secret, sender, body string) (matched bool, err error) {
	if s.Secret == "" || secret != s.Secret {
		return false, ErrUnauthorized
	}

	trxID, channel, ok := ParseTrxID(body)
	if !ok {
		s.logCallback(sender, body, "", "no transaction id recognized", 0)
		return false, nil
	}

	dep, err := s.Deposits.FindPendingByTrxID(trxID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logCallback(sender, body, trxID, fmt.Sprintf("no pending deposit for %s trx", channel), 0)
			return false, nil
		}
		return false, err
	}

	if err := s.Notify.EnqueueAutoApprove(dep.ID, trxID); err != nil {
		s.logCallback(sender, body, trxID, "enqueue failed: "+err.Error(), 0)
		return false, err
	}

	s.logCallback(sender, body, trxID, "queued deposit "+dep.ID, 1)
	return true, nil
}

func (s *SmsService) logCallback(sender, body, trxID, response string, status int) {
	row := models.CallbackLog{
		Request:       strings.TrimSpace(sender + ": " + body),
		TransactionID: trxID,
		RequestType:   "sms",
		Response:      response,
		Status:        status,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		// Logging must never fail the webhook.
		log.Printf("callback log write failed: %v", err)
	}
}
