package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/baaaiiiiii85858/bengal-bet/internal/services"
)

type Worker struct {
	Deposits *services.DepositService
}

func NewWorker(deposits *services.DepositService) *Worker {
	return &Worker{
		Deposits: deposits,
	}
}

// HandleNotificationDispatch delivers a stored notification to the push
// channel. Delivery is a log line for now; the row in the notifications
// table is the durable copy either way.
func (w *Worker) HandleNotificationDispatch(ctx context.Context, t *asynq.Task) error {
	var p services.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	log.Printf("notification delivered: account=%s title=%q type=%s", p.AccountID, p.Title, p.Type)
	return nil
}

// HandleAccountChanged publishes a committed balance change for live UI
// listeners.
func (w *Worker) HandleAccountChanged(ctx context.Context, t *asynq.Task) error {
	var p services.AccountChangedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	log.Printf("account changed: account=%s balance=%s", p.AccountID, p.Balance)
	return nil
}

// HandleDepositAutoApprove approves a deposit matched by the SMS
// webhook. A deposit that is already terminal counts as done, so webhook
// retries never double-credit.
func (w *Worker) HandleDepositAutoApprove(ctx context.Context, t *asynq.Task) error {
	var p services.AutoApprovePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	if _, err := w.Deposits.ApproveDeposit(p.DepositID, true); err != nil {
		if errors.Is(err, services.ErrAlreadyProcessed) {
			log.Printf("auto-approve: deposit %s already processed", p.DepositID)
			return nil
		}
		if errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("auto-approve: deposit %s not found: %w", p.DepositID, asynq.SkipRetry)
		}
		return err
	}
	log.Printf("auto-approve: deposit %s approved (trx %s)", p.DepositID, p.TrxID)
	return nil
}

func StartWorker(redisOpt asynq.RedisClientOpt, deposits *services.DepositService) {
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	worker := NewWorker(deposits)
	mux := asynq.NewServeMux()

	mux.HandleFunc(services.TypeNotificationDispatch, worker.HandleNotificationDispatch)
	mux.HandleFunc(services.TypeAccountChanged, worker.HandleAccountChanged)
	mux.HandleFunc(services.TypeDepositAutoApprove, worker.HandleDepositAutoApprove)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
