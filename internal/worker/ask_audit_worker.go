package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"askhub/internal/model"
	"askhub/internal/repository"
)

// AskAuditWorker drains the ask audit queue into the ask_audits table. It
// runs beside the request path; the ask flow itself never waits on it.
type AskAuditWorker struct {
	conn      *amqp.Connection
	repo      *repository.AskAuditRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAskAuditWorker(conn *amqp.Connection, repo *repository.AskAuditRepository, queueName string) *AskAuditWorker {
	return &AskAuditWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *AskAuditWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var audit model.AskAudit
				if err := json.Unmarshal(d.Body, &audit); err != nil {
					log.Printf("worker decode audit failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&audit); err != nil {
					log.Printf("worker persist audit failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *AskAuditWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
