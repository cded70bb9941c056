package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/acampos831/e-store-backend/internal/aws"
	"github.com/acampos831/e-store-backend/internal/orders"
)

// Processor consumes payment gateway confirmations and applies the
// terminal payment transition to the order.
type Processor struct {
	orderStore *orders.Store
	metrics    *aws.Recorder
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, ordersTable, metricsNamespace string) *Processor {
	p := &Processor{
		orderStore: orders.NewStore(clients.DynamoDB, ordersTable),
	}
	if clients.CloudWatch != nil {
		p.metrics = aws.NewRecorder(clients.CloudWatch, metricsNamespace)
	}
	return p
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg PaymentConfirmation
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] confirmation order=%s tx=%s status=%s corr=%s",
		msg.OrderID, msg.TransactionID, msg.Status, msg.CorrelationID)

	err := p.orderStore.UpdatePaymentStatus(ctx, msg.UserID, msg.OrderID, msg.TransactionID, msg.Status)
	switch {
	case err == nil:
	case errors.Is(err, orders.ErrPaymentFinal):
		// Gateways redeliver; a second confirmation for a settled payment
		// is swallowed, never retried.
		log.Printf("[worker] duplicate confirmation for order=%s, payment already final", msg.OrderID)
		return nil
	case errors.Is(err, orders.ErrOrderNotFound):
		// Should never happen: the order is durable before any
		// confirmation can reference it. Let SQS retry and eventually DLQ.
		return fmt.Errorf("order not found: %s", msg.OrderID)
	default:
		return fmt.Errorf("update payment status for order=%s: %w", msg.OrderID, err)
	}

	if p.metrics != nil {
		if merr := p.metrics.Count(ctx, "PaymentConfirmations", 1, map[string]string{"Status": msg.Status}); merr != nil {
			log.Printf("[worker] metric emit failed: %v", merr)
		}
	}

	log.Printf("[worker] applied %s payment for order=%s", msg.Status, msg.OrderID)
	return nil
}
