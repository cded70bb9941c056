package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/acampos831/e-store-backend/internal/aws"
)

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	ordersTable := os.Getenv("ORDERS_TABLE")
	if ordersTable == "" {
		ordersTable = "orders"
	}
	namespace := os.Getenv("METRICS_NAMESPACE")
	if namespace == "" {
		namespace = "EStore"
	}

	p := NewProcessor(clients, ordersTable, namespace)

	// If RUN_LOCAL=true, simulate a single confirmation event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"user_id":"local-user-1","order_id":"local-order-1","transaction_id":"tx-1","status":"completed"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
