// Command budgetbuddy-audit consumes ledger events forwarded to the broker
// and writes them to the log, one record per event.
package main

import (
	"context"
	"os"
	"time"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/cli"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig(os.Stderr)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit consumer")
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	audit := worker.NewAuditWorker(logger)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				audit.LogStats(ctx)
			}
		}
	}()

	err = client.Consume(ctx, audit.HandleEvent)
	audit.LogStats(context.Background())
	if err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Audit consumer stopped")
}
