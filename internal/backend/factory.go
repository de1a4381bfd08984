// Package backend assembles the storage and event plumbing selected by
// configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/events"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the configured store and builds an event bus. Events
// reach the broker through a queued forwarder, so publishing on the bus
// never waits on the network. A broker that cannot be reached is logged and
// skipped; the ledger keeps working without it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store storage.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = storage.NewSQLiteStore(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldPath, config.SQLiteDBPath)
	case MemoryBackend:
		store = storage.NewMemoryStore()
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	bus := events.NewBus(f.logger)
	var (
		amqpClient *amqp.Client
		forwarder  *amqp.Forwarder
	)
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without event forwarding", log.FieldError, err)
			amqpClient = nil
		} else {
			forwarder = amqp.NewForwarder(amqpClient, 0, f.logger)
			bus.Forward(forwarder)
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	cleanup := func() error {
		var errs []error
		if forwarder != nil {
			errs = append(errs, forwarder.Close())
		}
		if amqpClient != nil {
			errs = append(errs, amqpClient.Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}

	return &BackendResult{
		Store:   store,
		Bus:     bus,
		Cleanup: cleanup,
	}, nil
}
