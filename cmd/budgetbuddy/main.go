package main

import (
	"context"
	"os"
	"time"

	"budgetbuddy/internal/account"
	"budgetbuddy/internal/backend"
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/cli"
	"budgetbuddy/internal/ledger"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/persist"
	"budgetbuddy/internal/shell"
)

func main() {
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig(os.Stderr)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	adapter := persist.NewAdapter(res.Store, logger)
	calendar := cfg.Calendar()

	accounts := account.New(ctx, adapter,
		account.WithPublisher(res.Bus),
		account.WithLogger(logger),
		account.WithHashCost(cfg.BcryptCost))

	ledgerCache := cache.NewLRUCache[*ledger.Ledger](cfg.LedgerCacheSize, cfg.LedgerCacheTTL)
	cacheManager := cache.NewManager(logger)
	cacheManager.Register(ledgerCache)
	cacheManager.StartCleanup(5 * time.Minute)
	defer cacheManager.Stop()

	ledgers := ledger.NewRegistry(adapter, ledgerCache,
		ledger.WithPublisher(res.Bus),
		ledger.WithLogger(logger),
		ledger.WithCalendar(calendar))

	opts := []shell.Option{
		shell.WithBus(res.Bus),
		shell.WithLogger(logger),
		shell.WithCalendar(calendar),
	}
	if pw, ok := shell.TerminalPasswords(os.Stdin); ok {
		opts = append(opts, shell.WithPasswordReader(pw))
	}
	sh := shell.New(accounts, ledgers, os.Stdin, os.Stdout, opts...)

	logger.Info("Starting budgetbuddy",
		log.FieldBackend, cfg.DataBackend,
		"users", accounts.Count(),
		"amqp_enabled", cfg.AMQPURL != "")

	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil && err != context.Canceled {
			logger.Error("Shell stopped", log.FieldError, err)
		}
	case <-ctx.Done():
		// stdin reads cannot be interrupted; leave the reader goroutine behind
	}

	logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)
}
