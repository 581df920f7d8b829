package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/cli"
	applog "fintrack/internal/log"
	"fintrack/internal/services"

	"golang.org/x/sync/errgroup"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)
	logger.Info("Starting recurring-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var publisher services.ReminderPublisher
	if amqpClient := cli.InitAMQP(logger, cfg); amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	processor := services.NewRecurringProcessor(repo, repo)
	reminders := services.NewReminderService(repo, repo, repo, publisher)

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Recurring worker configured",
		"processor_interval", cfg.ProcessorInterval,
		"reminder_interval", cfg.ReminderSyncInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runEvery(ctx, cfg.ProcessorInterval, logger.WithComponent(applog.ComponentProcessor), applog.OpProcess,
			processor.ProcessDue)
	})
	g.Go(func() error {
		return runEvery(ctx, cfg.ReminderSyncInterval, logger.WithComponent(applog.ComponentReminder), applog.OpSync,
			reminders.Sync)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Recurring worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recurring-worker shutdown complete")
}

// runEvery runs task once immediately and then on every tick until ctx is
// done. A failed run is logged and retried on the next tick.
func runEvery(ctx context.Context, interval time.Duration, logger *applog.Logger, op string, task func(context.Context, time.Time) (int, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	now := time.Now()
	for {
		count, err := task(ctx, now)
		if err != nil && ctx.Err() == nil {
			logger.LogOperation(ctx, "Run failed", op, err)
		} else if err == nil {
			logger.LogOperation(ctx, "Run complete", op, nil,
				applog.FieldCount, count,
				"next_run", now.Add(interval).Format(time.TimeOnly))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case now = <-ticker.C:
		}
	}
}
