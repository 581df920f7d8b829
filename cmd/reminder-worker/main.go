package main

import (
	"context"
	"errors"
	"os"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	applog "fintrack/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentAMQP)
	logger.Info("Starting reminder-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the reminder worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext()
	defer stop()

	err = client.ConsumeReminders(ctx, func(ctx context.Context, msg *amqp.ReminderMessage) error {
		// Push delivery lives outside fintrack; the worker records the hand-off.
		logger.InfoContext(ctx, "Reminder delivered",
			"notification_id", msg.NotificationID,
			applog.FieldRecurringID, msg.RecurringID,
			"title", msg.Title,
			"body", msg.Body,
			"due_date", msg.DueDate)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Reminder consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Reminder-worker shutdown complete")
}
