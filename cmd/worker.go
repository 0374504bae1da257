package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/recruitment/internal/notification"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that consume queued work outside the HTTP server.`,
}

var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Deliver queued notifications",
	Long:  `Consume notifications published to the broker and deliver them over SMTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startNotificationWorker(cmd.Context())
	},
}

var prefetch int

func startNotificationWorker(ctx context.Context) error {
	config, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	lg := initLogger(config)

	if config.Notification.AMQP.URL == "" {
		return fmt.Errorf("notification.amqp.url is required for the notifications worker")
	}

	// Without SMTP settings the worker logs deliveries, which is enough for local development.
	var sender notification.CloseableSender = notification.NewLogSender(lg)
	if config.Notification.SMTP.Host != "" {
		sender, err = notification.NewSMTPSender(config.Notification.SMTP, config.Notification.From, lg)
		if err != nil {
			return err
		}
	}
	defer sender.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("starting notification worker",
		"queue", config.Notification.AMQP.Queue,
		"prefetch", getIntFlag(prefetch, config.Notification.Workers))

	consumer := notification.NewConsumer(config.Notification.AMQP, sender, getIntFlag(prefetch, config.Notification.Workers), lg)
	if err := consumer.Run(ctx); err != nil {
		return err
	}

	lg.Info("notification worker stopped")
	return nil
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	notificationWorkerCmd.Flags().IntVar(&prefetch, "prefetch", 0, "Unacknowledged messages per consumer (overrides notification.workers)")

	workerCmd.AddCommand(notificationWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
