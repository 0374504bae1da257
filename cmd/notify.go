package cmd

import (
	"context"
	"time"

	"github.com/frahmantamala/recruitment/internal/notification"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification commands",
	Long:  `Inspect and exercise the configured notification sender`,
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  `Render the test template and send it synchronously through the configured driver`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTestNotification(cmd.Context(), notifyTo, notifyName)
	},
}

var (
	notifyTo   string
	notifyName string
)

func sendTestNotification(ctx context.Context, to, name string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	lg := initLogger(cfg)

	sender, err := notification.NewSender(cfg.Notification, lg)
	if err != nil {
		return err
	}
	defer sender.Close()

	renderer, err := notification.NewRenderer()
	if err != nil {
		return err
	}
	msg, err := renderer.Render(notification.KindTest, to, name, notification.TemplateData{RecipientName: name})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := sender.Send(ctx, msg); err != nil {
		return err
	}

	lg.Info("test notification sent", "driver", cfg.Notification.Driver, "to", to, "message_id", msg.ID)
	return nil
}

func init() {
	notifyTestCmd.Flags().StringVar(&notifyTo, "to", "", "Recipient email address")
	notifyTestCmd.Flags().StringVar(&notifyName, "name", "there", "Recipient display name")
	_ = notifyTestCmd.MarkFlagRequired("to")

	notifyCmd.AddCommand(notifyTestCmd)

	rootCmd.AddCommand(notifyCmd)
}
