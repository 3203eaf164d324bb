package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/autobrr/discordhook/pkg/config"
	"github.com/autobrr/discordhook/pkg/logger"
	"github.com/autobrr/discordhook/pkg/notification"
)

var (
	flagWebhookURL     string
	flagMessage        string
	flagUsername       string
	flagAvatarURL      string
	flagAttachments    []string
	flagTimeout        int
	flagEscapeMarkdown bool
	flagDryRun         bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message to a Discord webhook",
	Long: `Send one message to the configured Discord webhook.

The message may be empty when at least one attachment is given; Discord
accepts attachment-only messages. Attachments are uploaded in the order
they were passed. Nothing is sent if any attachment cannot be read.`,

	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		start := time.Now()

		// init core
		initCore()

		// set log
		log := logger.GetLogger("send")

		// resolve effective settings; a flag that was explicitly supplied
		// always wins over the config file, even when its value is empty
		overrides := config.Overrides{}
		if cmd.Flags().Changed("webhook-url") {
			overrides.WebhookURL = &flagWebhookURL
		}
		if cmd.Flags().Changed("username") {
			overrides.Username = &flagUsername
		}
		if cmd.Flags().Changed("avatar-url") {
			overrides.AvatarURL = &flagAvatarURL
		}
		if cmd.Flags().Changed("timeout") {
			overrides.Timeout = &flagTimeout
		}

		settings, err := config.Resolve(flagConfigFile, cmd.Flags().Changed("config"), overrides)
		if err != nil {
			log.WithError(err).Fatal("Failed resolving configuration")
		}

		config.ShowUsing()

		// load attachments up-front, before any network call
		attachments, err := notification.ResolveAttachments(flagAttachments)
		if err != nil {
			log.WithError(err).Fatal("Failed resolving attachments")
		}

		// send
		sender := notification.NewDiscordSender(settings, notification.Options{
			EscapeMarkdown: flagEscapeMarkdown,
			DryRun:         flagDryRun,
		})

		msg := notification.Message{
			Content:     flagMessage,
			Attachments: attachments,
		}

		if err := sender.Send(ctx, msg); err != nil {
			log.WithError(err).Fatal("Failed sending notification")
		}

		log.Infof("Delivered in %s", time.Since(start).Truncate(time.Millisecond))
	},
}

func init() {
	sendCmd.Flags().StringVarP(&flagWebhookURL, "webhook-url", "w", "", "Discord webhook URL (overrides config file)")
	sendCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Message content")
	sendCmd.Flags().StringVarP(&flagUsername, "username", "u", "", "Display username (overrides config file)")
	sendCmd.Flags().StringVarP(&flagAvatarURL, "avatar-url", "a", "", "Display avatar URL (overrides config file)")
	sendCmd.Flags().StringArrayVarP(&flagAttachments, "attachments", "f", nil, "Attachment file or directory (repeatable)")
	sendCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "Request timeout in seconds (overrides config file)")
	sendCmd.Flags().BoolVar(&flagEscapeMarkdown, "escape-markdown", false, "Escape Discord markdown in the message")
	sendCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Build the message but do not send it")

	rootCmd.AddCommand(sendCmd)
}
