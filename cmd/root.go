package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autobrr/discordhook/pkg/config"
	"github.com/autobrr/discordhook/pkg/logger"
)

var (
	// Global flags
	flagConfigFile string
	flagLogFile    string
	flagLogLevel   int

	initialized bool
)

var rootCmd = &cobra.Command{
	Use:   "discordhook",
	Short: "A CLI Discord webhook notifier",
	Long: `A CLI utility that posts a message, optionally with file attachments,
to a Discord channel via an incoming webhook URL.

The webhook URL and default display settings come from a JSON config file
and can be overridden with flags.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Parse persistent flags
	rootCmd.PersistentFlags().StringVarP(&flagConfigFile, "config", "c", config.DefaultFileName, "Config file")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file")
	rootCmd.PersistentFlags().CountVarP(&flagLogLevel, "verbose", "v", "Verbose mode (-v, or -vv)")
}

func initCore() {
	if initialized {
		return
	}
	initialized = true

	// Init logging
	if err := logger.Init(flagLogLevel, flagLogFile); err != nil {
		logrus.WithError(err).Fatal("Failed initializing logger")
	}
}
