package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcast/internal/delivery"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Delivery subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test message",
	Long:  "Sends a sample job using the configured delivery transport.",
	RunE:  runNotifyTest,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	engine, err := setupEngine(cfg, false, logger)
	if err != nil {
		logger.Error("failed to set up delivery", "error", err)
		os.Exit(1)
	}

	if err := delivery.SendTestMessage(context.Background(), engine, cfg.Delivery.Destination); err != nil {
		logger.Error("test message failed", "error", err)
		os.Exit(1)
	}
	logger.Info("test message sent successfully")
	return nil
}
