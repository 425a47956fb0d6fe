package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Show the configured search",
	Long:  "Reads the config and prints the saved search, its schedule and where results are delivered.",
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-15s %s\n", "Keyword", cfg.Search.Keyword)
	fmt.Printf("%-15s %s\n", "Window", cfg.Search.Window)
	fmt.Printf("%-15s %s (%s)\n", "Delivery", cfg.Delivery.Type, cfg.Delivery.Destination)
	fmt.Printf("%-15s %s\n", "Post cron", cfg.Schedule.PostCron)
	fmt.Printf("%-15s %s\n", "AI tagging", enabledText(cfg.AI.Enabled))
	fmt.Println(strings.Repeat("─", 47))

	for i, loc := range cfg.Search.Locations {
		fmt.Printf("%2d. %s\n", i+1, loc)
	}

	fmt.Printf("\nTotal: %d locations\n", len(cfg.Search.Locations))
	return nil
}

func enabledText(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
