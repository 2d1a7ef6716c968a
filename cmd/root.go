package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tg-attendances-bot",
	Short: "Telegram bot that tracks daily attendance of children in groups",
	Long: `tg-attendances-bot is a single-operator Telegram bot. It accepts an
Excel roster of groups and children, lets the operator mark daily
attendance through inline keyboards and produces Excel reports of the
recorded days.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
