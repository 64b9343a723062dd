package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fxrisk",
	Short: "FX risk sizing and order-execution coordination",
	Long: `fxrisk sits between a trading strategy and a venue connection.

It provides:
  - Cross-currency position sizing from a risk fraction and stop distance
  - Asynchronous order submission with stop-loss and trailing-stop amendments
  - Peak-equity drawdown tracking with a configurable circuit breaker
  - Order-history journaling to CSV or SQLite`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
