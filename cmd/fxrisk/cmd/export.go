package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfx/fxrisk/journal"
)

var (
	exportDBPath     string
	exportOut        string
	exportInstrument string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export journaled order history from SQLite to CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := journal.NewSQLite(exportDBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		records, err := db.List(exportInstrument)
		if err != nil {
			return err
		}

		out, err := journal.NewCSV(exportOut)
		if err != nil {
			return err
		}
		defer out.Close()

		for _, r := range records {
			if err := out.RecordOrder(r); err != nil {
				return err
			}
		}
		fmt.Printf("exported %d orders to %s\n", len(records), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDBPath, "db", "orders.db", "SQLite journal path")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "orders.csv", "output CSV path")
	exportCmd.Flags().StringVarP(&exportInstrument, "instrument", "i", "", "filter by instrument")
	rootCmd.AddCommand(exportCmd)
}
