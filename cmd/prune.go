package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/ledger"
)

var pruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete day records older than the retention window",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

func init() {
	pruneCmd.Flags().IntVar(&pruneDays, "days", 0,
		fmt.Sprintf("Retention window in days (default from config, falling back to %d)", ledger.DefaultRetentionDays))
}

func runPrune(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	retention := pruneDays
	if retention <= 0 {
		retention = a.Cfg.RetentionDays
	}

	removed, err := a.Ledger.Prune(retention)
	if err != nil {
		return err
	}

	fmt.Printf("Pruned %d day(s)\n", removed)
	return nil
}
