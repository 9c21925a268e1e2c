package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/report"
)

var daysMonth string

var daysCmd = &cobra.Command{
	Use:   "days",
	Short: "List recorded days with worked time",
	Args:  cobra.NoArgs,
	RunE:  runDays,
}

func init() {
	daysCmd.Flags().StringVar(&daysMonth, "month", "", "Restrict to a month (YYYY-MM)")
}

func runDays(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	summaries, err := report.Summaries(a.Ledger, daysMonth)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No recorded days.")
		return nil
	}

	for _, s := range summaries {
		line := fmt.Sprintf("%s  %s  %d session(s)", s.Day, report.FormatSeconds(s.WorkedSeconds), s.Sessions)
		if s.Incidents > 0 {
			line += fmt.Sprintf(", %d incident(s)", s.Incidents)
		}
		fmt.Println(line)
	}
	return nil
}
