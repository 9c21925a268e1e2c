package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/report"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's sessions and clocked-in state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	day := ledger.DayKey(time.Now())
	rec, err := a.Ledger.Day(day)
	if err != nil {
		return err
	}

	fmt.Println(day)
	if rec.Empty() {
		fmt.Println("No records today.")
		return nil
	}

	var worked int64
	for i, s := range rec.Sessions {
		out := "(open)"
		if s.ClockOut != nil {
			out = s.ClockOut.Time
		}
		in := s.ClockIn.Time
		if !s.HasClockIn() {
			in = "(none)"
		}
		fmt.Printf("  session %d: %s – %s\n", i+1, in, out)
		for _, inc := range s.Incidents {
			fmt.Printf("    incident %s: %s\n", inc.Time, inc.Note)
		}
		worked += report.SessionSeconds(s)
	}

	fmt.Printf("Worked: %s\n", report.FormatSeconds(worked))
	if rec.ClockedIn() {
		fmt.Println("Currently clocked in.")
	} else {
		fmt.Println("Currently clocked out.")
	}
	return nil
}
