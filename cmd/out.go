package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/ledger"
)

var outCmd = &cobra.Command{
	Use:   "out <photo>",
	Short: "Clock out with a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runOut,
}

func runOut(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Recorder.ClockOut(args[0])
	if err != nil {
		if errors.Is(err, ledger.ErrNoOpenSession) {
			return errors.New("no open session to close; clock in first")
		}
		return err
	}

	fmt.Printf("Clocked out at %s\n", res.Stamp.Time)
	return nil
}
