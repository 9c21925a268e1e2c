package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inCmd = &cobra.Command{
	Use:   "in <photo>",
	Short: "Clock in with a photo",
	Args:  cobra.ExactArgs(1),
	RunE:  runIn,
}

func runIn(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Recorder.ClockIn(args[0])
	if err != nil {
		return err
	}

	if res.WasOpen {
		fmt.Printf("Warning: previous session was still open; new session started at %s\n", res.Stamp.Time)
	} else {
		fmt.Printf("Clocked in at %s\n", res.Stamp.Time)
	}
	return nil
}
