package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/ledger"
)

var (
	incidentPhoto string
	incidentNote  string
)

var incidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "Record an incident, optionally backed by a photo",
	Args:  cobra.NoArgs,
	RunE:  runIncident,
}

func init() {
	incidentCmd.Flags().StringVar(&incidentPhoto, "photo", "", "Photo evidence for the incident")
	incidentCmd.Flags().StringVar(&incidentNote, "note", "", "What happened (required)")
}

func runIncident(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Recorder.Incident(incidentPhoto, incidentNote)
	if err != nil {
		if errors.Is(err, ledger.ErrEmptyNote) {
			return errors.New("an incident needs a note; pass --note")
		}
		return err
	}

	fmt.Printf("Incident recorded at %s\n", res.Stamp.Time)
	return nil
}
