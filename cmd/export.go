package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/export"
)

var (
	exportFormat string
	exportMonth  string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export day records as JSON or CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Restrict to a month (YYYY-MM)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default fichaje.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	path := exportOut
	if path == "" {
		path = "fichaje." + exportFormat
	}

	switch exportFormat {
	case "json":
		err = export.ToJSON(a.Ledger, exportMonth, path)
	case "csv":
		err = export.ToCSV(a.Ledger, exportMonth, path)
	default:
		return fmt.Errorf("unknown format %q (want json or csv)", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}
