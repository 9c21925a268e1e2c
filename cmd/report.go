package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/internal/photo"
	"github.com/smoreno/fichaje/internal/report"
)

var (
	reportMonth string
	reportAll   bool
	reportOut   string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a PDF report with photo evidence",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Report one month (YYYY-MM)")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "Report all recorded days")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output file (default informe_<period>.pdf)")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportMonth == "" && !reportAll {
		return errors.New("pass --month YYYY-MM or --all")
	}
	if reportMonth != "" && reportAll {
		return errors.New("--month and --all are mutually exclusive")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := report.Build(a.Ledger, reportMonth)
	if err != nil {
		return err
	}
	if rep.Totals.DaysWithData == 0 {
		return errors.New("no records in the requested period")
	}

	path := reportOut
	if path == "" {
		path = filepath.Join(a.Cfg.ReportDir, report.FileName(reportMonth))
	}

	images := photo.NewThumbnailer(a.Vault, a.Cfg.ThumbWidth)
	if err := report.RenderPDF(rep, images, path); err != nil {
		return err
	}

	fmt.Printf("Report written to %s (%d day(s), %s worked)\n",
		path, rep.Totals.DaysWithData, report.FormatSeconds(rep.Totals.WorkedSeconds))
	return nil
}
