package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/smoreno/fichaje/config"
	"github.com/smoreno/fichaje/internal/capture"
	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/photo"
	"github.com/smoreno/fichaje/internal/store"
	"github.com/smoreno/fichaje/internal/tui"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fichaje",
	Short: "Photo-evidence work time clock",
	Long: `fichaje records clock-ins, clock-outs and incidents backed by
photo evidence. Event times are read from the photo's EXIF data, so a
stamp proves when the picture was taken, not when it was filed.

Run without arguments to open the interactive terminal UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return tui.Run(a.Ledger, a.Vault, a.Cfg)
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(incidentCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(daysCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(exportCmd)
}

// app bundles the wired-up pieces every command needs.
type app struct {
	Cfg      config.Config
	Store    *store.Store
	Vault    *photo.Vault
	Ledger   *ledger.Ledger
	Recorder *capture.Recorder
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	vault := photo.NewVault(cfg.PhotoDir)
	led := ledger.New(st, vault)
	return &app{
		Cfg:      cfg,
		Store:    st,
		Vault:    vault,
		Ledger:   led,
		Recorder: capture.New(led, vault),
	}, nil
}

func (a *app) Close() {
	if err := a.Store.Close(); err != nil {
		logrus.WithError(err).Warn("closing store")
	}
}
