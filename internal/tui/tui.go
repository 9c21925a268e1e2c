package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smoreno/fichaje/config"
	"github.com/smoreno/fichaje/internal/capture"
	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/photo"
)

// Run starts the interactive terminal UI and blocks until it exits.
func Run(l *ledger.Ledger, v *photo.Vault, cfg config.Config) error {
	rec := capture.New(l, v)
	app := NewApp(l, v, rec, cfg.ReportDir, cfg.ThumbWidth)

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
