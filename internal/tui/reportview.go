package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/photo"
	"github.com/smoreno/fichaje/internal/report"
)

type reportModel struct {
	ledger    *ledger.Ledger
	vault     *photo.Vault
	reportDir string
	thumbW    int
	width     int
	height    int

	months    []string // newest first
	monthIdx  int
	summaries []report.DaySummary

	chart     barchart.Model
	rendering bool
}

func newReportModel(l *ledger.Ledger, v *photo.Vault, reportDir string, thumbW int) reportModel {
	return reportModel{
		ledger:    l,
		vault:     v,
		reportDir: reportDir,
		thumbW:    thumbW,
		chart:     barchart.New(60, 12),
	}
}

func (m *reportModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m reportModel) month() string {
	if m.monthIdx < len(m.months) {
		return m.months[m.monthIdx]
	}
	return ""
}

func (m reportModel) refresh() tea.Cmd {
	return func() tea.Msg {
		months, err := m.ledger.Months()
		if err != nil {
			return errStatus("Report error: %v", err)
		}
		return monthsMsg{months: months}
	}
}

func (m reportModel) loadMonth() tea.Cmd {
	month := m.month()
	if month == "" {
		return nil
	}
	return func() tea.Msg {
		summaries, err := report.Summaries(m.ledger, month)
		if err != nil {
			return errStatus("Report error: %v", err)
		}
		return reportDataMsg{summaries: summaries}
	}
}

func (m reportModel) update(msg tea.Msg) (reportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case monthsMsg:
		m.months = msg.months
		if m.monthIdx >= len(m.months) {
			m.monthIdx = max(0, len(m.months)-1)
		}
		return m, m.loadMonth()

	case reportDataMsg:
		m.summaries = msg.summaries
		m.buildChart()
		return m, nil

	case pdfDoneMsg:
		m.rendering = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			// older month
			if m.monthIdx < len(m.months)-1 {
				m.monthIdx++
				return m, m.loadMonth()
			}
		case key.Matches(msg, keys.Right):
			if m.monthIdx > 0 {
				m.monthIdx--
				return m, m.loadMonth()
			}
		case key.Matches(msg, keys.Generate):
			if m.month() != "" && !m.rendering {
				m.rendering = true
				return m, m.generatePDF()
			}
		}
	}
	return m, nil
}

func (m reportModel) generatePDF() tea.Cmd {
	month := m.month()
	return func() tea.Msg {
		rep, err := report.Build(m.ledger, month)
		if err != nil {
			return errStatus("Report error: %v", err)
		}
		path := filepath.Join(m.reportDir, report.FileName(month))
		images := photo.NewThumbnailer(m.vault, m.thumbW)
		if err := report.RenderPDF(rep, images, path); err != nil {
			return errStatus("PDF error: %v", err)
		}
		return pdfDoneMsg{path: path}
	}
}

func (m *reportModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	barStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	var bars []barchart.BarData
	for _, s := range m.summaries {
		hours := float64(s.WorkedSeconds) / 3600.0
		bars = append(bars, barchart.BarData{
			Label: s.Day[8:], // day of month
			Values: []barchart.BarValue{
				{Name: s.Day, Value: hours, Style: barStyle},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m reportModel) view() string {
	w := m.width - 4

	if len(m.months) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Report"),
			mutedStyle.Render("Nothing recorded yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Report"), "  ",
		highlightStyle.Render(m.month()), "  ",
		mutedStyle.Render(fmt.Sprintf("(%d/%d)", m.monthIdx+1, len(m.months))),
	)

	status := ""
	if m.rendering {
		status = warningStyle.Render("  Rendering PDF…")
	}

	table := m.renderTable(w)
	nav := mutedStyle.Render("  ←/→: month  g: generate pdf")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", table, status, "", nav,
		),
	)
}

func (m reportModel) renderTable(w int) string {
	if len(m.summaries) == 0 {
		return mutedStyle.Render("  No data for this month")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s %10s", "Day", "Worked", "Sessions", "Incidents")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))

	var total int64
	for _, s := range m.summaries {
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10d %10d",
			s.Day, report.FormatSeconds(s.WorkedSeconds), s.Sessions, s.Incidents))
		total += s.WorkedSeconds
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 46))))
	rows = append(rows, fmt.Sprintf("  %-12s %10s", "Total", highlightStyle.Render(report.FormatSeconds(total))))

	return strings.Join(rows, "\n")
}
