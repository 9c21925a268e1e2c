package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoreno/fichaje/internal/capture"
	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/photo"
)

// App is the root Bubble Tea model.
type App struct {
	width  int
	height int

	activeView viewState
	showHelp   bool

	today   todayModel
	history historyModel
	report  reportModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(l *ledger.Ledger, v *photo.Vault, rec *capture.Recorder, reportDir string, thumbW int) App {
	h := help.New()
	h.ShowAll = false

	return App{
		activeView: viewToday,
		today:      newTodayModel(l, rec),
		history:    newHistoryModel(l),
		report:     newReportModel(l, v, reportDir, thumbW),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.loadData(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.report.setSize(a.width, contentHeight)
		return a, nil

	case tea.FocusMsg:
		// The terminal regained focus; the day may have rolled over or
		// another process may have written the ledger while we were in
		// the background. Re-derive everything from storage.
		return a, tea.Batch(a.today.loadData(), a.refreshCurrentView())

	case tea.KeyMsg:
		// If the today form is capturing input, delegate first.
		if a.today.formActive {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewReport
			return a, a.report.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		return a, tickCmd()

	case recordedMsg:
		a.status = msg.kind.String() + " recorded at " + msg.result.Stamp.Time
		a.isErr = false
		var cmd tea.Cmd
		a.today, cmd = a.today.update(msg)
		return a, cmd

	case deletedMsg:
		a.status = "Deleted " + msg.what
		a.isErr = false
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd

	case pdfDoneMsg:
		a.status = "Report written to " + msg.path
		a.isErr = false
		var cmd tea.Cmd
		a.report, cmd = a.report.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewReport:
		a.report, cmd = a.report.update(msg)
	}
	return a, cmd
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.loadData()
	case viewHistory:
		return a.history.refresh()
	case viewReport:
		return a.report.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewHistory:
		content = a.history.view()
	case viewReport:
		content = a.report.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("fichaje")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	clockInfo := ""
	if a.today.clockedIn() {
		if since := a.today.openSince(); !since.IsZero() {
			clockInfo = successStyle.Render(" ● " + formatDuration(time.Since(since)))
		}
	}

	left := footerStyle.Render(helpView)
	right := clockInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
