package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoreno/fichaje/internal/capture"
	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/report"
)

type todayModel struct {
	ledger   *ledger.Ledger
	recorder *capture.Recorder
	width    int
	height   int

	day string
	rec *ledger.DayRecord

	formActive bool
	form       *huh.Form
	formKind   ledger.EventKind

	// Form field pointers (survive value copies)
	formPhoto *string
	formNote  *string
}

func newTodayModel(l *ledger.Ledger, r *capture.Recorder) todayModel {
	photoVal, noteVal := "", ""
	return todayModel{
		ledger:    l,
		recorder:  r,
		formPhoto: &photoVal,
		formNote:  &noteVal,
	}
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m todayModel) loadData() tea.Cmd {
	return func() tea.Msg {
		day := ledger.DayKey(time.Now())
		rec, err := m.ledger.Day(day)
		return todayDataMsg{day: day, rec: rec, err: err}
	}
}

func (m todayModel) clockedIn() bool {
	return m.rec.ClockedIn()
}

// openSince reconstructs the instant the open session started, for the
// live elapsed display. Zero when not clocked in.
func (m todayModel) openSince() time.Time {
	if !m.rec.ClockedIn() {
		return time.Time{}
	}
	last := m.rec.Sessions[len(m.rec.Sessions)-1]
	layout := "15:04:05"
	if len(last.ClockIn.Time) == 5 {
		layout = "15:04"
	}
	clock, err := time.ParseInLocation(layout, last.ClockIn.Time, time.Local)
	if err != nil {
		return time.Time{}
	}
	day, err := time.ParseInLocation(ledger.DayKeyLayout, m.day, time.Local)
	if err != nil {
		return time.Time{}
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second)
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todayDataMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errStatus("Load error: %v", msg.err) }
		}
		m.day = msg.day
		m.rec = msg.rec
		return m, nil

	case recordedMsg:
		return m, m.loadData()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.ClockIn):
			return m.showCaptureForm(ledger.EventClockIn)
		case key.Matches(msg, keys.ClockOut):
			if !m.clockedIn() {
				return m, func() tea.Msg {
					return errStatus("No open session. Press i to clock in first.")
				}
			}
			return m.showCaptureForm(ledger.EventClockOut)
		case key.Matches(msg, keys.Incident):
			return m.showCaptureForm(ledger.EventIncident)
		}
	}
	return m, nil
}

func (m todayModel) showCaptureForm(kind ledger.EventKind) (todayModel, tea.Cmd) {
	*m.formPhoto = ""
	*m.formNote = ""
	m.formKind = kind

	var group *huh.Group
	switch kind {
	case ledger.EventIncident:
		group = huh.NewGroup(
			huh.NewInput().
				Title("Photo path (optional)").
				Description("Leave empty to stamp the incident right now").
				Value(m.formPhoto),
			huh.NewInput().
				Title("Note").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("an incident needs a note")
					}
					return nil
				}).
				Value(m.formNote),
		)
	default:
		group = huh.NewGroup(
			huh.NewFilePicker().
				Title("Capture photo").
				Description("The photo's EXIF timestamp proves the instant").
				AllowedTypes([]string{".jpg", ".jpeg", ".png", ".webp"}).
				Value(m.formPhoto),
		)
	}

	m.form = huh.NewForm(group).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		kind := m.formKind
		photoPath := strings.TrimSpace(*m.formPhoto)
		note := strings.TrimSpace(*m.formNote)
		return m, m.record(kind, photoPath, note)
	}

	return m, cmd
}

func (m todayModel) record(kind ledger.EventKind, photoPath, note string) tea.Cmd {
	return func() tea.Msg {
		var (
			res capture.Result
			err error
		)
		switch kind {
		case ledger.EventClockIn:
			res, err = m.recorder.ClockIn(photoPath)
		case ledger.EventClockOut:
			res, err = m.recorder.ClockOut(photoPath)
		case ledger.EventIncident:
			res, err = m.recorder.Incident(photoPath, note)
		}
		if err != nil {
			return errStatus("%v", err)
		}
		return recordedMsg{result: res, kind: kind}
	}
}

func (m todayModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render(m.formKind.String())
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	w := m.width - 4
	statePanel := m.renderStatePanel(w)
	sessionsPanel := m.renderSessionsPanel(w)
	return lipgloss.JoinVertical(lipgloss.Left, statePanel, sessionsPanel)
}

func (m todayModel) renderStatePanel(w int) string {
	if m.clockedIn() {
		elapsed := time.Duration(0)
		if since := m.openSince(); !since.IsZero() {
			elapsed = time.Since(since)
		}
		content := lipgloss.JoinVertical(lipgloss.Center,
			clockedInStyle.Width(w-6).Render(formatDuration(elapsed)),
			successStyle.Render("●  CLOCKED IN"),
			mutedStyle.Render("Press o to clock out"),
		)
		return activePanelStyle.Width(w).Render(content)
	}

	var worked int64
	if m.rec != nil {
		for _, s := range m.rec.Sessions {
			worked += report.SessionSeconds(s)
		}
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		clockedOutStyle.Width(w-6).Render(report.FormatSeconds(worked)),
		mutedStyle.Render("■  CLOCKED OUT"),
		mutedStyle.Render("Press i to clock in with a photo"),
	)
	return panelStyle.Width(w).Render(content)
}

func (m todayModel) renderSessionsPanel(w int) string {
	title := titleStyle.Render("Sessions " + mutedStyle.Render(m.day))
	if m.rec.Empty() {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No records today"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, s := range m.rec.Sessions {
		out := warningStyle.Render("(open)")
		if s.ClockOut != nil {
			out = s.ClockOut.Time
		}
		in := s.ClockIn.Time
		if !s.HasClockIn() {
			in = mutedStyle.Render("(none)")
		}
		dur := report.FormatSeconds(report.SessionSeconds(s))
		rows = append(rows, fmt.Sprintf("  %d. %s – %s  %s", i+1, in, out, mutedStyle.Render(dur)))
		for _, inc := range s.Incidents {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("     ⚑ %s %s", inc.Time, inc.Note)))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
