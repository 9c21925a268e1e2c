package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/report"
)

// historyEvent addresses one deletable event inside a day record.
type historyEvent struct {
	label       string
	sessionIdx  int
	incidentIdx int // -1 for clock-in/out rows
	kind        ledger.EventKind
}

type historyModel struct {
	ledger *ledger.Ledger
	width  int
	height int

	summaries []report.DaySummary
	cursor    int

	// Day detail state
	viewingDay  bool
	day         string
	events      []historyEvent
	eventCursor int
}

func newHistoryModel(l *ledger.Ledger) historyModel {
	return historyModel{ledger: l}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		summaries, err := report.Summaries(m.ledger, "")
		if err != nil {
			return errStatus("History error: %v", err)
		}
		// newest first
		for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
			summaries[i], summaries[j] = summaries[j], summaries[i]
		}
		return historyDataMsg{summaries: summaries}
	}
}

func (m historyModel) openDay(day string) tea.Cmd {
	return func() tea.Msg {
		rec, err := m.ledger.Day(day)
		if err != nil {
			return errStatus("Load error: %v", err)
		}
		return dayDetailMsg{day: day, rec: rec}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.summaries = msg.summaries
		if m.cursor >= len(m.summaries) {
			m.cursor = max(0, len(m.summaries)-1)
		}
		return m, nil

	case dayDetailMsg:
		m.viewingDay = true
		m.day = msg.day
		m.events = flattenEvents(msg.rec)
		if m.eventCursor >= len(m.events) {
			m.eventCursor = max(0, len(m.events)-1)
		}
		return m, nil

	case deletedMsg:
		// Re-read both the detail and the day list; deleting the last
		// event destroys the whole record.
		return m, tea.Batch(m.openDay(m.day), m.refresh())

	case tea.KeyMsg:
		if m.viewingDay {
			return m.updateDayView(msg)
		}
		return m.updateDayList(msg)
	}
	return m, nil
}

func (m historyModel) updateDayList(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.summaries)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.summaries) > 0 {
			m.eventCursor = 0
			return m, m.openDay(m.summaries[m.cursor].Day)
		}
	}
	return m, nil
}

func (m historyModel) updateDayView(msg tea.KeyMsg) (historyModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingDay = false
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.eventCursor > 0 {
			m.eventCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.eventCursor < len(m.events)-1 {
			m.eventCursor++
		}
	case key.Matches(msg, keys.Delete):
		if len(m.events) > 0 {
			return m, m.deleteEvent(m.events[m.eventCursor])
		}
	}
	return m, nil
}

func (m historyModel) deleteEvent(ev historyEvent) tea.Cmd {
	day := m.day
	return func() tea.Msg {
		var err error
		switch ev.kind {
		case ledger.EventClockIn:
			_, err = m.ledger.DeleteClockIn(day, ev.sessionIdx)
		case ledger.EventClockOut:
			_, err = m.ledger.DeleteClockOut(day, ev.sessionIdx)
		case ledger.EventIncident:
			err = m.ledger.DeleteIncident(day, ev.sessionIdx, ev.incidentIdx)
		}
		if err != nil {
			return errStatus("Delete error: %v", err)
		}
		return deletedMsg{what: ev.kind.String()}
	}
}

// flattenEvents turns a day record into a cursor-addressable event
// list. Deleting a clock-in removes the whole session, photos
// included.
func flattenEvents(rec *ledger.DayRecord) []historyEvent {
	if rec.Empty() {
		return nil
	}
	var out []historyEvent
	for i, s := range rec.Sessions {
		if s.HasClockIn() {
			out = append(out, historyEvent{
				label:      fmt.Sprintf("clock-in  %s", s.ClockIn.Time),
				sessionIdx: i, incidentIdx: -1, kind: ledger.EventClockIn,
			})
		}
		if s.ClockOut != nil {
			out = append(out, historyEvent{
				label:      fmt.Sprintf("clock-out %s", s.ClockOut.Time),
				sessionIdx: i, incidentIdx: -1, kind: ledger.EventClockOut,
			})
		}
		for j, inc := range s.Incidents {
			out = append(out, historyEvent{
				label:      fmt.Sprintf("incident  %s  %s", inc.Time, inc.Note),
				sessionIdx: i, incidentIdx: j, kind: ledger.EventIncident,
			})
		}
	}
	return out
}

func (m historyModel) view() string {
	if m.viewingDay {
		return m.renderDayView()
	}
	return m.renderDayList()
}

func (m historyModel) renderDayList() string {
	w := m.width - 4
	title := titleStyle.Render("Recorded Days")

	if len(m.summaries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("Nothing recorded yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, s := range m.summaries {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%s  %s  %d session(s)",
			cursor, s.Day, report.FormatSeconds(s.WorkedSeconds), s.Sessions)
		if s.Incidents > 0 {
			line += warningStyle.Render(fmt.Sprintf("  ⚑ %d", s.Incidents))
		}
		rows = append(rows, style.Render(line))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: open day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m historyModel) renderDayView() string {
	w := m.width - 4
	title := titleStyle.Render(m.day)

	var rows []string
	rows = append(rows, title)
	if len(m.events) == 0 {
		rows = append(rows, mutedStyle.Render("Record is empty"))
	}
	for i, ev := range m.events {
		cursor := "  "
		style := normalItemStyle
		if i == m.eventCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+ev.label))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  d: delete event  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
