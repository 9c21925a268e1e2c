package tui

import (
	"fmt"
	"time"

	"github.com/smoreno/fichaje/internal/capture"
	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/report"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHistory
	viewReport
)

var viewNames = []string{"Today", "History", "Report"}

// --- Messages ---

type todayDataMsg struct {
	day string
	rec *ledger.DayRecord
	err error
}

type historyDataMsg struct {
	summaries []report.DaySummary
}

type dayDetailMsg struct {
	day string
	rec *ledger.DayRecord
}

type monthsMsg struct {
	months []string
}

type reportDataMsg struct {
	summaries []report.DaySummary
}

type recordedMsg struct {
	result capture.Result
	kind   ledger.EventKind
}

type deletedMsg struct {
	what string
}

type pdfDoneMsg struct {
	path string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func errStatus(format string, args ...any) statusMsg {
	return statusMsg{text: fmt.Sprintf(format, args...), isError: true}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
