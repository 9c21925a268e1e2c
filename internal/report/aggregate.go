package report

import (
	"fmt"
	"strings"

	"github.com/smoreno/fichaje/internal/ledger"
)

// DaySource is the read-only slice of the ledger the aggregator walks.
type DaySource interface {
	Days() ([]string, error)
	Day(key string) (*ledger.DayRecord, error)
}

// Totals accumulates duration and count statistics across a period.
type Totals struct {
	WorkedSeconds  int64
	ClosedSessions int
	OpenSessions   int
	Incidents      int
	DaysWithData   int
	FirstClockIn   string // "YYYY-MM-DD HH:MM:SS"
	LastClockOut   string
}

// OpKind tags one render instruction.
type OpKind int

const (
	OpPage OpKind = iota
	OpHeading
	OpText
	OpImage
)

// Instruction is one step of the linear render stream the PDF (or any
// other) renderer consumes. Image carries a photo reference that the
// renderer resolves through the vault.
type Instruction struct {
	Kind  OpKind
	Text  string
	Image string
}

// Report is the aggregation result for one period.
type Report struct {
	Period       string // "YYYY-MM", or "" for everything
	Instructions []Instruction
	Totals       Totals
}

// DaySummary is the per-day rollup used by chart views.
type DaySummary struct {
	Day           string
	WorkedSeconds int64
	Sessions      int
	Incidents     int
}

// Build walks every indexed day of the period, oldest first, and emits
// one page of instructions per day plus a closing summary page. Days
// the index lists but storage no longer has are skipped.
func Build(src DaySource, period string) (*Report, error) {
	days, err := src.Days()
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	rep := &Report{Period: period}
	for _, day := range days {
		if period != "" && !strings.HasPrefix(day, period) {
			continue
		}
		rec, err := src.Day(day)
		if err != nil {
			return nil, fmt.Errorf("read day %s: %w", day, err)
		}
		if rec.Empty() {
			continue
		}
		rep.addDay(day, rec)
	}

	rep.addSummary()
	return rep, nil
}

// Summaries rolls the period up per day for chart rendering.
func Summaries(src DaySource, period string) ([]DaySummary, error) {
	days, err := src.Days()
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	var out []DaySummary
	for _, day := range days {
		if period != "" && !strings.HasPrefix(day, period) {
			continue
		}
		rec, err := src.Day(day)
		if err != nil {
			return nil, err
		}
		if rec.Empty() {
			continue
		}
		ds := DaySummary{Day: day, Sessions: len(rec.Sessions)}
		for _, s := range rec.Sessions {
			ds.Incidents += len(s.Incidents)
			ds.WorkedSeconds += SessionSeconds(s)
		}
		out = append(out, ds)
	}
	return out, nil
}

func (rep *Report) addDay(day string, rec *ledger.DayRecord) {
	rep.Totals.DaysWithData++
	rep.emit(Instruction{Kind: OpPage})
	rep.emit(Instruction{Kind: OpHeading, Text: day})

	for i, s := range rec.Sessions {
		if len(rec.Sessions) > 1 {
			rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("Session %d", i+1)})
		}

		if s.HasClockIn() {
			rep.emit(Instruction{Kind: OpText, Text: "Clock-in: " + s.ClockIn.Time})
			if s.ClockIn.ImageRef != "" {
				rep.emit(Instruction{Kind: OpImage, Image: s.ClockIn.ImageRef})
			}
			first := day + " " + s.ClockIn.Time
			if rep.Totals.FirstClockIn == "" || first < rep.Totals.FirstClockIn {
				rep.Totals.FirstClockIn = first
			}
		}

		if s.ClockOut != nil {
			rep.emit(Instruction{Kind: OpText, Text: "Clock-out: " + s.ClockOut.Time})
			if s.ClockOut.ImageRef != "" {
				rep.emit(Instruction{Kind: OpImage, Image: s.ClockOut.ImageRef})
			}
			last := day + " " + s.ClockOut.Time
			if last > rep.Totals.LastClockOut {
				rep.Totals.LastClockOut = last
			}
			rep.Totals.ClosedSessions++
			rep.Totals.WorkedSeconds += SessionSeconds(s)
		} else if s.HasClockIn() {
			rep.Totals.OpenSessions++
		}

		if len(s.Incidents) > 0 {
			rep.emit(Instruction{Kind: OpText, Text: "Incidents:"})
			for n, inc := range s.Incidents {
				rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("%d. %s - %s", n+1, inc.Time, inc.Note)})
				if inc.ImageRef != "" {
					rep.emit(Instruction{Kind: OpImage, Image: inc.ImageRef})
				}
				rep.Totals.Incidents++
			}
		}
	}
}

func (rep *Report) addSummary() {
	t := rep.Totals
	rep.emit(Instruction{Kind: OpPage})
	rep.emit(Instruction{Kind: OpHeading, Text: "Summary"})
	rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("Days with records: %d", t.DaysWithData)})
	rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("Time worked: %s", FormatSeconds(t.WorkedSeconds))})
	rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("Closed sessions: %d", t.ClosedSessions)})
	rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("Open sessions: %d", t.OpenSessions)})
	rep.emit(Instruction{Kind: OpText, Text: fmt.Sprintf("Incidents: %d", t.Incidents)})
	if t.FirstClockIn != "" {
		rep.emit(Instruction{Kind: OpText, Text: "First clock-in: " + t.FirstClockIn})
	}
	if t.LastClockOut != "" {
		rep.emit(Instruction{Kind: OpText, Text: "Last clock-out: " + t.LastClockOut})
	}
}

func (rep *Report) emit(in Instruction) {
	rep.Instructions = append(rep.Instructions, in)
}

// SessionSeconds is the worked span of a closed session; open, orphan
// and backwards sessions contribute nothing.
func SessionSeconds(s ledger.Session) int64 {
	if s.ClockOut == nil || !s.HasClockIn() {
		return 0
	}
	in, okIn := clockSeconds(s.ClockIn.Time)
	out, okOut := clockSeconds(s.ClockOut.Time)
	if !okIn || !okOut || out <= in {
		return 0
	}
	return int64(out - in)
}

// clockSeconds parses "HH:MM:SS" or the migrated "HH:MM" form into
// seconds of day.
func clockSeconds(clock string) (int, bool) {
	var h, m, s int
	if _, err := fmt.Sscanf(clock, "%d:%d:%d", &h, &m, &s); err != nil {
		s = 0
		if _, err := fmt.Sscanf(clock, "%d:%d", &h, &m); err != nil {
			return 0, false
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, false
	}
	return h*3600 + m*60 + s, true
}

// FormatSeconds renders a duration as HH:MM:SS.
func FormatSeconds(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
