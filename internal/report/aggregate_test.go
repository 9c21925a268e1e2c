package report

import (
	"errors"
	"testing"

	"github.com/smoreno/fichaje/internal/ledger"
)

// ============================================================
// Fixtures
// ============================================================

type fakeSource struct {
	days    []string
	records map[string]*ledger.DayRecord
	dayErr  error
}

func (f *fakeSource) Days() ([]string, error) {
	return f.days, nil
}

func (f *fakeSource) Day(key string) (*ledger.DayRecord, error) {
	if f.dayErr != nil {
		return nil, f.dayErr
	}
	return f.records[key], nil
}

func stamp(clock, ref string) ledger.Stamp {
	return ledger.Stamp{Time: clock, ImageRef: ref}
}

func stampPtr(clock, ref string) *ledger.Stamp {
	s := stamp(clock, ref)
	return &s
}

func closedDay(in, out string) *ledger.DayRecord {
	return &ledger.DayRecord{Sessions: []ledger.Session{{
		ClockIn:   stamp(in, "a.jpg"),
		ClockOut:  stampPtr(out, "b.jpg"),
		Incidents: []ledger.Incident{},
	}}}
}

// ============================================================
// Aggregation
// ============================================================

func TestBuildTotals(t *testing.T) {
	src := &fakeSource{
		days: []string{"2026-03-01", "2026-03-02"},
		records: map[string]*ledger.DayRecord{
			"2026-03-01": closedDay("09:00:00", "17:00:00"),
			"2026-03-02": {Sessions: []ledger.Session{{
				ClockIn: stamp("08:30:00", ""),
				Incidents: []ledger.Incident{
					{Stamp: ledger.Stamp{Time: "10:00:00"}, Note: "printer jam"},
				},
			}}},
		},
	}

	rep, err := Build(src, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if rep.Totals.DaysWithData != 2 {
		t.Errorf("DaysWithData = %d, want 2", rep.Totals.DaysWithData)
	}
	if rep.Totals.WorkedSeconds != 8*3600 {
		t.Errorf("WorkedSeconds = %d, want %d", rep.Totals.WorkedSeconds, 8*3600)
	}
	if rep.Totals.ClosedSessions != 1 || rep.Totals.OpenSessions != 1 {
		t.Errorf("sessions = %d closed / %d open, want 1/1",
			rep.Totals.ClosedSessions, rep.Totals.OpenSessions)
	}
	if rep.Totals.Incidents != 1 {
		t.Errorf("Incidents = %d, want 1", rep.Totals.Incidents)
	}
	if rep.Totals.FirstClockIn != "2026-03-01 09:00:00" {
		t.Errorf("FirstClockIn = %q", rep.Totals.FirstClockIn)
	}
	if rep.Totals.LastClockOut != "2026-03-01 17:00:00" {
		t.Errorf("LastClockOut = %q", rep.Totals.LastClockOut)
	}
}

func TestBuildPeriodFilter(t *testing.T) {
	src := &fakeSource{
		days: []string{"2026-02-28", "2026-03-01"},
		records: map[string]*ledger.DayRecord{
			"2026-02-28": closedDay("09:00:00", "10:00:00"),
			"2026-03-01": closedDay("09:00:00", "11:00:00"),
		},
	}

	rep, err := Build(src, "2026-03")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Totals.DaysWithData != 1 {
		t.Fatalf("DaysWithData = %d, want 1", rep.Totals.DaysWithData)
	}
	if rep.Totals.WorkedSeconds != 2*3600 {
		t.Errorf("WorkedSeconds = %d, want %d", rep.Totals.WorkedSeconds, 2*3600)
	}
}

func TestBuildSkipsDanglingDays(t *testing.T) {
	src := &fakeSource{
		days: []string{"2026-03-01", "2026-03-02"},
		records: map[string]*ledger.DayRecord{
			"2026-03-02": closedDay("09:00:00", "17:00:00"),
		},
	}

	rep, err := Build(src, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Totals.DaysWithData != 1 {
		t.Errorf("DaysWithData = %d, want 1", rep.Totals.DaysWithData)
	}
}

func TestBuildInstructionStream(t *testing.T) {
	src := &fakeSource{
		days:    []string{"2026-03-01"},
		records: map[string]*ledger.DayRecord{"2026-03-01": closedDay("09:00:00", "17:00:00")},
	}

	rep, err := Build(src, "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var pages, images int
	for _, in := range rep.Instructions {
		switch in.Kind {
		case OpPage:
			pages++
		case OpImage:
			images++
		}
	}
	// one day page plus the summary page
	if pages != 2 {
		t.Errorf("pages = %d, want 2", pages)
	}
	if images != 2 {
		t.Errorf("images = %d, want 2", images)
	}
	if rep.Instructions[1].Kind != OpHeading || rep.Instructions[1].Text != "2026-03-01" {
		t.Errorf("first heading = %+v", rep.Instructions[1])
	}
}

func TestBuildPropagatesReadError(t *testing.T) {
	src := &fakeSource{days: []string{"2026-03-01"}, dayErr: errors.New("db closed")}
	if _, err := Build(src, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestSummaries(t *testing.T) {
	src := &fakeSource{
		days: []string{"2026-03-01", "2026-03-02"},
		records: map[string]*ledger.DayRecord{
			"2026-03-01": closedDay("09:00:00", "13:00:00"),
			"2026-03-02": closedDay("09:00:00", "17:30:00"),
		},
	}

	got, err := Summaries(src, "")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].WorkedSeconds != 4*3600 {
		t.Errorf("day 1 seconds = %d, want %d", got[0].WorkedSeconds, 4*3600)
	}
	if got[1].WorkedSeconds != int64(8*3600+1800) {
		t.Errorf("day 2 seconds = %d, want %d", got[1].WorkedSeconds, 8*3600+1800)
	}
}

// ============================================================
// Clock parsing
// ============================================================

func TestClockSeconds(t *testing.T) {
	cases := []struct {
		clock string
		want  int
		ok    bool
	}{
		{"09:00:00", 9 * 3600, true},
		{"17:30:45", 17*3600 + 30*60 + 45, true},
		{"08:15", 8*3600 + 15*60, true}, // migrated legacy form
		{"00:00", 0, true},
		{"25:00:00", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := clockSeconds(c.clock)
		if ok != c.ok || got != c.want {
			t.Errorf("clockSeconds(%q) = %d,%v, want %d,%v", c.clock, got, ok, c.want, c.ok)
		}
	}
}

func TestSessionSecondsEdgeCases(t *testing.T) {
	open := ledger.Session{ClockIn: stamp("09:00:00", "")}
	if got := SessionSeconds(open); got != 0 {
		t.Errorf("open session = %d, want 0", got)
	}

	backwards := ledger.Session{ClockIn: stamp("17:00:00", ""), ClockOut: stampPtr("09:00:00", "")}
	if got := SessionSeconds(backwards); got != 0 {
		t.Errorf("backwards session = %d, want 0", got)
	}

	orphan := ledger.Session{
		ClockIn:  stamp("00:00", ""),
		ClockOut: stampPtr("10:00:00", ""),
		Incidents: []ledger.Incident{
			{Stamp: ledger.Stamp{Time: "09:30:00"}, Note: "note"},
		},
	}
	if got := SessionSeconds(orphan); got != 0 {
		t.Errorf("orphan session = %d, want 0", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(8*3600 + 5*60 + 9); got != "08:05:09" {
		t.Errorf("got %q", got)
	}
	if got := FormatSeconds(0); got != "00:00:00" {
		t.Errorf("got %q", got)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("2026-03"); got != "informe_2026-03.pdf" {
		t.Errorf("got %q", got)
	}
	if got := FileName(""); got != "informe_completo.pdf" {
		t.Errorf("got %q", got)
	}
}
