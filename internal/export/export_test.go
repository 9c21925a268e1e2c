package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smoreno/fichaje/internal/ledger"
)

type fakeSource struct {
	days    []string
	records map[string]*ledger.DayRecord
}

func (f *fakeSource) Days() ([]string, error) { return f.days, nil }
func (f *fakeSource) Day(key string) (*ledger.DayRecord, error) {
	return f.records[key], nil
}

func testSource() *fakeSource {
	return &fakeSource{
		days: []string{"2026-02-28", "2026-03-01"},
		records: map[string]*ledger.DayRecord{
			"2026-02-28": {Sessions: []ledger.Session{{
				ClockIn:   ledger.Stamp{Time: "09:00:00"},
				ClockOut:  &ledger.Stamp{Time: "10:00:00"},
				Incidents: []ledger.Incident{},
			}}},
			"2026-03-01": {Sessions: []ledger.Session{{
				ClockIn:  ledger.Stamp{Time: "09:00:00", ImageRef: "a.jpg"},
				ClockOut: &ledger.Stamp{Time: "17:00:00", ImageRef: "b.jpg"},
				Incidents: []ledger.Incident{
					{Stamp: ledger.Stamp{Time: "11:00:00"}, Note: "power cut"},
				},
			}}},
		},
	}
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(testSource(), "", path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if got.Count != 2 || len(got.Days) != 2 {
		t.Fatalf("count = %d, days = %d, want 2/2", got.Count, len(got.Days))
	}
	s := got.Days[1].Sessions[0]
	if s.ClockIn != "09:00:00" || s.ClockOut != "17:00:00" {
		t.Errorf("session = %+v", s)
	}
	if s.DurationSec != 8*3600 || s.Duration != "08:00:00" {
		t.Errorf("duration = %d / %q", s.DurationSec, s.Duration)
	}
	if len(s.Incidents) != 1 || s.Incidents[0].Note != "power cut" {
		t.Errorf("incidents = %+v", s.Incidents)
	}
}

func TestToJSONPeriodFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(testSource(), "2026-03", path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got jsonExport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || got.Days[0].Day != "2026-03-01" {
		t.Errorf("got %+v", got)
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(testSource(), "", path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 { // header + 2 sessions
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Day" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[2][0] != "2026-03-01" || rows[2][4] != "08:00:00" {
		t.Errorf("row = %v", rows[2])
	}
	if !strings.Contains(rows[2][5], "power cut") {
		t.Errorf("incidents column = %q", rows[2][5])
	}
}
