package export

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/report"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Period     string    `json:"period,omitempty"`
	Count      int       `json:"count"`
	Days       []jsonDay `json:"days"`
}

type jsonDay struct {
	Day      string        `json:"day"`
	Sessions []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ClockIn     string         `json:"clock_in"`
	ClockOut    string         `json:"clock_out,omitempty"`
	DurationSec int64          `json:"duration_seconds"`
	Duration    string         `json:"duration"`
	Incidents   []jsonIncident `json:"incidents,omitempty"`
}

type jsonIncident struct {
	Time string `json:"time"`
	Note string `json:"note"`
}

// ToJSON writes the period's day records to path as indented JSON.
func ToJSON(src report.DaySource, period, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Period:     period,
	}

	days, err := collectDays(src, period)
	if err != nil {
		return err
	}

	for _, d := range days {
		jd := jsonDay{Day: d.key}
		for _, s := range d.rec.Sessions {
			js := jsonSession{
				ClockIn:     s.ClockIn.Time,
				DurationSec: report.SessionSeconds(s),
			}
			js.Duration = report.FormatSeconds(js.DurationSec)
			if s.ClockOut != nil {
				js.ClockOut = s.ClockOut.Time
			}
			for _, inc := range s.Incidents {
				js.Incidents = append(js.Incidents, jsonIncident{Time: inc.Time, Note: inc.Note})
			}
			jd.Sessions = append(jd.Sessions, js)
		}
		export.Days = append(export.Days, jd)
	}
	export.Count = len(export.Days)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

type dayPair struct {
	key string
	rec *ledger.DayRecord
}

func collectDays(src report.DaySource, period string) ([]dayPair, error) {
	keys, err := src.Days()
	if err != nil {
		return nil, fmt.Errorf("list days: %w", err)
	}

	var out []dayPair
	for _, key := range keys {
		if period != "" && !strings.HasPrefix(key, period) {
			continue
		}
		rec, err := src.Day(key)
		if err != nil {
			return nil, fmt.Errorf("read day %s: %w", key, err)
		}
		if rec.Empty() {
			continue
		}
		out = append(out, dayPair{key: key, rec: rec})
	}
	return out, nil
}
