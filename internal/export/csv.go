package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/smoreno/fichaje/internal/report"
)

// ToCSV writes the period's sessions to path, one row per session.
// Incident notes are joined into the last column.
func ToCSV(src report.DaySource, period, path string) error {
	days, err := collectDays(src, period)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Day", "Clock In", "Clock Out", "Duration (s)", "Duration", "Incidents"}); err != nil {
		return err
	}

	for _, d := range days {
		for _, s := range d.rec.Sessions {
			outStr := ""
			if s.ClockOut != nil {
				outStr = s.ClockOut.Time
			}
			secs := report.SessionSeconds(s)

			incidents := ""
			for i, inc := range s.Incidents {
				if i > 0 {
					incidents += "; "
				}
				incidents += inc.Time + " " + inc.Note
			}

			row := []string{
				d.key,
				s.ClockIn.Time,
				outStr,
				fmt.Sprintf("%d", secs),
				report.FormatSeconds(secs),
				incidents,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}
