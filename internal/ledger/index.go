package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
)

// indexKey is the reserved storage key holding the sorted list of day
// keys that have ledger data. The name is carried over from the first
// release so existing databases keep working.
const indexKey = "__indice_dias__"

// DefaultRetentionDays is how long day records are kept before Prune
// removes them.
const DefaultRetentionDays = 90

// readIndex returns the persisted day index. Read or decode failures
// degrade to an empty index; it is advisory, never authoritative over
// the day records themselves.
func (l *Ledger) readIndex() []string {
	raw, ok, err := l.store.Get(indexKey)
	if err != nil || !ok {
		return nil
	}
	var days []string
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil
	}
	return days
}

// indexedDays returns the day index, rebuilding it from the stored
// records when the persisted value is missing or undecodable.
func (l *Ledger) indexedDays() []string {
	if days := l.readIndex(); days != nil {
		return days
	}
	return l.rebuildIndex()
}

// rebuildIndex regenerates the index by scanning the store's keys and
// persists the result. Without key listing support the index stays
// empty until the next mutation re-marks a day.
func (l *Ledger) rebuildIndex() []string {
	lister, ok := l.store.(KeyLister)
	if !ok {
		return nil
	}
	keys, err := lister.Keys()
	if err != nil {
		return nil
	}
	var days []string
	for _, k := range keys {
		if ValidDayKey(k) {
			days = append(days, k)
		}
	}
	if len(days) > 0 {
		_ = l.writeIndex(days)
	}
	return days
}

func (l *Ledger) writeIndex(days []string) error {
	sort.Strings(days)
	data, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("encode day index: %w", err)
	}
	if err := l.store.Set(indexKey, string(data)); err != nil {
		return fmt.Errorf("persist day index: %w", err)
	}
	return nil
}

// markPresent records that day has ledger data. Idempotent; the index
// is only rewritten when the key is new.
func (l *Ledger) markPresent(day string) error {
	days := l.indexedDays()
	for _, d := range days {
		if d == day {
			return nil
		}
	}
	return l.writeIndex(append(days, day))
}

// unmark drops day from the index, best-effort.
func (l *Ledger) unmark(day string) {
	days := l.indexedDays()
	for i, d := range days {
		if d == day {
			_ = l.writeIndex(append(days[:i], days[i+1:]...))
			return
		}
	}
}

// Days returns every indexed day key, sorted ascending. Some entries
// may point at days whose record write never happened; callers treat
// those as empty days.
func (l *Ledger) Days() ([]string, error) {
	days := l.indexedDays()
	sort.Strings(days)
	return days, nil
}

// Months returns the distinct YYYY-MM prefixes of the indexed days,
// most recent first.
func (l *Ledger) Months() ([]string, error) {
	seen := make(map[string]bool)
	var months []string
	for _, d := range l.indexedDays() {
		if !ValidDayKey(d) {
			continue
		}
		m := d[:7]
		if !seen[m] {
			seen[m] = true
			months = append(months, m)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

// Prune deletes every indexed day older than retentionDays, removing
// the underlying record and the index entry. The index is rewritten
// once at the end, not per key. Returns how many days were removed.
func (l *Ledger) Prune(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	// Day keys sort chronologically, so "older than N days" is a
	// string comparison against the cutoff day.
	cutoff := DayKey(l.now().AddDate(0, 0, -retentionDays))

	var keep []string
	removed := 0
	for _, key := range l.indexedDays() {
		if !ValidDayKey(key) || key >= cutoff {
			keep = append(keep, key)
			continue
		}
		l.deleteDayPhotos(key)
		if err := l.store.Delete(key); err != nil {
			return removed, fmt.Errorf("prune day %s: %w", key, err)
		}
		removed++
	}

	if err := l.writeIndex(keep); err != nil {
		return removed, err
	}
	return removed, nil
}

// deleteDayPhotos drops every photo the day's record references, so a
// pruned day does not leave orphan captures in the vault.
func (l *Ledger) deleteDayPhotos(day string) {
	rec, err := l.Day(day)
	if err != nil || rec == nil {
		return
	}
	for _, s := range rec.Sessions {
		l.deletePhoto(s.ClockIn.ImageRef)
		if s.ClockOut != nil {
			l.deletePhoto(s.ClockOut.ImageRef)
		}
		for _, inc := range s.Incidents {
			l.deletePhoto(inc.ImageRef)
		}
	}
}
