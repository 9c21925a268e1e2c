package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Storage is the scoped key/value persistence the ledger writes through.
// Implemented by internal/store; kept narrow so tests can swap it.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// KeyLister is optionally implemented by storage backends that can
// enumerate their keys. When available, the ledger rebuilds a missing
// or undecodable day index from the records themselves.
type KeyLister interface {
	Keys() ([]string, error)
}

// PhotoDeleter removes a stored capture photo by its stable reference.
// Deletion is best-effort: the ledger ignores the returned error, a
// failed photo delete never blocks or rolls back a ledger mutation.
type PhotoDeleter interface {
	Delete(ref string) error
}

// Ledger owns the per-day session records and the derived day index.
// All mutations are read-modify-write over one whole DayRecord: the
// caller serializes operations on the same day key, the ledger takes
// no locks of its own.
type Ledger struct {
	store  Storage
	photos PhotoDeleter
	now    func() time.Time
}

func New(store Storage, photos PhotoDeleter) *Ledger {
	return &Ledger{store: store, photos: photos, now: time.Now}
}

// Day loads the record for key, migrating legacy shapes on the way.
// Storage read failures and undecodable values degrade to "no data"
// rather than propagating; a nil record with nil error means the day
// has nothing recorded.
func (l *Ledger) Day(key string) (*DayRecord, error) {
	if !ValidDayKey(key) {
		return nil, ErrInvalidDayKey
	}
	raw, ok, err := l.store.Get(key)
	if err != nil || !ok {
		return nil, nil
	}

	rec, migrated, err := normalize([]byte(raw))
	if err != nil {
		return nil, nil
	}
	if migrated {
		// Persist the normalized form so later reads skip migration.
		// Best-effort: the record is still served if the write fails.
		if data, err := json.Marshal(rec); err == nil {
			_ = l.store.Set(key, string(data))
		}
	}
	return rec, nil
}

// ClockedIn reports whether the day's last session is still open. The
// UI re-derives this after every mutation and on resume.
func (l *Ledger) ClockedIn(day string) (bool, error) {
	rec, err := l.Day(day)
	if err != nil {
		return false, err
	}
	return rec.ClockedIn(), nil
}

// RecordClockIn appends a new open session to the day. A still-open
// previous session is tolerated and left as is, not merged or rejected.
// Returns the resulting clocked-in state.
func (l *Ledger) RecordClockIn(day string, st Stamp) (bool, error) {
	rec, err := l.Day(day)
	if err != nil {
		return false, err
	}
	if rec == nil {
		rec = &DayRecord{}
	}
	rec.Sessions = append(rec.Sessions, Session{ClockIn: st, Incidents: []Incident{}})
	if err := l.saveDay(day, rec); err != nil {
		return false, err
	}
	return rec.ClockedIn(), nil
}

// RecordClockOut closes the day's last session. Returns the resulting
// clocked-in state (false on success).
func (l *Ledger) RecordClockOut(day string, st Stamp) (bool, error) {
	rec, err := l.Day(day)
	if err != nil {
		return false, err
	}
	last := rec.lastSession()
	if last == nil || !last.Open() {
		return rec.ClockedIn(), ErrNoOpenSession
	}
	last.ClockOut = &st
	if err := l.saveDay(day, rec); err != nil {
		return rec.ClockedIn(), err
	}
	return rec.ClockedIn(), nil
}

// RecordIncident appends an incident to the day's last session, or to a
// new orphan session when the day has none. The photo is optional; the
// note is not.
func (l *Ledger) RecordIncident(day string, st Stamp, note string) error {
	if strings.TrimSpace(note) == "" {
		return ErrEmptyNote
	}
	rec, err := l.Day(day)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &DayRecord{}
	}
	if len(rec.Sessions) == 0 {
		rec.Sessions = append(rec.Sessions, Session{
			ClockIn:   Stamp{Time: placeholderTime},
			Incidents: []Incident{},
		})
	}
	last := rec.lastSession()
	last.Incidents = append(last.Incidents, Incident{Stamp: st, Note: note})
	return l.saveDay(day, rec)
}

// DeleteClockIn removes the whole session at sessionIdx, photos first.
// Returns the resulting clocked-in state.
func (l *Ledger) DeleteClockIn(day string, sessionIdx int) (bool, error) {
	rec, err := l.Day(day)
	if err != nil {
		return false, err
	}
	if !rec.hasSession(sessionIdx) {
		return rec.ClockedIn(), fmt.Errorf("session %d out of range", sessionIdx)
	}

	s := rec.Sessions[sessionIdx]
	l.deletePhoto(s.ClockIn.ImageRef)
	if s.ClockOut != nil {
		l.deletePhoto(s.ClockOut.ImageRef)
	}
	for _, inc := range s.Incidents {
		l.deletePhoto(inc.ImageRef)
	}

	rec.Sessions = append(rec.Sessions[:sessionIdx], rec.Sessions[sessionIdx+1:]...)
	if err := l.persistOrDestroy(day, rec); err != nil {
		return rec.ClockedIn(), err
	}
	return rec.ClockedIn(), nil
}

// DeleteClockOut clears the session's clock-out, reopening it. A
// session without a clock-out is left untouched.
func (l *Ledger) DeleteClockOut(day string, sessionIdx int) (bool, error) {
	rec, err := l.Day(day)
	if err != nil {
		return false, err
	}
	if !rec.hasSession(sessionIdx) {
		return rec.ClockedIn(), fmt.Errorf("session %d out of range", sessionIdx)
	}
	s := &rec.Sessions[sessionIdx]
	if s.ClockOut == nil {
		return rec.ClockedIn(), nil
	}
	l.deletePhoto(s.ClockOut.ImageRef)
	s.ClockOut = nil
	if err := l.saveDay(day, rec); err != nil {
		return rec.ClockedIn(), err
	}
	return rec.ClockedIn(), nil
}

// DeleteIncident removes one incident. A session left with a
// placeholder clock-in, no clock-out and no incidents is removed whole;
// a day left with no sessions is destroyed.
func (l *Ledger) DeleteIncident(day string, sessionIdx, incidentIdx int) error {
	rec, err := l.Day(day)
	if err != nil {
		return err
	}
	if !rec.hasSession(sessionIdx) {
		return fmt.Errorf("session %d out of range", sessionIdx)
	}
	s := &rec.Sessions[sessionIdx]
	if incidentIdx < 0 || incidentIdx >= len(s.Incidents) {
		return fmt.Errorf("incident %d out of range", incidentIdx)
	}

	l.deletePhoto(s.Incidents[incidentIdx].ImageRef)
	s.Incidents = append(s.Incidents[:incidentIdx], s.Incidents[incidentIdx+1:]...)

	if s.orphan() && s.ClockOut == nil && len(s.Incidents) == 0 {
		rec.Sessions = append(rec.Sessions[:sessionIdx], rec.Sessions[sessionIdx+1:]...)
	}
	return l.persistOrDestroy(day, rec)
}

// saveDay persists the whole record and marks the day present in the
// index. The two writes are separate storage calls; a crash in between
// leaves an indexed day with no record, which readers tolerate.
func (l *Ledger) saveDay(day string, rec *DayRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode day %s: %w", day, err)
	}
	if err := l.store.Set(day, string(data)); err != nil {
		return fmt.Errorf("persist day %s: %w", day, err)
	}
	return l.markPresent(day)
}

// persistOrDestroy saves the record, or deletes it entirely when its
// last sub-event was just removed.
func (l *Ledger) persistOrDestroy(day string, rec *DayRecord) error {
	if rec.Empty() {
		if err := l.store.Delete(day); err != nil {
			return fmt.Errorf("destroy day %s: %w", day, err)
		}
		l.unmark(day)
		return nil
	}
	return l.saveDay(day, rec)
}

func (l *Ledger) deletePhoto(ref string) {
	if ref == "" || l.photos == nil {
		return
	}
	// Best-effort by contract; the collaborator logs failures.
	_ = l.photos.Delete(ref)
}

func (r *DayRecord) hasSession(i int) bool {
	return r != nil && i >= 0 && i < len(r.Sessions)
}
