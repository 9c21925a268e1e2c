package ledger

import (
	"regexp"
	"time"
)

// DayKeyLayout is the calendar-date format used as storage key, local time.
const DayKeyLayout = "2006-01-02"

var dayKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// placeholderTime marks the clock-in of an orphan session, i.e. a
// session created only to hold incidents recorded before any clock-in.
const placeholderTime = "00:00"

// Stamp is one captured clock event: a time of day plus the stable
// reference of the photo backing it. ImageRef may be empty (incident
// recorded without a photo). Stamps are never mutated once placed in a
// session, only deleted.
type Stamp struct {
	Time     string `json:"time"`
	ImageRef string `json:"imageRef"`
}

// Incident is a stamp with a mandatory note.
type Incident struct {
	Stamp
	Note string `json:"note"`
}

// Session is one clock-in/clock-out pair plus its incidents. A session
// is open while ClockOut is nil. At most one session per day is meant
// to be open; the ledger's mutation rules enforce that, not the type.
type Session struct {
	ClockIn   Stamp      `json:"clockIn"`
	ClockOut  *Stamp     `json:"clockOut,omitempty"`
	Incidents []Incident `json:"incidents"`
}

// DayRecord is the full ledger state of one calendar day.
type DayRecord struct {
	Sessions []Session `json:"sessions"`
}

// NewStamp builds a stamp from a capture instant.
func NewStamp(capturedAt time.Time, imageRef string) Stamp {
	return Stamp{Time: capturedAt.Format("15:04:05"), ImageRef: imageRef}
}

// DayKey formats t as a storage day key in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ValidDayKey reports whether key matches YYYY-MM-DD.
func ValidDayKey(key string) bool {
	return dayKeyRe.MatchString(key)
}

// Open reports whether the session has no clock-out yet.
func (s *Session) Open() bool {
	return s.ClockOut == nil
}

// orphan reports whether the session's clock-in is the zero-time
// placeholder and carries no photo.
func (s *Session) orphan() bool {
	return s.ClockIn.Time == placeholderTime && s.ClockIn.ImageRef == ""
}

// HasClockIn reports whether the session was opened by a real clock-in
// rather than synthesized to hold incidents.
func (s *Session) HasClockIn() bool {
	return !s.orphan()
}

// ClockedIn reports whether the day's last session is still open.
func (r *DayRecord) ClockedIn() bool {
	last := r.lastSession()
	return last != nil && last.Open()
}

func (r *DayRecord) lastSession() *Session {
	if r == nil || len(r.Sessions) == 0 {
		return nil
	}
	return &r.Sessions[len(r.Sessions)-1]
}

// Empty reports whether the record holds no sessions at all.
func (r *DayRecord) Empty() bool {
	return r == nil || len(r.Sessions) == 0
}

// instantOn reconstructs the stamp's capture instant on the given day.
// Both "HH:MM" and "HH:MM:SS" stored forms are accepted.
func (st Stamp) instantOn(dayKey string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DayKeyLayout, dayKey, loc)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse("15:04:05", st.Time)
	if err != nil {
		clock, err = time.Parse("15:04", st.Time)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc), nil
}
