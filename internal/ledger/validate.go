package ledger

import "time"

// EventKind identifies the clock event a capture is meant to back.
type EventKind int

const (
	EventClockIn EventKind = iota
	EventClockOut
	EventIncident
)

func (k EventKind) String() string {
	switch k {
	case EventClockIn:
		return "clock-in"
	case EventClockOut:
		return "clock-out"
	case EventIncident:
		return "incident"
	}
	return "unknown"
}

// Validate decides whether a captured photo is admissible for the given
// event kind on rec's day. It is a pure decision over the provided
// state: no side effects, no storage access.
//
// A zero capturedAt means the capture collaborator could not extract a
// timestamp. For clock-outs with an open session, capturedAt must be
// strictly later than the open session's clock-in instant reconstructed
// from its stored time of day; the "no open session at all" case is the
// ledger's rejection, not ours.
func Validate(capturedAt time.Time, kind EventKind, rec *DayRecord, now time.Time) error {
	if capturedAt.IsZero() {
		return ErrMissingTimestamp
	}

	loc := now.Location()
	if DayKey(capturedAt.In(loc)) != DayKey(now) {
		return ErrWrongDay
	}

	if kind == EventClockOut {
		if last := rec.lastSession(); last != nil && last.Open() {
			in, err := last.ClockIn.instantOn(DayKey(now), loc)
			if err == nil && !capturedAt.In(loc).After(in) {
				return ErrOutBeforeIn
			}
		}
	}
	return nil
}
