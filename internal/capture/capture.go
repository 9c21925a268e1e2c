package capture

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/photo"
)

// Recorder runs the full photo-evidence workflow: read the capture
// instant from EXIF, validate it against today's record, file the
// photo in the vault and append the stamp to the ledger.
type Recorder struct {
	ledger *ledger.Ledger
	vault  *photo.Vault

	captureTime func(path string) (time.Time, error)
	now         func() time.Time
}

func New(l *ledger.Ledger, v *photo.Vault) *Recorder {
	return &Recorder{
		ledger:      l,
		vault:       v,
		captureTime: photo.CaptureTime,
		now:         time.Now,
	}
}

// Result reports what a recording did.
type Result struct {
	Day       string
	Stamp     ledger.Stamp
	ClockedIn bool

	// WasOpen is set on clock-in when a previous session was still
	// open and got stacked rather than closed.
	WasOpen bool
}

// ClockIn opens a new session for today from the photo at path.
func (r *Recorder) ClockIn(photoPath string) (Result, error) {
	day, st, wasOpen, err := r.stamp(ledger.EventClockIn, photoPath)
	if err != nil {
		return Result{}, err
	}
	clockedIn, err := r.ledger.RecordClockIn(day, st)
	if err != nil {
		return Result{}, err
	}
	return Result{Day: day, Stamp: st, ClockedIn: clockedIn, WasOpen: wasOpen}, nil
}

// ClockOut closes today's open session from the photo at path.
func (r *Recorder) ClockOut(photoPath string) (Result, error) {
	day, st, _, err := r.stamp(ledger.EventClockOut, photoPath)
	if err != nil {
		return Result{}, err
	}
	clockedIn, err := r.ledger.RecordClockOut(day, st)
	if err != nil {
		return Result{}, err
	}
	return Result{Day: day, Stamp: st, ClockedIn: clockedIn}, nil
}

// Incident files an incident for today. The photo is optional; without
// one the incident is stamped at filing time, since there is nothing
// to prove the instant with.
func (r *Recorder) Incident(photoPath, note string) (Result, error) {
	// Reject a blank note before touching the vault: filing the photo
	// first would leave an orphaned copy behind on rejection.
	if strings.TrimSpace(note) == "" {
		return Result{}, ledger.ErrEmptyNote
	}

	var (
		day string
		st  ledger.Stamp
		err error
	)
	if photoPath != "" {
		day, st, _, err = r.stamp(ledger.EventIncident, photoPath)
		if err != nil {
			return Result{}, err
		}
	} else {
		now := r.now()
		day = ledger.DayKey(now)
		st = ledger.NewStamp(now, "")
	}

	if err := r.ledger.RecordIncident(day, st, note); err != nil {
		return Result{}, err
	}
	clockedIn, err := r.ledger.ClockedIn(day)
	if err != nil {
		clockedIn = false
	}
	return Result{Day: day, Stamp: st, ClockedIn: clockedIn}, nil
}

func (r *Recorder) stamp(kind ledger.EventKind, photoPath string) (day string, st ledger.Stamp, wasOpen bool, err error) {
	now := r.now()
	day = ledger.DayKey(now)

	capturedAt, err := r.captureTime(photoPath)
	if err != nil {
		return "", ledger.Stamp{}, false, err
	}

	rec, err := r.ledger.Day(day)
	if err != nil {
		return "", ledger.Stamp{}, false, err
	}
	wasOpen = rec.ClockedIn()

	if err := ledger.Validate(capturedAt, kind, rec, now); err != nil {
		return "", ledger.Stamp{}, false, Describe(err, capturedAt)
	}

	ref, err := r.vault.Save(kind.String(), capturedAt, photoPath)
	if err != nil {
		return "", ledger.Stamp{}, false, err
	}

	logrus.WithFields(logrus.Fields{
		"kind":  kind.String(),
		"day":   day,
		"photo": ref,
	}).Debug("captured event")

	return day, ledger.NewStamp(capturedAt, ref), wasOpen, nil
}

// Describe turns validation sentinels into user-facing text.
func Describe(err error, capturedAt time.Time) error {
	switch {
	case errors.Is(err, ledger.ErrMissingTimestamp):
		return errors.New("photo has no EXIF timestamp; cannot prove the capture instant")
	case errors.Is(err, ledger.ErrWrongDay):
		return fmt.Errorf("photo was taken on %s, not today", capturedAt.Format("2006-01-02"))
	case errors.Is(err, ledger.ErrOutBeforeIn):
		return fmt.Errorf("clock-out at %s is not after the open clock-in", capturedAt.Format("15:04:05"))
	default:
		return err
	}
}
