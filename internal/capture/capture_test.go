package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smoreno/fichaje/internal/ledger"
	"github.com/smoreno/fichaje/internal/photo"
	"github.com/smoreno/fichaje/internal/store"
)

// newTestRecorder wires a recorder against an in-memory store and a
// temp vault, with the EXIF reader and clock replaced.
func newTestRecorder(t *testing.T, now time.Time, exifAt time.Time) (*Recorder, *ledger.Ledger) {
	t.Helper()

	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	vault := photo.NewVault(filepath.Join(t.TempDir(), "photos"))
	led := ledger.New(st, vault)

	r := New(led, vault)
	r.now = func() time.Time { return now }
	r.captureTime = func(path string) (time.Time, error) {
		if _, err := os.Stat(path); err != nil {
			return time.Time{}, err
		}
		return exifAt, nil
	}
	return r, led
}

func writeCapture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.jpg")
	if err := os.WriteFile(path, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClockInStoresStampAndPhoto(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 30, 0, time.Local)
	r, led := newTestRecorder(t, now, now.Add(-10*time.Second))

	res, err := r.ClockIn(writeCapture(t))
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if res.Day != "2026-03-10" {
		t.Errorf("day = %q", res.Day)
	}
	if !res.ClockedIn || res.WasOpen {
		t.Errorf("result = %+v", res)
	}
	if res.Stamp.Time != "09:00:20" {
		t.Errorf("stamp time = %q", res.Stamp.Time)
	}
	if res.Stamp.ImageRef == "" {
		t.Error("stamp has no photo reference")
	}

	rec, err := led.Day("2026-03-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Sessions) != 1 || !rec.ClockedIn() {
		t.Fatalf("record = %+v", rec)
	}
}

func TestClockInStacksOnOpenSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	r, _ := newTestRecorder(t, now, now)

	if _, err := r.ClockIn(writeCapture(t)); err != nil {
		t.Fatal(err)
	}
	res, err := r.ClockIn(writeCapture(t))
	if err != nil {
		t.Fatalf("second ClockIn: %v", err)
	}
	if !res.WasOpen {
		t.Error("expected WasOpen on stacked session")
	}
}

func TestClockOutClosesSession(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	r, led := newTestRecorder(t, now, now)

	if _, err := r.ClockIn(writeCapture(t)); err != nil {
		t.Fatal(err)
	}

	r.now = func() time.Time { return now.Add(8 * time.Hour) }
	r.captureTime = func(string) (time.Time, error) { return now.Add(8 * time.Hour), nil }

	res, err := r.ClockOut(writeCapture(t))
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if res.ClockedIn {
		t.Error("still clocked in after clock-out")
	}

	rec, _ := led.Day("2026-03-10")
	if rec.Sessions[0].ClockOut == nil {
		t.Fatal("session not closed")
	}
}

func TestClockOutBeforeInRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	r, _ := newTestRecorder(t, now, now)

	if _, err := r.ClockIn(writeCapture(t)); err != nil {
		t.Fatal(err)
	}

	// photo taken before the clock-in
	r.captureTime = func(string) (time.Time, error) { return now.Add(-time.Hour), nil }
	if _, err := r.ClockOut(writeCapture(t)); err == nil {
		t.Fatal("expected rejection")
	}
}

func TestWrongDayPhotoRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	r, _ := newTestRecorder(t, now, now.AddDate(0, 0, -1))

	_, err := r.ClockIn(writeCapture(t))
	if err == nil {
		t.Fatal("expected rejection")
	}
}

func TestMissingTimestampRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	r, _ := newTestRecorder(t, now, time.Time{})

	if _, err := r.ClockIn(writeCapture(t)); err == nil {
		t.Fatal("expected rejection")
	}
}

func TestIncidentWithoutPhotoStampsNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 30, 5, 0, time.Local)
	r, led := newTestRecorder(t, now, time.Time{})

	res, err := r.Incident("", "fire drill")
	if err != nil {
		t.Fatalf("Incident: %v", err)
	}
	if res.Stamp.Time != "11:30:05" {
		t.Errorf("stamp time = %q", res.Stamp.Time)
	}
	if res.Stamp.ImageRef != "" {
		t.Errorf("unexpected photo ref %q", res.Stamp.ImageRef)
	}

	rec, _ := led.Day("2026-03-10")
	if len(rec.Sessions) != 1 || len(rec.Sessions[0].Incidents) != 1 {
		t.Fatalf("record = %+v", rec)
	}
}

func TestIncidentEmptyNoteRejected(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.Local)
	r, _ := newTestRecorder(t, now, now)

	if _, err := r.Incident("", "  "); !errors.Is(err, ledger.ErrEmptyNote) {
		t.Fatalf("err = %v, want ErrEmptyNote", err)
	}
}

func TestIncidentEmptyNoteWithPhotoLeavesNoTrace(t *testing.T) {
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.Local)

	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	vaultDir := filepath.Join(t.TempDir(), "photos")
	vault := photo.NewVault(vaultDir)
	led := ledger.New(st, vault)

	r := New(led, vault)
	r.now = func() time.Time { return now }
	r.captureTime = func(string) (time.Time, error) { return now, nil }

	if _, err := r.Incident(writeCapture(t), "   "); !errors.Is(err, ledger.ErrEmptyNote) {
		t.Fatalf("err = %v, want ErrEmptyNote", err)
	}

	// The rejection must not leave a record or a filed photo behind.
	if entries, err := os.ReadDir(vaultDir); err == nil && len(entries) != 0 {
		t.Fatalf("rejected incident left %d file(s) in the vault", len(entries))
	}
	if rec, err := led.Day("2026-03-10"); err != nil || rec != nil {
		t.Fatalf("rejected incident wrote a record: rec=%+v err=%v", rec, err)
	}
}

func TestDescribeKeepsUnknownErrors(t *testing.T) {
	sentinel := errors.New("disk full")
	if got := Describe(sentinel, time.Now()); !errors.Is(got, sentinel) {
		t.Errorf("got %v", got)
	}
}
