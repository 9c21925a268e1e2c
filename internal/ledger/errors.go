package ledger

import "errors"

// Validation rejections. These abort the in-progress event before any
// state is written and are surfaced to the user as-is.
var (
	ErrMissingTimestamp = errors.New("photo has no extractable capture timestamp")
	ErrWrongDay         = errors.New("photo was not taken today")
	ErrOutBeforeIn      = errors.New("clock-out photo must be later than the clock-in time")
)

// Ledger mutation failures.
var (
	ErrNoOpenSession = errors.New("no open session to clock out of")
	ErrInvalidDayKey = errors.New("invalid day key, want YYYY-MM-DD")
	ErrEmptyNote     = errors.New("incident note must not be empty")
)
