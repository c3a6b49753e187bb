package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	minutesPerHour = 60
	// MinutesPerDay is also the largest value a TimeString may hold ("24:00"),
	// used as an end-of-day bound for intervals.
	MinutesPerDay = 24 * minutesPerHour
)

// EndOfDay closes a day: valid only as the end of an interval.
const EndOfDay TimeString = "24:00"

var (
	ErrInvalidTimeString = errors.New("invalid time string format")
	ErrOutOfDay          = errors.New("time is outside of the day")
)

// TimeString is a wall-clock time of day without date or timezone.
// Stored normalized as "HH:MM"; the zero value is an empty (unset) time.
type TimeString string

// NewTimeString takes the time of day of t, truncated to minutes.
func NewTimeString(t time.Time) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
}

// NewTimeStringFromMinutes builds a time from minutes since midnight.
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfDay, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/minutesPerHour, minutes%minutesPerHour)), nil
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS". Seconds must be zero.
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(minutes)
}

func parseMinutes(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
		values[i] = v
	}

	hours, minutes := values[0], values[1]
	if minutes >= minutesPerHour || hours > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if len(values) == 3 && values[2] != 0 {
		return 0, fmt.Errorf("%w: seconds are not supported: %q", ErrInvalidTimeString, s)
	}

	total := hours*minutesPerHour + minutes
	if total > MinutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrOutOfDay, s)
	}
	return total, nil
}

// Minutes returns minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	return parseMinutes(string(t))
}

// AddMinutes shifts the time. Results past "24:00" or before "00:00" are errors.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

func (t TimeString) Equal(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a == b
}

func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// String returns the display form "HH:MM".
func (t TimeString) String() string {
	return string(t)
}

// Canonical returns the "HH:MM:00" form used on the wire and in storage.
func (t TimeString) Canonical() string {
	if t.IsZero() {
		return ""
	}
	return string(t) + ":00"
}

// Value implements driver.Valuer for PostgreSQL TIME columns.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t.Canonical(), nil
}

// Scan implements sql.Scanner. lib/pq hands TIME columns over as time.Time
// on 0000-01-01; TIME '24:00:00' arrives as midnight of 0000-01-02.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		if v.Day() == 2 && v.Hour() == 0 && v.Minute() == 0 {
			*t = EndOfDay
			return nil
		}
		*t = NewTimeString(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Canonical())
}

func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
