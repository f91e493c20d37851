package features

import (
	"errors"
	"fmt"
	"time"

	"github.com/solarcast/solarcast/pkg/types"
)

// TimestampLayout is the only accepted timestamp format (YYYY-MM-DD HH:MM).
const TimestampLayout = "2006-01-02 15:04"

// TimestampFormat is the human readable form of TimestampLayout.
const TimestampFormat = "YYYY-MM-DD HH:MM"

var errLayout = errors.New("does not match " + TimestampFormat)

// ParseError is returned when a timestamp is malformed or names an invalid
// calendar date.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decompose parses text as YYYY-MM-DD HH:MM and returns its hour, day, month
// and ISO day of week (0=Monday).
func Decompose(text string) (types.TimeParts, error) {
	if !matchesLayout(text) {
		return types.TimeParts{}, &ParseError{Input: text, Err: errLayout}
	}
	// time.Parse rejects month 13, day 32, Feb 30, hour 24 and minute 60
	t, err := time.Parse(TimestampLayout, text)
	if err != nil {
		return types.TimeParts{}, &ParseError{Input: text, Err: err}
	}
	return types.TimeParts{
		Hour:      t.Hour(),
		Day:       t.Day(),
		Month:     int(t.Month()),
		DayOfWeek: isoWeekday(t.Weekday()),
	}, nil
}

// matchesLayout enforces fixed-width fields, which time.Parse does not do for
// the hour.
func matchesLayout(s string) bool {
	if len(s) != len(TimestampLayout) {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		case 10:
			if s[i] != ' ' {
				return false
			}
		case 13:
			if s[i] != ':' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// isoWeekday converts Go's Sunday-based weekday to Monday=0 ... Sunday=6.
func isoWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}
