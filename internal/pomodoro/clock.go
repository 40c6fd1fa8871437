package pomodoro

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxBreakSeconds is the largest editable break (99:59).
const MaxBreakSeconds = 5999

// Clock is the wall-clock source the engine measures against.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real clock.
func SystemClock() Clock { return systemClock{} }

// ParseClock parses "MM:SS" or a plain number of minutes into seconds.
// Seconds must be below 60.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimeInput)
	}
	mins, secs := s, "0"
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return 0, fmt.Errorf("%w: %q is not MM:SS", ErrInvalidTimeInput, s)
		}
		mins, secs = parts[0], parts[1]
	}
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: bad minutes in %q", ErrInvalidTimeInput, s)
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("%w: bad seconds in %q", ErrInvalidTimeInput, s)
	}
	return m*60 + sec, nil
}

// FormatClock renders seconds as MM:SS. Minutes are not capped at 59.
func FormatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
