package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTime = errors.New("invalid time of day")

const clockLayout = "15:04"

// minutes since midnight
type clock int

func parseClock(raw string) (clock, error) {
	value := strings.TrimSpace(raw)
	parsed, err := time.Parse(clockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return clock(parsed.Hour()*60 + parsed.Minute()), nil
}

func (c clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// NormalizeTime parses "H:MM" or "HH:MM" and returns the canonical "HH:MM" form.
func NormalizeTime(raw string) (string, error) {
	c, err := parseClock(raw)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

type interval struct {
	start clock
	end   clock
}

// overlaps treats intervals as half-open, so back-to-back windows do not collide.
func (i interval) overlaps(other interval) bool {
	return i.start < other.end && i.end > other.start
}
