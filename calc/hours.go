// Package calc holds the overtime valuation and aggregation rules. Every
// function is pure: it works on the snapshot it is given and never touches
// storage.
package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrClockTime = errors.New("invalid clock time")

// ClockTime is a wall-clock instant expressed as seconds since midnight.
type ClockTime int

// ParseClockTime accepts 24-hour "HH:MM" or "HH:MM:SS". Missing seconds
// count as zero.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrClockTime, s)
	}
	limits := []int{23, 59, 59}
	var total int
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrClockTime, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrClockTime, s)
		}
		switch i {
		case 0:
			total += n * 3600
		case 1:
			total += n * 60
		default:
			total += n
		}
	}
	return ClockTime(total), nil
}

func (c ClockTime) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}

// HoursWorked returns the decimal hours between two clock times on the same
// day. Missing or malformed input, and intervals that do not move forward,
// yield 0: overnight spans are not supported.
func HoursWorked(startTime, endTime string) float64 {
	if startTime == "" || endTime == "" {
		return 0
	}
	start, err := ParseClockTime(startTime)
	if err != nil {
		return 0
	}
	end, err := ParseClockTime(endTime)
	if err != nil {
		return 0
	}
	if end <= start {
		return 0
	}
	return float64(end-start) / 3600
}
