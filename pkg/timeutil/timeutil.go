package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatTime formats seconds as H:MM:SS (e.g. 0:01:30, 1:11:22).
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
}

// FormatElapsed formats d as H:MM:SS.mmm.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds() % 1000
	return fmt.Sprintf("%s.%03d", FormatTime(d.Seconds()), ms)
}

// ParseTimeToSeconds parses a time string in HH:MM:SS, MM:SS, or raw seconds format.
// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = raw seconds.
// The seconds field may carry a fraction.
func ParseTimeToSeconds(timeStr string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got '%s'", timeStr)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || (len(parts) > 1 && secs >= 60) {
		return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got '%s'", timeStr)
	}

	total := secs
	mult := 60.0
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("expected HH:MM:SS, MM:SS, or seconds, got '%s'", timeStr)
		}
		total += float64(n) * mult
		mult *= 60
	}
	return total, nil
}

// ParseFrame resolves a range bound given either as a frame index ("450")
// or as a time ("0:15", "15.0s", "1:02:03.5") at fps.
func ParseFrame(value string, fps float64) (int, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("frame must not be negative, got %d", n)
		}
		return n, nil
	}
	if fps <= 0 {
		return 0, fmt.Errorf("cannot convert '%s' to a frame without a frame rate", value)
	}
	secs, err := ParseTimeToSeconds(strings.TrimSuffix(value, "s"))
	if err != nil {
		return 0, err
	}
	return int(math.Round(secs * fps)), nil
}
