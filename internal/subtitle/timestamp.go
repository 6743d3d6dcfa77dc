package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts an SRT timestamp string to time.Duration.
// Supports both comma and dot as millisecond separators.
// Format: 00:00:00,000 or 00:00:00.000
func ParseTimestamp(ts string) time.Duration {
	ts = strings.Replace(ts, ",", ".", 1)

	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	secParts := strings.Split(parts[2], ".")
	seconds, _ := strconv.Atoi(secParts[0])
	millis := 0
	if len(secParts) > 1 {
		millis, _ = strconv.Atoi(secParts[1])
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
}

// FormatTimestamp converts a time.Duration to SRT timestamp format.
// Output format: 00:00:00,000
func FormatTimestamp(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// NormalizeTimestamp converts the timestamp variants the model emits into the
// canonical HH:MM:SS,mmm form. Accepted inputs:
//
//	MM:SS            -> 00:MM:SS,000
//	MM:SS.mmm        -> 00:MM:SS,mmm
//	HH:MM:SS         -> HH:MM:SS,000
//	HH:MM:SS.mmm     -> HH:MM:SS,mmm
//	HH:MM:SS,mmm     -> unchanged
//	HH:MM:SS,mmm,nnn -> HH:MM:SS,mmm (only the first fraction group is authoritative)
func NormalizeTimestamp(ts string) (string, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return "", fmt.Errorf("empty timestamp")
	}

	// Split off fraction groups. The malformed double-fraction variant has a
	// second comma group; only the first one counts.
	base := ts
	frac := ""
	if i := strings.IndexAny(ts, ",."); i >= 0 {
		base = ts[:i]
		frac = ts[i+1:]
		if j := strings.IndexAny(frac, ",."); j >= 0 {
			frac = frac[:j]
		}
	}

	fields := strings.Split(base, ":")
	switch len(fields) {
	case 2:
		fields = append([]string{"00"}, fields...)
	case 3:
		// already HH:MM:SS
	default:
		return "", fmt.Errorf("unparseable timestamp %q", ts)
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || n < 0 {
			return "", fmt.Errorf("unparseable timestamp %q", ts)
		}
		nums[i] = n
	}

	millis := 0
	if frac != "" {
		// Pad or truncate to millisecond precision: "5" means 500ms, "5607" 560ms.
		for len(frac) < 3 {
			frac += "0"
		}
		n, err := strconv.Atoi(frac[:3])
		if err != nil {
			return "", fmt.Errorf("unparseable timestamp fraction %q", ts)
		}
		millis = n
	}

	return fmt.Sprintf("%02d:%02d:%02d,%03d", nums[0], nums[1], nums[2], millis), nil
}
