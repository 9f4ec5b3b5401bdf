package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeToSeconds converts a "M:SS" or "H:MM:SS" timestamp to whole seconds.
// Malformed input returns 0 and an error; callers decide whether that is fatal.
func TimeToSeconds(timeStr string) (int, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", timeStr)
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", timeStr)
		}
		total = total*60 + n
	}
	return total, nil
}

// SecondsToClock formats whole seconds as "M:SS" (or "H:MM:SS" above an hour).
func SecondsToClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
