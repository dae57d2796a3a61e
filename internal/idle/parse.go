package idle

import (
	"fmt"
	"strconv"
	"strings"
)

// parseHIDIdleTime extracts the HIDIdleTime value (nanoseconds) from
// ioreg output. The relevant line looks like:
//
//	"HIDIdleTime" = 531319531
func parseHIDIdleTime(out string) (int64, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid HIDIdleTime value: %w", err)
		}
		return nanos, nil
	}
	return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
}

// parseMilliseconds parses a bare integer milliseconds value,
// the output format of xprintidle.
func parseMilliseconds(out string) (int64, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid idle milliseconds: %w", err)
	}
	return millis, nil
}
