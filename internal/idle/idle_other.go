//go:build !windows && !darwin && !linux

package idle

import "time"

// osIdleDuration reports zero idle time on platforms without a probe.
func osIdleDuration() (time.Duration, error) {
	return 0, nil
}
