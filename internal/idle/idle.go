// Package idle reports how long the user has been inactive.
// Platform-specific probes (Windows GetLastInputInfo, macOS IOHIDSystem,
// Linux xprintidle) are wrapped behind osIdleDuration(). Probes that are
// unavailable report zero idle time, which keeps the inactivity watchdog
// from ever sleeping a machine it cannot observe.
package idle

import "time"

// Since returns the duration since the last user input.
// Returns an error only when the platform probe itself fails.
func Since() (time.Duration, error) {
	return osIdleDuration()
}

// Seconds returns whole seconds since the last user input.
// Probe failures are treated as zero idle time.
func Seconds() int {
	d, err := osIdleDuration()
	if err != nil {
		return 0
	}
	return int(d / time.Second)
}
