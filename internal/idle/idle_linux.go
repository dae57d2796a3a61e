//go:build linux

package idle

import (
	"os/exec"
	"time"
)

// execCommand allows tests to substitute the command runner.
var execCommand = exec.Command

// osIdleDuration returns how long the user has been idle on Linux.
// It shells out to xprintidle, which prints the X11 idle time in
// milliseconds. Headless sessions and Wayland compositors without
// xprintidle report zero idle time.
func osIdleDuration() (time.Duration, error) {
	out, err := execCommand("xprintidle").Output()
	if err != nil {
		return 0, nil
	}
	millis, err := parseMilliseconds(string(out))
	if err != nil {
		return 0, nil
	}
	return time.Duration(millis) * time.Millisecond, nil
}
