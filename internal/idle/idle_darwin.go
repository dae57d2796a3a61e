//go:build darwin

package idle

import (
	"os/exec"
	"time"
)

// execCommand allows tests to substitute the command runner.
var execCommand = exec.Command

// osIdleDuration returns how long the user has been idle on macOS.
// It queries the IOHIDSystem registry entry, whose HIDIdleTime property
// holds nanoseconds since the last HID input event.
func osIdleDuration() (time.Duration, error) {
	out, err := execCommand("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, err
	}
	nanos, err := parseHIDIdleTime(string(out))
	if err != nil {
		return 0, err
	}
	return time.Duration(nanos) * time.Nanosecond, nil
}
