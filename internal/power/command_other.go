//go:build !windows && !darwin

package power

import "fmt"

// actionCommand returns the command line for the given action on Linux
// and other Unix-like systems.
func actionCommand(action Action) (string, []string, error) {
	switch action {
	case Shutdown:
		return "shutdown", []string{"-h", "now"}, nil
	case Restart:
		return "shutdown", []string{"-r", "now"}, nil
	case Sleep:
		return "systemctl", []string{"suspend"}, nil
	}
	return "", nil, fmt.Errorf("unknown action %q", action)
}
