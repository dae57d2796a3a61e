//go:build darwin

package power

import "fmt"

// actionCommand returns the macOS command line for the given action.
func actionCommand(action Action) (string, []string, error) {
	switch action {
	case Shutdown:
		return "shutdown", []string{"-h", "now"}, nil
	case Restart:
		return "shutdown", []string{"-r", "now"}, nil
	case Sleep:
		return "pmset", []string{"sleepnow"}, nil
	}
	return "", nil, fmt.Errorf("unknown action %q", action)
}
