//go:build windows

package power

import "fmt"

// actionCommand returns the Windows command line for the given action.
// Shutdown and restart use /f to close applications without waiting,
// matching the immediate semantics of a scheduled action.
func actionCommand(action Action) (string, []string, error) {
	switch action {
	case Shutdown:
		return "shutdown", []string{"/s", "/f", "/t", "0"}, nil
	case Restart:
		return "shutdown", []string{"/r", "/f", "/t", "0"}, nil
	case Sleep:
		return "rundll32.exe", []string{"powrprof.dll,SetSuspendState", "0,1,0"}, nil
	}
	return "", nil, fmt.Errorf("unknown action %q", action)
}
