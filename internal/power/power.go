// Package power performs system power actions (shutdown, restart, sleep)
// by invoking the platform's native tooling. The command tables live in
// per-OS files so callers never branch on runtime.GOOS.
package power

import (
	"fmt"
	"os/exec"
)

// Action identifies a system power action.
type Action string

const (
	Shutdown Action = "shutdown"
	Restart  Action = "restart"
	Sleep    Action = "sleep"
)

// String returns the action's wire name.
func (a Action) String() string {
	return string(a)
}

// ParseAction maps a user-supplied string to an Action.
// Returns an error for anything outside the known set.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Shutdown, Restart, Sleep:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q (expected shutdown, restart or sleep)", s)
}

// Executor launches the platform command for a power action.
// Commands are started and not awaited; once the OS takes over, this
// process may be terminated at any moment.
type Executor struct {
	run func(name string, args ...string) error
}

// NewExecutor returns an Executor using the real platform commands.
func NewExecutor() *Executor {
	return &Executor{run: startCommand}
}

// NewExecutorWithRunner returns an Executor with a custom command runner.
// Used by tests to capture invocations instead of touching the OS.
func NewExecutorWithRunner(run func(name string, args ...string) error) *Executor {
	return &Executor{run: run}
}

// Perform starts the platform command for the given action.
// The returned error covers invocation failure only; the command's own
// outcome is never observed.
func (e *Executor) Perform(action Action) error {
	name, args, err := actionCommand(action)
	if err != nil {
		return err
	}
	if err := e.run(name, args...); err != nil {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}

// startCommand launches the command detached and releases the process
// handle so no zombie is left if the action never kills this process.
func startCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	_ = cmd.Process.Release()
	return nil
}
