// debug/power is a cli tool to debug the power action layer of tasknapd.
package main

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/tasknap/tasknap/internal/idle"
	"github.com/tasknap/tasknap/internal/power"
)

const HELP = `debug/power is a cli tool to debug the power action layer of tasknapd.

Usage:
  debug/power [command]

Commands:
  help    Show this help message and exit.
  show    Print the platform command for an action without running it.
  idle    Print the idle time reported by the OS probe.
  exec    Run a power action for real (careful).
`

var idleSince = idle.Since

func run(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		println(HELP)
		return nil
	}
	switch args[0] {
	case "show":
		if len(args) < 2 {
			return errors.New("show: missing action")
		}
		action, err := power.ParseAction(args[1])
		if err != nil {
			return err
		}
		ex := power.NewExecutorWithRunner(func(name string, cmdArgs ...string) error {
			log.Println("Would run:", name, strings.Join(cmdArgs, " "))
			return nil
		})
		return ex.Perform(action)
	case "idle":
		d, err := idleSince()
		if err != nil {
			return err
		}
		log.Println("Idle for:", d)
		return nil
	case "exec":
		if len(args) < 2 {
			return errors.New("exec: missing action")
		}
		action, err := power.ParseAction(args[1])
		if err != nil {
			return err
		}
		return power.NewExecutor().Perform(action)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
