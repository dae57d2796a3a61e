package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/urfave/cli"

	"github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

var (
	showOnce      bool
	showRecurring bool
	filterAction  string

	lsFlags = []cli.Flag{
		cli.BoolTFlag{
			Name:        "show-once, o",
			Usage:       "use this flag to include one-off events (default: true)",
			Destination: &showOnce,
		},
		cli.BoolTFlag{
			Name:        "show-recurring, r",
			Usage:       "use this flag to include recurring events (default: true)",
			Destination: &showRecurring,
		},
		cli.StringFlag{
			Name:        "action, a",
			Usage:       "only show events for this action (shutdown, restart, sleep)",
			Destination: &filterAction,
		},
	}
)

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, err := napcli.NewClient()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "new_client", err)
		return nil
	}
	defer client.Close()
	l, err := client.List()
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	fback := func() error {
		fmt.Println("tasknap: no scheduled events found")
		return nil
	}
	if len(l.Events) == 0 {
		return fback()
	}
	txt := "Here are your scheduled events:"
	txt += "\n\n-------------------------------------------------------"
	txt += "\n| Id |  Action  |       Fires At       |    State     |"
	txt += "\n|----|----------|----------------------|--------------|"
	var i int
	events := l.Events
	sort.Slice(events, func(a, b int) bool {
		return events[a].FiresAt.Before(events[b].FiresAt)
	})
	for _, ev := range events {
		if ev.Every != "" && !showRecurring {
			continue
		}
		if ev.Every == "" && !showOnce {
			continue
		}
		if filterAction != "" && ev.Action != filterAction {
			continue
		}
		i++
		id := fmt.Sprint(ev.Id)
		if len(id) < 2 {
			id = beaut(id, 2)
		}
		fires := formatFiresColumn(ev.FiresAt, ev.Every)
		n := len(fires)
		switch {
		case n > 20:
			fires = fires[:17] + "..."
		case n < 20:
			fires = beaut(fires, 20)
		}
		state := ev.State
		if len(state) < 12 {
			state = beaut(state, 12)
		}
		txt += fmt.Sprintf("\n| %s | %s | %s | %s |",
			id, beaut(ev.Action, 8), fires, state)
	}
	if i == 0 {
		return fback()
	}
	txt += "\n-------------------------------------------------------"
	fmt.Println(txt)
	return nil
}

// formatCountdown renders a remaining duration the way the list column
// shows it: "in 2h30m", "in 45m", "in 30s", or "now" once it is due.
func formatCountdown(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("in %dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("in %dh", h)
	case m > 0:
		return fmt.Sprintf("in %dm", m)
	default:
		return fmt.Sprintf("in %ds", s)
	}
}

// formatFiresColumn renders the fires-at column for one event. Recurring
// events show their cron expression plus the next occurrence; one-off
// events inside the next 24 hours show a countdown, further ones show
// the date.
func formatFiresColumn(firesAt time.Time, every string) string {
	if every != "" {
		if firesAt.IsZero() {
			return fmt.Sprintf("(recurring: %s)", every)
		}
		return fmt.Sprintf("(recurring: %s, next: %s)", every, firesAt.Local().Format("01-02 15:04"))
	}
	if firesAt.IsZero() {
		return "-"
	}
	remaining := time.Until(firesAt)
	if remaining > 0 && remaining <= 24*time.Hour {
		return formatCountdown(remaining)
	}
	return firesAt.Local().Format("01-02 15:04")
}

func beaut(s string, n int) (b string) {
	n1 := len(s)
	x := n - n1
	x1 := x / 2
	w := string(
		replic(' ', x1),
	)
	b = w
	b += s
	b += w
	if x%2 != 0 {
		b += " "
	}
	return
}

func replic[aT any](v aT, n int) []aT {
	a := make([]aT, n)
	for i := range a {
		a[i] = v
	}
	return a
}
