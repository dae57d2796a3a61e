package cmd

import (
	"fmt"
	"sync"

	"github.com/vbauerster/mpb/v8"

	cmdCommon "github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

// eventBar pairs a countdown bar with the tick counter driving it.
type eventBar struct {
	bar       *mpb.Bar
	tc        *TickCounter
	total     int
	remaining int
}

// barSet tracks one countdown bar per pending event. Bars appear when an
// event enters its countdown window and disappear when it fires or is
// canceled.
type barSet struct {
	p    *mpb.Progress
	mu   sync.Mutex
	bars map[int64]*eventBar
}

func newBarSet(p *mpb.Progress) *barSet {
	return &barSet{
		p:    p,
		bars: make(map[int64]*eventBar),
	}
}

func (b *barSet) add(id int64, action string, total, remaining int) *eventBar {
	name := fmt.Sprintf("%s #%d", action, id)
	bar := cmdCommon.InitBarWithProgress(b.p, name, int64(total), int64(total-remaining))
	tc := NewTickCounter(DEF_REFRESH_RATE)
	tc.SetBar(bar)
	tc.Start()
	eb := &eventBar{
		bar:       bar,
		tc:        tc,
		total:     total,
		remaining: remaining,
	}
	b.bars[id] = eb
	return eb
}

// seed creates bars for events already counting down at attach time.
func (b *barSet) seed(ev common.EventInfo) {
	if ev.Total == 0 || ev.Remaining == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.bars[ev.Id]; ok {
		return
	}
	b.add(ev.Id, ev.Action, ev.Total, ev.Remaining)
}

// advance drives the bar for a countdown tick, creating it on first sight.
func (b *barSet) advance(cu *common.CountdownUpdate) {
	b.mu.Lock()
	defer b.mu.Unlock()
	eb, ok := b.bars[cu.EventId]
	if !ok {
		b.add(cu.EventId, cu.Action, cu.Total, cu.Remaining)
		return
	}
	delta := eb.remaining - cu.Remaining
	if delta <= 0 {
		return
	}
	eb.tc.IncrBy(delta)
	eb.remaining = cu.Remaining
}

// complete fills the bar and drops the event.
func (b *barSet) complete(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	eb, ok := b.bars[id]
	if !ok {
		return
	}
	eb.tc.Stop()
	if !eb.bar.Completed() {
		eb.bar.SetCurrent(int64(eb.total))
	}
	delete(b.bars, id)
}

// abort discards the bar without completing it.
func (b *barSet) abort(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	eb, ok := b.bars[id]
	if !ok {
		return
	}
	eb.tc.Stop()
	eb.bar.Abort(true)
	delete(b.bars, id)
}

// nearest returns the id of the event with the least time remaining.
func (b *barSet) nearest() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var (
		id    int64
		min   int
		found bool
	)
	for i, eb := range b.bars {
		if !found || eb.remaining < min {
			id, min, found = i, eb.remaining, true
		}
	}
	return id, found
}

func countdownProgress(bars *barSet) func(cu *common.CountdownUpdate) error {
	return func(cu *common.CountdownUpdate) error {
		// fmt.Println(cu.Action, cu.EventId, cu.Remaining)
		bars.advance(cu)
		return nil
	}
}

func eventScheduled(ev *common.EventInfo) error {
	return nil
}

func eventExecuted(bars *barSet) func(ev *common.EventInfo) error {
	return func(ev *common.EventInfo) error {
		// fmt.Println("Event Executed: ", ev.Id)
		bars.complete(ev.Id)
		return nil
	}
}

func eventCanceled(bars *barSet) func(ev *common.EventInfo) error {
	return func(ev *common.EventInfo) error {
		bars.abort(ev.Id)
		return nil
	}
}

func toastMessage(tu *common.ToastUpdate) error {
	// fmt.Println("Toast: ", tu.Title, tu.Message)
	return nil
}

// RegisterHandlers wires the live countdown display onto an attached
// client. The events slice seeds bars for countdowns already running.
func RegisterHandlers(client *napcli.Client, events []common.EventInfo) *barSet {
	p := mpb.New(mpb.WithWidth(64), mpb.WithRefreshRate(DEF_REFRESH_RATE))
	bars := newBarSet(p)
	for _, ev := range events {
		bars.seed(ev)
	}
	client.AddHandler(
		common.UPDATE_COUNTDOWN,
		napcli.NewCountdownHandler("", countdownProgress(bars)),
	)
	client.AddHandler(
		common.UPDATE_SCHEDULED,
		napcli.NewEventHandler(eventScheduled),
	)
	client.AddHandler(
		common.UPDATE_EXECUTED,
		napcli.NewEventHandler(eventExecuted(bars)),
	)
	client.AddHandler(
		common.UPDATE_CANCELED,
		napcli.NewEventHandler(eventCanceled(bars)),
	)
	client.AddHandler(
		common.UPDATE_TOAST,
		napcli.NewToastHandler("", toastMessage),
	)
	return bars
}
