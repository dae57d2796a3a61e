package cmd

import (
	"net"
	"testing"

	"github.com/vbauerster/mpb/v8"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/pkg/napcli"
)

func TestCountdownHandlers(t *testing.T) {
	p := mpb.New()
	bars := newBarSet(p)

	if err := countdownProgress(bars)(&common.CountdownUpdate{EventId: 1, Action: "shutdown", Remaining: 60, Total: 60}); err != nil {
		t.Fatalf("countdownProgress first tick: %v", err)
	}
	if _, ok := bars.bars[1]; !ok {
		t.Fatalf("expected bar to be created on first tick")
	}
	if err := countdownProgress(bars)(&common.CountdownUpdate{EventId: 1, Action: "shutdown", Remaining: 58, Total: 60}); err != nil {
		t.Fatalf("countdownProgress second tick: %v", err)
	}
	if got := bars.bars[1].remaining; got != 58 {
		t.Fatalf("expected remaining 58, got %d", got)
	}
	// Stale tick (remaining moved backwards) is ignored
	if err := countdownProgress(bars)(&common.CountdownUpdate{EventId: 1, Action: "shutdown", Remaining: 59, Total: 60}); err != nil {
		t.Fatalf("countdownProgress stale tick: %v", err)
	}
	if got := bars.bars[1].remaining; got != 58 {
		t.Fatalf("expected remaining to stay 58, got %d", got)
	}

	if err := eventExecuted(bars)(&common.EventInfo{Id: 1}); err != nil {
		t.Fatalf("eventExecuted: %v", err)
	}
	if _, ok := bars.bars[1]; ok {
		t.Fatalf("expected bar to be dropped after execution")
	}
	// Executing an unknown event is a no-op
	if err := eventExecuted(bars)(&common.EventInfo{Id: 42}); err != nil {
		t.Fatalf("eventExecuted unknown: %v", err)
	}

	if err := countdownProgress(bars)(&common.CountdownUpdate{EventId: 2, Action: "sleep", Remaining: 30, Total: 30}); err != nil {
		t.Fatalf("countdownProgress new event: %v", err)
	}
	if err := eventCanceled(bars)(&common.EventInfo{Id: 2}); err != nil {
		t.Fatalf("eventCanceled: %v", err)
	}
	if _, ok := bars.bars[2]; ok {
		t.Fatalf("expected bar to be dropped after cancel")
	}
	if err := eventCanceled(bars)(&common.EventInfo{Id: 99}); err != nil {
		t.Fatalf("eventCanceled unknown: %v", err)
	}

	if err := eventScheduled(&common.EventInfo{Id: 3}); err != nil {
		t.Fatalf("eventScheduled: %v", err)
	}
	if err := toastMessage(&common.ToastUpdate{Kind: common.ToastExecuted}); err != nil {
		t.Fatalf("toastMessage: %v", err)
	}
}

func TestBarSetSeed(t *testing.T) {
	p := mpb.New()
	bars := newBarSet(p)

	bars.seed(common.EventInfo{Id: 1, Action: "restart", Remaining: 20, Total: 60})
	if _, ok := bars.bars[1]; !ok {
		t.Fatalf("expected seeded bar")
	}
	// Seeding twice must not replace the bar
	eb := bars.bars[1]
	bars.seed(common.EventInfo{Id: 1, Action: "restart", Remaining: 10, Total: 60})
	if bars.bars[1] != eb {
		t.Fatalf("expected seed to be idempotent")
	}
	// Events outside the countdown window are not seeded
	bars.seed(common.EventInfo{Id: 2, Action: "sleep"})
	if _, ok := bars.bars[2]; ok {
		t.Fatalf("expected idle event to be skipped")
	}
}

func TestBarSetNearest(t *testing.T) {
	p := mpb.New()
	bars := newBarSet(p)

	if _, ok := bars.nearest(); ok {
		t.Fatalf("expected no nearest event on empty set")
	}

	bars.seed(common.EventInfo{Id: 1, Action: "shutdown", Remaining: 50, Total: 60})
	bars.seed(common.EventInfo{Id: 2, Action: "sleep", Remaining: 10, Total: 60})
	bars.seed(common.EventInfo{Id: 3, Action: "restart", Remaining: 30, Total: 60})

	id, ok := bars.nearest()
	if !ok || id != 2 {
		t.Fatalf("expected nearest event 2, got %d (ok=%v)", id, ok)
	}
}

func TestRegisterHandlers(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()
	client := napcli.NewClientForTesting(c1)
	events := []common.EventInfo{
		{Id: 1, Action: "shutdown", Remaining: 45, Total: 60},
	}
	bars := RegisterHandlers(client, events)
	if bars == nil {
		t.Fatalf("expected bar set")
	}
	if _, ok := bars.bars[1]; !ok {
		t.Fatalf("expected seeded bar from attach response")
	}
}
