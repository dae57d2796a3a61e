package api

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/power"
	"github.com/tasknap/tasknap/internal/scheduler"
	"github.com/tasknap/tasknap/internal/server"
)

type pushFrame struct {
	Ok     bool `json:"ok"`
	Update struct {
		Type    common.UpdateType `json:"type"`
		Message json.RawMessage   `json:"message"`
	} `json:"update"`
}

func readPush(t *testing.T, conn net.Conn) pushFrame {
	t.Helper()
	head := make([]byte, 4)
	if _, err := io.ReadFull(conn, head); err != nil {
		t.Fatalf("read frame header: %v", err)
	}
	body := make([]byte, binary.LittleEndian.Uint32(head))
	if _, err := io.ReadFull(conn, body); err != nil {
		t.Fatalf("read frame body: %v", err)
	}
	var f pushFrame
	if err := json.Unmarshal(body, &f); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	return f
}

func newSubscribedPool(t *testing.T) (*server.Pool, net.Conn) {
	t.Helper()
	pool := server.NewPool(log.New(io.Discard, "", 0))
	clientEnd, serverEnd := net.Pipe()
	t.Cleanup(func() {
		clientEnd.Close()
		serverEnd.Close()
	})
	pool.Subscribe(server.NewSyncConn(serverEnd))
	return pool, clientEnd
}

func TestToastKindMapping(t *testing.T) {
	cases := []struct {
		title string
		want  common.ToastKind
	}{
		{scheduler.ToastTitleScheduled, common.ToastScheduled},
		{scheduler.ToastTitleImminent, common.ToastImminent},
		{scheduler.ToastTitleExecuted, common.ToastExecuted},
		{scheduler.ToastTitleCanceled, common.ToastCanceled},
		{scheduler.ToastTitleFailed, common.ToastFailed},
		{"Something else", common.ToastInfo},
	}
	for _, c := range cases {
		if got := toastKind(c.title); got != c.want {
			t.Errorf("toastKind(%q) = %s, want %s", c.title, got, c.want)
		}
	}
}

func TestPoolNotifierCountdown(t *testing.T) {
	pool, clientEnd := newSubscribedPool(t)
	n := NewPoolNotifier(pool, nil)
	ev := event.Event{
		ID:        3,
		Action:    power.Shutdown,
		State:     event.StatePreNotifying,
		Remaining: 12,
		Total:     30,
	}

	done := make(chan bool, 1)
	go func() { done <- n.ShowCountdown(ev) }()

	f := readPush(t, clientEnd)
	if f.Update.Type != common.UPDATE_COUNTDOWN {
		t.Fatalf("expected countdown push, got %s", f.Update.Type)
	}
	var u common.CountdownUpdate
	if err := json.Unmarshal(f.Update.Message, &u); err != nil {
		t.Fatalf("unmarshal countdown: %v", err)
	}
	if u.EventId != 3 || u.Action != "shutdown" || u.Remaining != 12 || u.Total != 30 {
		t.Fatalf("unexpected countdown payload: %+v", u)
	}

	select {
	case canceled := <-done:
		if canceled {
			t.Fatalf("pool notifier must never request cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ShowCountdown did not return")
	}
}

func TestPoolNotifierToastScheduled(t *testing.T) {
	pool, clientEnd := newSubscribedPool(t)
	n := NewPoolNotifier(pool, nil)
	ev := event.Event{ID: 5, Action: power.Sleep, State: event.StateArmed}

	done := make(chan struct{})
	go func() {
		n.ShowToast(ev, scheduler.ToastTitleScheduled, "sleep at 18:00")
		close(done)
	}()

	toast := readPush(t, clientEnd)
	if toast.Update.Type != common.UPDATE_TOAST {
		t.Fatalf("expected toast push, got %s", toast.Update.Type)
	}
	var tu common.ToastUpdate
	if err := json.Unmarshal(toast.Update.Message, &tu); err != nil {
		t.Fatalf("unmarshal toast: %v", err)
	}
	if tu.Kind != common.ToastScheduled || tu.EventId != 5 || tu.Message != "sleep at 18:00" {
		t.Fatalf("unexpected toast payload: %+v", tu)
	}

	typed := readPush(t, clientEnd)
	if typed.Update.Type != common.UPDATE_SCHEDULED {
		t.Fatalf("expected scheduled push, got %s", typed.Update.Type)
	}
	var info common.EventInfo
	if err := json.Unmarshal(typed.Update.Message, &info); err != nil {
		t.Fatalf("unmarshal event info: %v", err)
	}
	if info.Id != 5 || info.Action != "sleep" {
		t.Fatalf("unexpected event payload: %+v", info)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("ShowToast did not return")
	}
}

func TestPoolNotifierToastImminentSkipsLifecyclePush(t *testing.T) {
	pool, clientEnd := newSubscribedPool(t)
	n := NewPoolNotifier(pool, nil)
	ev := event.Event{ID: 7, Action: power.Restart, State: event.StatePreNotifying}

	done := make(chan struct{})
	go func() {
		n.ShowToast(ev, scheduler.ToastTitleImminent, "restart in 30 seconds")
		close(done)
	}()

	toast := readPush(t, clientEnd)
	if toast.Update.Type != common.UPDATE_TOAST {
		t.Fatalf("expected toast push, got %s", toast.Update.Type)
	}

	// A lifecycle push would keep ShowToast blocked on the unread
	// frame, so its return proves the toast was the only one.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("ShowToast did not return after single push")
	}
}

func TestPoolNotifierExecutedAndCanceledPushes(t *testing.T) {
	cases := []struct {
		title string
		want  common.UpdateType
	}{
		{scheduler.ToastTitleExecuted, common.UPDATE_EXECUTED},
		{scheduler.ToastTitleCanceled, common.UPDATE_CANCELED},
	}
	for _, c := range cases {
		pool, clientEnd := newSubscribedPool(t)
		n := NewPoolNotifier(pool, nil)
		ev := event.Event{ID: 9, Action: power.Shutdown}

		done := make(chan struct{})
		go func() {
			n.ShowToast(ev, c.title, "x")
			close(done)
		}()

		if f := readPush(t, clientEnd); f.Update.Type != common.UPDATE_TOAST {
			t.Fatalf("%s: expected toast first, got %s", c.title, f.Update.Type)
		}
		if f := readPush(t, clientEnd); f.Update.Type != c.want {
			t.Fatalf("%s: expected %s push, got %s", c.title, c.want, f.Update.Type)
		}
		<-done
	}
}

func TestPoolNotifierNoSubscribers(t *testing.T) {
	pool := server.NewPool(log.New(io.Discard, "", 0))
	n := NewPoolNotifier(pool, server.NewRPCNotifier(log.New(io.Discard, "", 0)))

	ev := event.Event{ID: 1, Action: power.Shutdown}
	if n.ShowCountdown(ev) {
		t.Fatalf("expected false from ShowCountdown")
	}
	n.ShowToast(ev, scheduler.ToastTitleFailed, "shutdown: exit status 1")
}
