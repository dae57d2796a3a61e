package server

import (
	"io"
	"log"
	"sync"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
)

// newPushServer creates a jrpc2 server with push support backed by an
// io.Pipe-based channel. Returns the client channel (for draining), the
// server, and a cleanup function. The client channel must be drained or
// closed to avoid blocking the server's push operations.
func newPushServer(t *testing.T) (channel.Channel, *jrpc2.Server, func()) {
	t.Helper()
	cr, sw := io.Pipe()
	sr, cw := io.Pipe()
	cli := channel.Line(cr, cw)
	srvCh := channel.Line(sr, sw)

	srv := jrpc2.NewServer(handler.Map{}, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(srvCh)

	cleanup := func() {
		cli.Close()
		_ = srv.Wait()
	}
	return cli, srv, cleanup
}

func TestNewRPCNotifier(t *testing.T) {
	n := NewRPCNotifier(nil)
	if n == nil {
		t.Fatal("expected non-nil notifier")
	}
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers, got %d", n.Count())
	}
}

func TestRPCNotifierRegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(nil)
	cli, srv, cleanup := newPushServer(t)
	defer cleanup()
	_ = cli

	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("expected 1 server, got %d", n.Count())
	}
	// Double register is idempotent (map key).
	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("expected 1 server after double register, got %d", n.Count())
	}

	n.Unregister(srv)
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers after unregister, got %d", n.Count())
	}
	// Unregistering again should not panic.
	n.Unregister(srv)
}

func TestRPCNotifierBroadcastNoServers(t *testing.T) {
	n := NewRPCNotifier(nil)
	n.Broadcast("event.toast", &ToastNotification{Kind: "info", Title: "t"})
}

func TestRPCNotifierBroadcastCountdown(t *testing.T) {
	n := NewRPCNotifier(nil)
	cli, srv, cleanup := newPushServer(t)
	defer cleanup()

	n.Register(srv)

	// Drain the notification in a goroutine since the channel is synchronous.
	done := make(chan []byte, 1)
	go func() {
		data, _ := cli.Recv()
		done <- data
	}()

	n.Broadcast("event.countdown", &CountdownNotification{
		ID:        3,
		Action:    "shutdown",
		Remaining: 25,
		Total:     30,
	})

	data := <-done
	if len(data) == 0 {
		t.Fatal("expected notification payload")
	}

	if n.Count() != 1 {
		t.Fatalf("expected 1 server after successful broadcast, got %d", n.Count())
	}
}

func TestRPCNotifierBroadcastDisconnected(t *testing.T) {
	n := NewRPCNotifier(log.New(io.Discard, "", 0))

	cli, srv, _ := newPushServer(t)
	n.Register(srv)

	cli.Close()
	_ = srv.Wait()

	// Broadcast must drop the failed server.
	n.Broadcast("event.toast", &ToastNotification{Kind: "executed", Title: "Sleep executed"})

	if n.Count() != 0 {
		t.Fatalf("expected 0 servers after disconnect, got %d", n.Count())
	}
}

func TestRPCNotifierBroadcastPartialFailure(t *testing.T) {
	n := NewRPCNotifier(log.New(io.Discard, "", 0))

	cli1, srv1, cleanup1 := newPushServer(t)
	defer cleanup1()
	cli2, srv2, _ := newPushServer(t)

	n.Register(srv1)
	n.Register(srv2)

	cli2.Close()
	_ = srv2.Wait()

	done := make(chan struct{}, 1)
	go func() { _, _ = cli1.Recv(); done <- struct{}{} }()

	n.Broadcast("event.countdown", &CountdownNotification{ID: 1, Action: "restart", Remaining: 5, Total: 30})

	<-done

	if n.Count() != 1 {
		t.Fatalf("expected 1 server after partial failure, got %d", n.Count())
	}
}

func TestRPCNotifierConcurrentRegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(log.New(io.Discard, "", 0))
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cli, srv, _ := newPushServer(t)

			n.Register(srv)
			_ = n.Count()
			n.Unregister(srv)

			cli.Close()
			_ = srv.Wait()
		}()
	}
	wg.Wait()

	if n.Count() != 0 {
		t.Fatalf("expected 0 servers after concurrent register/unregister, got %d", n.Count())
	}
}
