package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tasknap/tasknap/common"
	"golang.org/x/net/websocket"
)

func newTestWebFeed(t *testing.T) (*WebServer, *Pool, string, func()) {
	t.Helper()
	pool := NewPool(log.New(io.Discard, "", 0))
	ws := NewWebServer(log.New(io.Discard, "", 0), pool, 0)
	srv := httptest.NewServer(ws.handler())
	return ws, pool, srv.URL, srv.Close
}

func dialFeed(t *testing.T, srvURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srvURL, "http") + "/events"
	conn, err := websocket.Dial(wsURL, "", srvURL)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return conn
}

func TestNewWebServer(t *testing.T) {
	pool := NewPool(log.New(io.Discard, "", 0))
	ws := NewWebServer(log.New(io.Discard, "", 0), pool, 8080)
	if ws == nil {
		t.Fatal("expected non-nil WebServer")
	}
	if ws.port != 8080 {
		t.Fatalf("expected port 8080, got %d", ws.port)
	}
}

func TestWebServerAddr(t *testing.T) {
	pool := NewPool(log.New(io.Discard, "", 0))
	ws := NewWebServer(log.New(io.Discard, "", 0), pool, 9999)
	if got := ws.addr(); got != "127.0.0.1:9999" {
		t.Fatalf("expected 127.0.0.1:9999, got %s", got)
	}
}

func TestWebFeedReceivesBroadcast(t *testing.T) {
	_, pool, srvURL, cleanup := newTestWebFeed(t)
	defer cleanup()

	conn := dialFeed(t, srvURL)
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && pool.Count() == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if pool.Count() != 1 {
		t.Fatalf("expected feed connection to subscribe, count %d", pool.Count())
	}

	pool.Broadcast(MakeResult(common.UPDATE_COUNTDOWN, common.CountdownUpdate{
		EventId:   4,
		Action:    "shutdown",
		Remaining: 10,
		Total:     30,
	}))

	var frame []byte
	if err := websocket.Message.Receive(conn, &frame); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	// Feed frames carry the same length prefix as the daemon socket.
	if len(frame) < 4 {
		t.Fatalf("frame too short: %d bytes", len(frame))
	}
	if int(bytesToInt(frame[:4])) != len(frame)-4 {
		t.Fatalf("length prefix %d does not match body %d", bytesToInt(frame[:4]), len(frame)-4)
	}

	var resp Response
	if err := json.Unmarshal(frame[4:], &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !resp.Ok || resp.Update == nil || resp.Update.Type != common.UPDATE_COUNTDOWN {
		t.Fatalf("unexpected push: %+v", resp)
	}
}

func TestWebFeedUnsubscribesOnClose(t *testing.T) {
	_, pool, srvURL, cleanup := newTestWebFeed(t)
	defer cleanup()

	conn := dialFeed(t, srvURL)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && pool.Count() == 0 {
		time.Sleep(10 * time.Millisecond)
	}
	if pool.Count() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", pool.Count())
	}

	_ = conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if pool.Count() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected feed connection to unsubscribe, count %d", pool.Count())
}

func TestWebFeedMultipleClients(t *testing.T) {
	_, pool, srvURL, cleanup := newTestWebFeed(t)
	defer cleanup()

	conn1 := dialFeed(t, srvURL)
	defer conn1.Close()
	conn2 := dialFeed(t, srvURL)
	defer conn2.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && pool.Count() < 2 {
		time.Sleep(10 * time.Millisecond)
	}
	if pool.Count() != 2 {
		t.Fatalf("expected 2 subscribers, got %d", pool.Count())
	}

	pool.Broadcast(MakeResult(common.UPDATE_TOAST, common.ToastUpdate{
		Kind:  common.ToastScheduled,
		Title: "Shutdown scheduled",
	}))

	for i, conn := range []*websocket.Conn{conn1, conn2} {
		var frame []byte
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			t.Fatalf("client %d Receive: %v", i+1, err)
		}
		var resp Response
		if err := json.Unmarshal(frame[4:], &resp); err != nil {
			t.Fatalf("client %d Unmarshal: %v", i+1, err)
		}
		if resp.Update == nil || resp.Update.Type != common.UPDATE_TOAST {
			t.Fatalf("client %d unexpected push: %+v", i+1, resp)
		}
	}
}

func TestWebServerStartShutdown(t *testing.T) {
	pool := NewPool(log.New(io.Discard, "", 0))
	ws := NewWebServer(log.New(io.Discard, "", 0), pool, 0)

	errCh := make(chan error, 1)
	go func() {
		errCh <- ws.Start()
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ws.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Start returned unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}

func TestWebServerShutdownNilServer(t *testing.T) {
	pool := NewPool(log.New(io.Discard, "", 0))
	ws := NewWebServer(log.New(io.Discard, "", 0), pool, 0)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ws.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown with nil server failed: %v", err)
	}
}
