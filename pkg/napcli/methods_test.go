//go:build !windows

package napcli

import (
	"encoding/json"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/tasknap/tasknap/common"
)

func TestNewClient(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "tasknap.sock")
	t.Setenv(common.SocketPathEnv, socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err == nil {
			_ = conn.Close()
		}
	}()

	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_ = client.conn.Close()
	<-done
}

func TestClientRemoveHandlerDisconnect(t *testing.T) {
	client := NewClientForTesting(nil)
	client.listen = true
	client.AddHandler(common.UPDATE_COUNTDOWN, HandlerFunc(func(json.RawMessage) error { return nil }))
	client.RemoveHandler(common.UPDATE_COUNTDOWN)
	if len(client.d.Handlers) != 0 {
		t.Fatalf("expected handlers to be removed")
	}
	client.Disconnect()
	if client.listen {
		t.Fatalf("expected listen to be false after Disconnect")
	}
}

func TestClientMethods(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	client := NewClientForTesting(c1)
	firesAt := time.Now().Add(time.Hour).Round(time.Second)
	go func() {
		for {
			reqBytes, err := read(c2)
			if err != nil {
				return
			}
			var req Request
			if err := json.Unmarshal(reqBytes, &req); err != nil {
				return
			}
			var payload []byte
			switch req.Method {
			case common.UPDATE_SCHEDULE:
				payload, _ = json.Marshal(common.ScheduleResponse{
					Event: common.EventInfo{Id: 1, Action: "shutdown", FiresAt: firesAt, State: "armed"},
				})
			case common.UPDATE_CANCEL:
				payload, _ = json.Marshal(common.CancelResponse{EventId: 1, Canceled: true})
			case common.UPDATE_CANCEL_ALL:
				payload, _ = json.Marshal(common.CancelAllResponse{Count: 2})
			case common.UPDATE_LIST:
				payload, _ = json.Marshal(common.ListResponse{Events: []common.EventInfo{}})
			case common.UPDATE_STATUS:
				payload, _ = json.Marshal(common.StatusResponse{Version: "test", Pending: 1})
			case common.UPDATE_HISTORY:
				payload, _ = json.Marshal(common.HistoryResponse{Entries: []common.HistoryEntry{
					{Id: 1, EventId: 1, Action: "shutdown", Kind: "executed"},
				}})
			case common.UPDATE_ATTACH:
				payload, _ = json.Marshal(common.AttachResponse{Events: []common.EventInfo{{Id: 1}}})
			case common.UPDATE_STOP_DAEMON:
				payload, _ = json.Marshal(common.StopDaemonResponse{Stopping: true})
			case common.UPDATE_VERSION:
				payload, _ = json.Marshal(common.VersionResponse{Version: "1.2.3"})
			default:
				payload = []byte(`{}`)
			}
			respBytes, _ := json.Marshal(Response{
				Ok:     true,
				Update: &Update{Type: req.Method, Message: json.RawMessage(payload)},
			})
			_ = write(c2, respBytes)
		}
	}()

	sched, err := client.Schedule("shutdown", firesAt, nil)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if sched.Event.Id != 1 || sched.Event.Action != "shutdown" {
		t.Fatalf("Schedule: unexpected event %+v", sched.Event)
	}
	if _, err := client.Schedule("restart", firesAt, &ScheduleOpts{Every: "0 2 * * *"}); err != nil {
		t.Fatalf("Schedule recurring: %v", err)
	}
	cancel, err := client.Cancel(1)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !cancel.Canceled {
		t.Fatalf("Cancel: expected canceled, got %+v", cancel)
	}
	all, err := client.CancelAll()
	if err != nil {
		t.Fatalf("CancelAll: %v", err)
	}
	if all.Count != 2 {
		t.Fatalf("CancelAll: unexpected count %d", all.Count)
	}
	if _, err := client.List(); err != nil {
		t.Fatalf("List: %v", err)
	}
	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Pending != 1 {
		t.Fatalf("Status: unexpected pending %d", status.Pending)
	}
	hist, err := client.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist.Entries) != 1 || hist.Entries[0].Kind != "executed" {
		t.Fatalf("History: unexpected entries %+v", hist.Entries)
	}
	attach, err := client.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(attach.Events) != 1 {
		t.Fatalf("Attach: unexpected events %+v", attach.Events)
	}
	if ok, err := client.StopDaemon(); err != nil || !ok {
		t.Fatalf("StopDaemon: %v", err)
	}
	ver, err := client.GetDaemonVersion()
	if err != nil {
		t.Fatalf("GetDaemonVersion: %v", err)
	}
	if ver.Version != "1.2.3" {
		t.Fatalf("GetDaemonVersion: unexpected version %q", ver.Version)
	}
}
