package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/power"
	"github.com/tasknap/tasknap/internal/scheduler"
)

// Custom JSON-RPC error codes for power event operations.
const (
	codeEventNotFound = jrpc2.Code(-32001)
	codeBadSchedule   = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
)

// Scheduler is the slice of scheduler operations the RPC methods drive.
type Scheduler interface {
	Schedule(action power.Action, firesAt time.Time, every string) (*event.Event, error)
	Cancel(id int64) error
	CancelAll() int
	List() []event.Event
}

// StatusFunc returns a point-in-time daemon status snapshot.
type StatusFunc func() *common.StatusResponse

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	Port      int
	ListenAll bool // If true, bind to all interfaces instead of loopback
	Version   string
	Commit    string
	BuildType string
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers. HTTP
// POST requests go through the jhttp bridge; WebSocket connections get
// a per-connection jrpc2 server with push support.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	notifier  *RPCNotifier
	l         *log.Logger
	secret    string
	port      int
	listenAll bool
	version   string
	commit    string
	buildType string
	sched     Scheduler
	status    StatusFunc
	server    *http.Server
	mu        sync.Mutex
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// EventItem is the RPC representation of a pending power event.
type EventItem struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	FiresAt   time.Time `json:"firesAt"`
	State     string    `json:"state"`
	Remaining int       `json:"remaining,omitempty"`
	Total     int       `json:"total,omitempty"`
	Every     string    `json:"every,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScheduleParams is the input for power.schedule.
type ScheduleParams struct {
	Action  string    `json:"action"`
	FiresAt time.Time `json:"firesAt"`
	Every   string    `json:"every,omitempty"`
}

// ScheduleResult is the response for power.schedule.
type ScheduleResult struct {
	Event *EventItem `json:"event"`
}

// IDParams is a common input with just an event id.
type IDParams struct {
	ID int64 `json:"id"`
}

// CancelAllResult is the response for power.cancelAll.
type CancelAllResult struct {
	Count int `json:"count"`
}

// ListResult is the response for power.list.
type ListResult struct {
	Events []*EventItem `json:"events"`
}

// StatusResult is the response for power.status.
type StatusResult struct {
	Version          string     `json:"version"`
	Pid              int        `json:"pid"`
	UptimeSeconds    int64      `json:"uptimeSeconds"`
	Pending          int        `json:"pending"`
	NextFireAt       *time.Time `json:"nextFireAt,omitempty"`
	NextAction       string     `json:"nextAction,omitempty"`
	AutoSleepEnabled bool       `json:"autoSleepEnabled"`
	AutoSleepMinutes int        `json:"autoSleepMinutes"`
	IdleSeconds      int        `json:"idleSeconds"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(l *log.Logger, cfg *RPCConfig, sched Scheduler, status StatusFunc) *RPCServer {
	rs := &RPCServer{
		notifier:  NewRPCNotifier(l),
		l:         l,
		secret:    cfg.Secret,
		port:      cfg.Port,
		listenAll: cfg.ListenAll,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		sched:     sched,
		status:    status,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"power.schedule":    handler.New(rs.powerSchedule),
		"power.cancel":      handler.New(rs.powerCancel),
		"power.cancelAll":   handler.New(rs.powerCancelAll),
		"power.list":        handler.New(rs.powerList),
		"power.status":      handler.New(rs.powerStatus),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Notifier returns the push broadcaster for RPC WebSocket clients.
func (rs *RPCServer) Notifier() *RPCNotifier {
	return rs.notifier
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// powerSchedule arms a new power event.
func (rs *RPCServer) powerSchedule(_ context.Context, p *ScheduleParams) (*ScheduleResult, error) {
	if p.Action == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: action"}
	}
	action, err := power.ParseAction(p.Action)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if p.FiresAt.IsZero() {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: firesAt"}
	}
	ev, err := rs.sched.Schedule(action, p.FiresAt, p.Every)
	if err != nil {
		if errors.Is(err, event.ErrInvalidTime) || errors.Is(err, scheduler.ErrBadRecurrence) {
			return nil, &jrpc2.Error{Code: codeBadSchedule, Message: err.Error()}
		}
		return nil, err
	}
	item := toEventItem(*ev)
	return &ScheduleResult{Event: &item}, nil
}

// powerCancel cancels a pending power event by id.
func (rs *RPCServer) powerCancel(_ context.Context, p *IDParams) (*EmptyResult, error) {
	if err := rs.sched.Cancel(p.ID); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			return nil, &jrpc2.Error{Code: codeEventNotFound, Message: "event not found"}
		}
		return nil, err
	}
	return &EmptyResult{}, nil
}

// powerCancelAll cancels every pending power event.
func (rs *RPCServer) powerCancelAll(_ context.Context) (*CancelAllResult, error) {
	return &CancelAllResult{Count: rs.sched.CancelAll()}, nil
}

// powerList returns the pending power events ordered by trigger time.
func (rs *RPCServer) powerList(_ context.Context) (*ListResult, error) {
	events := rs.sched.List()
	items := make([]*EventItem, 0, len(events))
	for _, ev := range events {
		item := toEventItem(ev)
		items = append(items, &item)
	}
	return &ListResult{Events: items}, nil
}

// powerStatus returns a daemon status snapshot.
func (rs *RPCServer) powerStatus(_ context.Context) (*StatusResult, error) {
	if rs.status == nil {
		return nil, errors.New("status unavailable")
	}
	st := rs.status()
	return &StatusResult{
		Version:          st.Version,
		Pid:              st.Pid,
		UptimeSeconds:    st.UptimeSeconds,
		Pending:          st.Pending,
		NextFireAt:       st.NextFireAt,
		NextAction:       st.NextAction,
		AutoSleepEnabled: st.AutoSleepEnabled,
		AutoSleepMinutes: st.AutoSleepMinutes,
		IdleSeconds:      st.IdleSeconds,
	}, nil
}

func toEventItem(ev event.Event) EventItem {
	return EventItem{
		ID:        ev.ID,
		Action:    ev.Action.String(),
		FiresAt:   ev.FiresAt,
		State:     string(ev.State),
		Remaining: ev.Remaining,
		Total:     ev.Total,
		Every:     ev.Every,
		CreatedAt: ev.CreatedAt,
	}
}

func (rs *RPCServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(rs.secret, rs.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(rs.secret, http.HandlerFunc(rs.handleWS)))
	return mux
}

func (rs *RPCServer) addr() string {
	host := common.TCPHost
	if rs.listenAll {
		host = ""
	}
	return fmt.Sprintf("%s:%d", host, rs.port)
}

// Start serves the RPC endpoints until Shutdown.
func (rs *RPCServer) Start() error {
	rs.mu.Lock()
	rs.server = &http.Server{
		Addr:    rs.addr(),
		Handler: rs.handler(),
	}
	srv := rs.server
	rs.mu.Unlock()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server and closes the jrpc2 bridge,
// releasing internal goroutines.
func (rs *RPCServer) Shutdown(ctx context.Context) error {
	rs.mu.Lock()
	srv := rs.server
	rs.server = nil
	rs.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	rs.Close()
	return err
}

// Close releases the bridge's internal goroutines without touching the
// HTTP server. Safe to call more than once.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
