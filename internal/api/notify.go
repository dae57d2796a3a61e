package api

import (
	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/scheduler"
	"github.com/tasknap/tasknap/internal/server"
)

// PoolNotifier fans scheduler notifications out to attached socket
// clients and JSON-RPC websocket subscribers. ShowCountdown always
// reports false: remote clients cancel through the cancel method, not
// through the countdown stream.
type PoolNotifier struct {
	pool *server.Pool
	rpc  *server.RPCNotifier
}

func NewPoolNotifier(pool *server.Pool, rpc *server.RPCNotifier) *PoolNotifier {
	return &PoolNotifier{pool: pool, rpc: rpc}
}

// SetRPC wires the JSON-RPC notifier after construction. The RPC
// server needs the scheduler, which needs this notifier, so the bridge
// is attached once both exist and before the daemon starts serving.
func (n *PoolNotifier) SetRPC(rpc *server.RPCNotifier) {
	n.rpc = rpc
}

func (n *PoolNotifier) ShowCountdown(ev event.Event) bool {
	n.pool.Broadcast(server.MakeResult(common.UPDATE_COUNTDOWN, common.CountdownUpdate{
		EventId:   ev.ID,
		Action:    string(ev.Action),
		Remaining: ev.Remaining,
		Total:     ev.Total,
	}))
	if n.rpc != nil {
		n.rpc.Broadcast("event.countdown", server.CountdownNotification{
			ID:        ev.ID,
			Action:    string(ev.Action),
			Remaining: ev.Remaining,
			Total:     ev.Total,
		})
	}
	return false
}

func (n *PoolNotifier) ShowToast(ev event.Event, title, message string) {
	kind := toastKind(title)
	n.pool.Broadcast(server.MakeResult(common.UPDATE_TOAST, common.ToastUpdate{
		Kind:    kind,
		Title:   title,
		Message: message,
		EventId: ev.ID,
	}))

	// Lifecycle transitions also go out as typed pushes carrying the
	// full event, so clients can update their listings without a
	// round-trip.
	switch kind {
	case common.ToastScheduled:
		n.pool.Broadcast(server.MakeResult(common.UPDATE_SCHEDULED, toEventInfo(ev)))
	case common.ToastExecuted:
		n.pool.Broadcast(server.MakeResult(common.UPDATE_EXECUTED, toEventInfo(ev)))
	case common.ToastCanceled:
		n.pool.Broadcast(server.MakeResult(common.UPDATE_CANCELED, toEventInfo(ev)))
	}

	if n.rpc != nil {
		n.rpc.Broadcast("event.toast", server.ToastNotification{
			Kind:    string(kind),
			Title:   title,
			Message: message,
			ID:      ev.ID,
		})
	}
}

func toastKind(title string) common.ToastKind {
	switch title {
	case scheduler.ToastTitleScheduled:
		return common.ToastScheduled
	case scheduler.ToastTitleImminent:
		return common.ToastImminent
	case scheduler.ToastTitleExecuted:
		return common.ToastExecuted
	case scheduler.ToastTitleCanceled:
		return common.ToastCanceled
	case scheduler.ToastTitleFailed:
		return common.ToastFailed
	default:
		return common.ToastInfo
	}
}
