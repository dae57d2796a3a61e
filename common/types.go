package common

import "time"

// EventInfo is the wire representation of a pending power event.
type EventInfo struct {
	Id        int64     `json:"id"`
	Action    string    `json:"action"`
	FiresAt   time.Time `json:"fires_at"`
	State     string    `json:"state"`
	Remaining int       `json:"remaining,omitempty"`
	Total     int       `json:"total,omitempty"`
	Every     string    `json:"every,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ScheduleParams struct {
	Action  string    `json:"action"`
	FiresAt time.Time `json:"fires_at"`
	Every   string    `json:"every,omitempty"`
}

type ScheduleResponse struct {
	Event EventInfo `json:"event"`
}

type CancelParams struct {
	EventId int64 `json:"event_id"`
}

type CancelResponse struct {
	EventId  int64 `json:"event_id"`
	Canceled bool  `json:"canceled"`
}

type CancelAllResponse struct {
	Count int `json:"count"`
}

type ListResponse struct {
	Events []EventInfo `json:"events"`
}

type StatusResponse struct {
	Version          string     `json:"version"`
	Pid              int        `json:"pid"`
	UptimeSeconds    int64      `json:"uptime_seconds"`
	Pending          int        `json:"pending"`
	NextFireAt       *time.Time `json:"next_fire_at,omitempty"`
	NextAction       string     `json:"next_action,omitempty"`
	AutoSleepEnabled bool       `json:"auto_sleep_enabled"`
	AutoSleepMinutes int        `json:"auto_sleep_minutes"`
	IdleSeconds      int        `json:"idle_seconds"`
}

type HistoryParams struct {
	Limit int `json:"limit,omitempty"`
}

type HistoryEntry struct {
	Id      int64     `json:"id"`
	EventId int64     `json:"event_id"`
	Action  string    `json:"action"`
	Kind    string    `json:"kind"`
	At      time.Time `json:"at"`
	Detail  string    `json:"detail,omitempty"`
}

type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// AttachResponse carries the pending events at subscription time so
// clients can seed their countdown displays.
type AttachResponse struct {
	Events []EventInfo `json:"events"`
}

// StopDaemonResponse acknowledges a stop_daemon request. The daemon
// shuts down right after the acknowledgement is written.
type StopDaemonResponse struct {
	Stopping bool `json:"stopping"`
}

type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}

// CountdownUpdate is pushed once per second while an event is in its
// pre-notification window.
type CountdownUpdate struct {
	EventId   int64  `json:"event_id"`
	Action    string `json:"action"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
}

// ToastUpdate is a transient notification pushed to attached clients.
type ToastUpdate struct {
	Kind    ToastKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	EventId int64     `json:"event_id,omitempty"`
}
