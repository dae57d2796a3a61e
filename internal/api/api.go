package api

import (
	"log"
	"os"
	"time"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/config"
	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/idle"
	"github.com/tasknap/tasknap/internal/journal"
	"github.com/tasknap/tasknap/internal/scheduler"
	"github.com/tasknap/tasknap/internal/server"
)

type Api struct {
	log       *log.Logger
	sched     *scheduler.Scheduler
	journal   *journal.Store
	cfg       *config.Store
	shutdown  func()
	version   string
	commit    string
	buildType string
	startedAt time.Time
}

// NewApi wires the socket method handlers to their collaborators. The
// shutdown callback stops the daemon; pass nil when the caller handles
// termination itself.
func NewApi(l *log.Logger, sched *scheduler.Scheduler, jrnl *journal.Store, cfg *config.Store, shutdown func(), version, commit, buildType string) (*Api, error) {
	return &Api{
		log:       l,
		sched:     sched,
		journal:   jrnl,
		cfg:       cfg,
		shutdown:  shutdown,
		version:   version,
		commit:    commit,
		buildType: buildType,
		startedAt: time.Now(),
	}, nil
}

func (s *Api) RegisterHandlers(server *server.Server) {
	// event API methods
	server.RegisterHandler(common.UPDATE_SCHEDULE, s.scheduleHandler)
	server.RegisterHandler(common.UPDATE_CANCEL, s.cancelHandler)
	server.RegisterHandler(common.UPDATE_CANCEL_ALL, s.cancelAllHandler)
	server.RegisterHandler(common.UPDATE_LIST, s.listHandler)
	server.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)

	// daemon API methods
	server.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	server.RegisterHandler(common.UPDATE_HISTORY, s.historyHandler)
	server.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
	server.RegisterHandler(common.UPDATE_STOP_DAEMON, s.stopDaemonHandler)
}

// Status assembles the daemon status snapshot. Shared by the status
// socket method and the JSON-RPC power.status call.
func (s *Api) Status() *common.StatusResponse {
	events := s.sched.List()
	resp := &common.StatusResponse{
		Version:          s.version,
		Pid:              os.Getpid(),
		UptimeSeconds:    int64(time.Since(s.startedAt).Seconds()),
		Pending:          len(events),
		AutoSleepEnabled: s.cfg.AutoSleepEnabled(),
		AutoSleepMinutes: s.cfg.AutoSleepMinutes(),
		IdleSeconds:      idle.Seconds(),
	}
	if len(events) > 0 {
		next := events[0]
		firesAt := next.FiresAt
		resp.NextFireAt = &firesAt
		resp.NextAction = string(next.Action)
	}
	return resp
}

func (s *Api) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

func toEventInfo(ev event.Event) common.EventInfo {
	return common.EventInfo{
		Id:        ev.ID,
		Action:    string(ev.Action),
		FiresAt:   ev.FiresAt,
		State:     string(ev.State),
		Remaining: ev.Remaining,
		Total:     ev.Total,
		Every:     ev.Every,
		CreatedAt: ev.CreatedAt,
	}
}
