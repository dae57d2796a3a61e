package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/power"
	"github.com/tasknap/tasknap/internal/server"
)

func (s *Api) scheduleHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ScheduleParams
	var err error
	if err = json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	if m.Action == "" {
		return common.UPDATE_SCHEDULE, nil, errors.New("action is required")
	}
	action, err := power.ParseAction(m.Action)
	if err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	if m.FiresAt.IsZero() {
		return common.UPDATE_SCHEDULE, nil, errors.New("fires_at is required")
	}
	ev, err := s.sched.Schedule(action, m.FiresAt, m.Every)
	if err != nil {
		return common.UPDATE_SCHEDULE, nil, err
	}
	s.log.Printf("Scheduled %s #%d for %s", ev.Action, ev.ID, ev.FiresAt.Format(time.RFC3339))
	return common.UPDATE_SCHEDULE, &common.ScheduleResponse{Event: toEventInfo(*ev)}, nil
}
