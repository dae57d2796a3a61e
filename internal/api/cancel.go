package api

import (
	"encoding/json"
	"errors"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/server"
)

func (s *Api) cancelHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.CancelParams
	var err error
	if err = json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_CANCEL, nil, err
	}
	if m.EventId == 0 {
		return common.UPDATE_CANCEL, nil, errors.New("event_id is required")
	}
	if err = s.sched.Cancel(m.EventId); err != nil {
		return common.UPDATE_CANCEL, nil, err
	}
	s.log.Printf("Canceled event #%d", m.EventId)
	return common.UPDATE_CANCEL, &common.CancelResponse{EventId: m.EventId, Canceled: true}, nil
}
