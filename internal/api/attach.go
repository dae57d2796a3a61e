package api

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/server"
)

// attachHandler subscribes the connection to push updates. The reply
// carries the pending events so the client can seed its countdown
// display before the first push arrives.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	pool.Subscribe(sconn)
	events := s.sched.List()
	infos := make([]common.EventInfo, 0, len(events))
	for _, ev := range events {
		infos = append(infos, toEventInfo(ev))
	}
	return common.UPDATE_ATTACH, &common.AttachResponse{Events: infos}, nil
}
