package api

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/server"
)

func (s *Api) listHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	events := s.sched.List()
	infos := make([]common.EventInfo, 0, len(events))
	for _, ev := range events {
		infos = append(infos, toEventInfo(ev))
	}
	return common.UPDATE_LIST, &common.ListResponse{Events: infos}, nil
}
