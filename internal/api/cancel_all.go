package api

import (
	"encoding/json"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/server"
)

func (s *Api) cancelAllHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	count := s.sched.CancelAll()
	if count > 0 {
		s.log.Printf("Canceled %d pending events", count)
	}
	return common.UPDATE_CANCEL_ALL, &common.CancelAllResponse{Count: count}, nil
}
