package api

import (
	"encoding/json"
	"time"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/server"
)

// stopDaemonHandler acknowledges the request and then triggers daemon
// shutdown. The shutdown is deferred briefly so the acknowledgement
// frame reaches the client before the listener closes.
func (s *Api) stopDaemonHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	s.log.Println("Stop requested over socket")
	if s.shutdown != nil {
		time.AfterFunc(100*time.Millisecond, s.shutdown)
	}
	return common.UPDATE_STOP_DAEMON, &common.StopDaemonResponse{Stopping: true}, nil
}
