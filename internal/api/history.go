package api

import (
	"encoding/json"
	"errors"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/server"
)

// defaultHistoryLimit bounds a history reply when the client does not
// ask for a specific count.
const defaultHistoryLimit = 20

func (s *Api) historyHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.HistoryParams
	var err error
	if len(body) > 0 {
		if err = json.Unmarshal(body, &m); err != nil {
			return common.UPDATE_HISTORY, nil, err
		}
	}
	if s.journal == nil {
		return common.UPDATE_HISTORY, nil, errors.New("history is not available")
	}
	limit := m.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := s.journal.Recent(limit)
	if err != nil {
		return common.UPDATE_HISTORY, nil, err
	}
	entries := make([]common.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, common.HistoryEntry{
			Id:      r.ID,
			EventId: r.EventID,
			Action:  r.Action,
			Kind:    r.Kind,
			At:      r.At,
			Detail:  r.Detail,
		})
	}
	return common.UPDATE_HISTORY, &common.HistoryResponse{Entries: entries}, nil
}
