package napcli

import (
	"encoding/json"
	"time"

	"github.com/tasknap/tasknap/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

type ScheduleOpts struct {
	Every string `json:"every,omitempty"`
}

func (c *Client) Schedule(action string, firesAt time.Time, opts *ScheduleOpts) (*common.ScheduleResponse, error) {
	if opts == nil {
		opts = &ScheduleOpts{}
	}
	return invoke[common.ScheduleResponse](c, common.UPDATE_SCHEDULE, &common.ScheduleParams{
		Action:  action,
		FiresAt: firesAt,
		Every:   opts.Every,
	})
}

func (c *Client) Cancel(eventId int64) (*common.CancelResponse, error) {
	return invoke[common.CancelResponse](c, common.UPDATE_CANCEL, &common.CancelParams{
		EventId: eventId,
	})
}

func (c *Client) CancelAll() (*common.CancelAllResponse, error) {
	return invoke[common.CancelAllResponse](c, common.UPDATE_CANCEL_ALL, nil)
}

func (c *Client) List() (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_LIST, nil)
}

func (c *Client) Status() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, nil)
}

func (c *Client) History(limit int) (*common.HistoryResponse, error) {
	return invoke[common.HistoryResponse](c, common.UPDATE_HISTORY, &common.HistoryParams{
		Limit: limit,
	})
}

// Attach subscribes this connection to pushed updates. The reply lists
// the pending events so the caller can seed its countdown display
// before entering Listen.
func (c *Client) Attach() (*common.AttachResponse, error) {
	return invoke[common.AttachResponse](c, common.UPDATE_ATTACH, nil)
}

func (c *Client) StopDaemon() (bool, error) {
	_, err := c.invoke(common.UPDATE_STOP_DAEMON, nil)
	return err == nil, err
}

func (c *Client) GetDaemonVersion() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}
