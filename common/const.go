package common

type UpdateType string

const (
	UPDATE_SCHEDULE    UpdateType = "schedule"
	UPDATE_CANCEL      UpdateType = "cancel"
	UPDATE_CANCEL_ALL  UpdateType = "cancel_all"
	UPDATE_LIST        UpdateType = "list"
	UPDATE_STATUS      UpdateType = "status"
	UPDATE_HISTORY     UpdateType = "history"
	UPDATE_ATTACH      UpdateType = "attach"
	UPDATE_STOP_DAEMON UpdateType = "stop_daemon"
	UPDATE_VERSION     UpdateType = "version"

	// Push updates broadcast to attached clients.
	UPDATE_COUNTDOWN UpdateType = "countdown"
	UPDATE_TOAST     UpdateType = "toast"
	UPDATE_SCHEDULED UpdateType = "scheduled"
	UPDATE_EXECUTED  UpdateType = "executed"
	UPDATE_CANCELED  UpdateType = "canceled"
)

// ToastKind classifies toast pushes so attached clients can filter them.
type ToastKind string

const (
	ToastScheduled ToastKind = "scheduled"
	ToastImminent  ToastKind = "imminent"
	ToastExecuted  ToastKind = "executed"
	ToastCanceled  ToastKind = "canceled"
	ToastFailed    ToastKind = "failed"
	ToastInfo      ToastKind = "info"
)

// TCPHost is the loopback host used for all TCP fallback listeners.
const TCPHost = "127.0.0.1"

const (
	// DefaultTCPPort is the fallback TCP port for the daemon socket.
	DefaultTCPPort = 4217

	// DefaultRPCPort is the default port for the JSON-RPC bridge.
	DefaultRPCPort = 4218

	// DefaultWebPort is the default port for the websocket event feed.
	DefaultWebPort = 4219
)

// MaxMessageSize caps a single framed message on the daemon socket.
const MaxMessageSize = 1 << 20
