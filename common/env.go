// Package common provides shared types and constants used across the tasknap
// client-server communication layer.
package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "TASKNAP_SOCKET_PATH"

	// PipeNameEnv is the environment variable for custom Windows pipe name.
	PipeNameEnv = "TASKNAP_PIPE_NAME"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "TASKNAP_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "TASKNAP_FORCE_TCP"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "TASKNAP_DEBUG"

	// DaemonTimeoutEnv overrides how long the CLI waits for a spawned
	// daemon to come up.
	DaemonTimeoutEnv = "TASKNAP_DAEMON_TIMEOUT"

	// SkipSpawnEnv disables daemon autostart. Tests set it so client
	// calls never exec a daemon out of the test binary.
	SkipSpawnEnv = "TASKNAP_TEST_SKIP_DAEMON"
)
