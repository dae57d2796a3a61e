package napcli

import (
	"fmt"
	"os"
)

// VersionCheckEnv suppresses the CLI/daemon version mismatch warning
// when set to any non-empty value, for scripts and CI.
const VersionCheckEnv = "TASKNAP_SUPPRESS_VERSION_CHECK"

// CheckVersionMismatch warns on stderr when the daemon reports a
// different version than this CLI. An upgraded binary talking to a
// daemon left over from the old one is the usual cause; commands still
// work across versions, so the check warns and never fails the call.
func (c *Client) CheckVersionMismatch(expected string) {
	if expected == "" || os.Getenv(VersionCheckEnv) != "" {
		return
	}

	v, err := c.GetDaemonVersion()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not verify daemon version: %v\n", err)
		return
	}
	if v.Version == expected {
		return
	}

	fmt.Fprintf(os.Stderr, "Warning: CLI version (%s) differs from daemon version (%s)\n",
		expected, v.Version)
	fmt.Fprintln(os.Stderr, "Run 'tasknap stop-daemon' to restart the daemon with the new version.")
}
