//go:build e2e

package e2e

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// TestHistoryJournal_RecordsLifecycle verifies that schedule and cancel
// leave journal rows behind, both through the history command and by
// reading journal.db directly after the daemon exits.
func TestHistoryJournal_RecordsLifecycle(t *testing.T) {
	env, stop := startDaemon(t)
	defer stop()

	runCLI(t, env, "schedule", "restart", "--in", "4h")
	runCLI(t, env, "cancel", "1")

	out := runCLI(t, env, "history")
	if !strings.Contains(out, "scheduled") {
		t.Errorf("history missing scheduled entry: %s", out)
	}
	if !strings.Contains(out, "canceled") {
		t.Errorf("history missing canceled entry: %s", out)
	}
	if !strings.Contains(out, "restart #1") {
		t.Errorf("history missing event reference: %s", out)
	}

	// Stop the daemon so the database is safe to open directly.
	stop()

	configDir := configDirFromEnv(t, env)
	db, err := sql.Open("sqlite", filepath.Join(configDir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer db.Close()

	var kinds []string
	rows, err := db.Query(`SELECT kind FROM journal WHERE event_id = 1 ORDER BY id`)
	if err != nil {
		t.Fatalf("query journal: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			t.Fatalf("scan journal row: %v", err)
		}
		kinds = append(kinds, kind)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate journal rows: %v", err)
	}

	want := []string{"scheduled", "canceled"}
	if len(kinds) != len(want) {
		t.Fatalf("journal rows = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("journal rows = %v, want %v", kinds, want)
		}
	}
}

// TestHistoryLimit verifies that a numeric argument bounds the number of
// entries shown.
func TestHistoryLimit(t *testing.T) {
	env, stop := startDaemon(t)
	defer stop()

	runCLI(t, env, "schedule", "sleep", "--in", "1h")
	runCLI(t, env, "schedule", "sleep", "--in", "2h")
	runCLI(t, env, "schedule", "sleep", "--in", "3h")

	out := runCLI(t, env, "history", "1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected a single history line, got %d:\n%s", len(lines), out)
	}
}

// configDirFromEnv digs the isolated config dir back out of the process
// environment built by startDaemon.
func configDirFromEnv(t *testing.T, env []string) string {
	t.Helper()
	for _, kv := range env {
		if v, ok := strings.CutPrefix(kv, "TASKNAP_CONFIG_DIR="); ok {
			return v
		}
	}
	t.Fatal("TASKNAP_CONFIG_DIR not in environment")
	return ""
}
