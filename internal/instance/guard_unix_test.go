//go:build !windows

package instance

import (
	"errors"
	"os"
	"testing"
)

func TestAcquireWritesOwnPid(t *testing.T) {
	dir := t.TempDir()

	g, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer g.Release()

	pid, err := ReadPid(dir, "tasknapd")
	if err != nil {
		t.Fatalf("read pid: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected pid %d, got %d", os.Getpid(), pid)
	}
}

func TestAcquireWhileHeld(t *testing.T) {
	dir := t.TempDir()

	g, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer g.Release()

	// The holder is this live process, so a second claim must fail
	if _, err := Acquire(dir, "tasknapd"); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	dir := t.TempDir()

	g, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	g2, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	g2.Release()
}

func TestReleaseTwice(t *testing.T) {
	dir := t.TempDir()

	g, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := g.Release(); err != nil {
		t.Fatalf("second release should be a no-op: %v", err)
	}
}

func TestAcquireReclaimsStalePidFile(t *testing.T) {
	dir := t.TempDir()

	// A pid that almost certainly names no live process
	path := PidPath(dir, "tasknapd")
	if err := os.WriteFile(path, []byte("999999999"), 0644); err != nil {
		t.Fatalf("write stale file: %v", err)
	}

	g, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("expected stale file to be reclaimed, got %v", err)
	}
	defer g.Release()

	pid, err := ReadPid(dir, "tasknapd")
	if err != nil {
		t.Fatalf("read pid: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("expected reclaimed file to carry pid %d, got %d", os.Getpid(), pid)
	}
}

func TestAcquireReclaimsGarbagePidFile(t *testing.T) {
	dir := t.TempDir()

	path := PidPath(dir, "tasknapd")
	if err := os.WriteFile(path, []byte("not-a-pid"), 0644); err != nil {
		t.Fatalf("write garbage file: %v", err)
	}

	g, err := Acquire(dir, "tasknapd")
	if err != nil {
		t.Fatalf("expected garbage file to be reclaimed, got %v", err)
	}
	g.Release()
}

func TestReadPidMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadPid(dir, "tasknapd"); err == nil {
		t.Fatal("expected an error for a missing pid file")
	}
}

func TestReadPidRejectsNonPositive(t *testing.T) {
	dir := t.TempDir()
	path := PidPath(dir, "tasknapd")
	if err := os.WriteFile(path, []byte("0"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadPid(dir, "tasknapd"); err == nil {
		t.Fatal("expected an error for pid 0")
	}
}

func TestProcessRunning(t *testing.T) {
	if !ProcessRunning(os.Getpid()) {
		t.Error("expected own pid to be running")
	}
	if ProcessRunning(999999999) {
		t.Error("expected pid 999999999 not to be running")
	}
}

func TestPidPath(t *testing.T) {
	got := PidPath("/var/run/tasknap", "tasknapd")
	want := "/var/run/tasknap/tasknapd.pid"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
