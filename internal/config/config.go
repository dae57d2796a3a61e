// Package config reads and writes tasknap settings from an INI file.
// Keys use a dotted "section.key" form. Every read reloads the file, so
// a change made by the CLI is visible to the daemon's next poll without
// any signaling between the two.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// Dotted setting keys.
const (
	KeyNotifyEnable    = "notifications.enable"
	KeyNotifySeconds   = "notifications.secondsBefore"
	KeyLoggingEnable   = "logging.enable"
	KeyStartupEnable   = "startup.enable"
	KeyMinimizeToTray  = "ui.minimizeToTray"
	KeyAutoSleepEnable = "autoSleep.enable"
	KeyAutoSleepMins   = "autoSleep.timeoutMinutes"
	KeyRPCEnable       = "rpc.enable"
	KeyRPCPort         = "rpc.port"
	KeyWebPort         = "web.port"
)

// Built-in defaults, used when the file or key is absent.
const (
	DefaultNotifySeconds  = 30
	DefaultAutoSleepMins  = 30
	DefaultRPCPort        = 4218
	DefaultWebPort        = 4219
	defaultConfigFileName = "config.ini"
	defaultConfigDirName  = "tasknap"
)

// ConfigDirEnv is the environment variable name used to override the default configuration directory.
const ConfigDirEnv = "TASKNAP_CONFIG_DIR"

// clampRanges bounds integer settings. Values outside the range are
// clamped, not rejected, so a hand-edited file cannot wedge the daemon.
var clampRanges = map[string][2]int{
	KeyNotifySeconds: {5, 3600},
	KeyAutoSleepMins: {1, 480},
}

// Store reads and writes a single INI settings file.
type Store struct {
	fs   afero.Fs
	path string
}

// New returns a Store over the given filesystem and file path.
func New(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// NewDefault returns a Store over the OS filesystem at the standard
// config location (e.g. ~/.config/tasknap/config.ini).
func NewDefault() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return New(afero.NewOsFs(), filepath.Join(dir, defaultConfigFileName)), nil
}

// defaultDirOverride replaces platform config-dir resolution when set.
var defaultDirOverride string

// SetDefaultDir points the configuration directory at dir, creating it
// if needed. Tests use it to keep daemon state out of the real
// location.
func SetDefaultDir(dir string) error {
	if dir == "" {
		return errors.New("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return err
	}
	defaultDirOverride = abs
	return nil
}

// DefaultDir returns the tasknap configuration directory, creating it
// if needed. TASKNAP_CONFIG_DIR overrides the platform default.
func DefaultDir() (string, error) {
	if defaultDirOverride != "" {
		return defaultDirOverride, nil
	}
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create config dir: %w", err)
		}
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	dir := filepath.Join(base, defaultConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return dir, nil
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// load parses the current file contents. A missing file yields an empty
// document so all lookups fall back to their defaults.
func (s *Store) load() *ini.File {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return ini.Empty()
	}
	f, err := ini.Load(data)
	if err != nil {
		return ini.Empty()
	}
	return f
}

func splitKey(key string) (section, name string) {
	section, name, found := strings.Cut(key, ".")
	if !found {
		return "", key
	}
	return section, name
}

// GetBool returns the boolean value for a dotted key, or def when the
// key is absent or unparseable.
func (s *Store) GetBool(key string, def bool) bool {
	section, name := splitKey(key)
	k := s.load().Section(section).Key(name)
	return k.MustBool(def)
}

// GetInt returns the integer value for a dotted key, or def when the
// key is absent or unparseable. Keys with a registered range are
// clamped to it, including the default.
func (s *Store) GetInt(key string, def int) int {
	section, name := splitKey(key)
	v := s.load().Section(section).Key(name).MustInt(def)
	if r, ok := clampRanges[key]; ok {
		if v < r[0] {
			v = r[0]
		}
		if v > r[1] {
			v = r[1]
		}
	}
	return v
}

// GetString returns the string value for a dotted key, or def when absent.
func (s *Store) GetString(key string, def string) string {
	section, name := splitKey(key)
	k := s.load().Section(section).Key(name)
	if k.String() == "" {
		return def
	}
	return k.String()
}

// Set writes a single dotted key and persists the file.
// Unknown sections and keys are created as needed; values for other
// keys are preserved.
func (s *Store) Set(key, value string) error {
	f := s.load()
	section, name := splitKey(key)
	f.Section(section).Key(name).SetValue(value)

	var sb strings.Builder
	if _, err := f.WriteTo(&sb); err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings dir: %w", err)
		}
	}
	if err := afero.WriteFile(s.fs, s.path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Typed accessors used by the daemon's collaborators. Each re-reads the
// file so config edits apply to the very next decision point.

func (s *Store) NotifyEnabled() bool {
	return s.GetBool(KeyNotifyEnable, false)
}

func (s *Store) NotifyLeadSeconds() int {
	return s.GetInt(KeyNotifySeconds, DefaultNotifySeconds)
}

func (s *Store) LoggingEnabled() bool {
	return s.GetBool(KeyLoggingEnable, false)
}

func (s *Store) StartupEnabled() bool {
	return s.GetBool(KeyStartupEnable, false)
}

func (s *Store) MinimizeToTray() bool {
	return s.GetBool(KeyMinimizeToTray, false)
}

func (s *Store) AutoSleepEnabled() bool {
	return s.GetBool(KeyAutoSleepEnable, false)
}

func (s *Store) AutoSleepMinutes() int {
	return s.GetInt(KeyAutoSleepMins, DefaultAutoSleepMins)
}

func (s *Store) RPCEnabled() bool {
	return s.GetBool(KeyRPCEnable, false)
}

func (s *Store) RPCPort() int {
	return s.GetInt(KeyRPCPort, DefaultRPCPort)
}

func (s *Store) WebPort() int {
	return s.GetInt(KeyWebPort, DefaultWebPort)
}

// Keys returns every known dotted key, in display order.
// Used by the settings CLI to print the full snapshot.
func Keys() []string {
	return []string{
		KeyNotifyEnable,
		KeyNotifySeconds,
		KeyLoggingEnable,
		KeyStartupEnable,
		KeyMinimizeToTray,
		KeyAutoSleepEnable,
		KeyAutoSleepMins,
		KeyRPCEnable,
		KeyRPCPort,
		KeyWebPort,
	}
}

// Describe returns the current value of a dotted key rendered as a
// string, falling back to the built-in default.
func (s *Store) Describe(key string) string {
	switch key {
	case KeyNotifyEnable, KeyLoggingEnable, KeyStartupEnable,
		KeyMinimizeToTray, KeyAutoSleepEnable, KeyRPCEnable:
		return fmt.Sprintf("%t", s.GetBool(key, false))
	case KeyNotifySeconds:
		return fmt.Sprintf("%d", s.NotifyLeadSeconds())
	case KeyAutoSleepMins:
		return fmt.Sprintf("%d", s.AutoSleepMinutes())
	case KeyRPCPort:
		return fmt.Sprintf("%d", s.RPCPort())
	case KeyWebPort:
		return fmt.Sprintf("%d", s.WebPort())
	}
	return s.GetString(key, "")
}

// IsKnown reports whether key is one of the defined settings.
func IsKnown(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}
