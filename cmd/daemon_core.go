package cmd

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/tasknap/tasknap/common"
	"github.com/tasknap/tasknap/internal/api"
	"github.com/tasknap/tasknap/internal/config"
	"github.com/tasknap/tasknap/internal/instance"
	"github.com/tasknap/tasknap/internal/journal"
	"github.com/tasknap/tasknap/internal/scheduler"
	"github.com/tasknap/tasknap/internal/server"
	"github.com/tasknap/tasknap/internal/token"
	"github.com/tasknap/tasknap/internal/watchdog"
	"github.com/tasknap/tasknap/pkg/logger"
)

const (
	// daemonProcName is the base name of the daemon pid file.
	daemonProcName = "tasknapd"

	journalFileName = "journal.db"
	logFileName     = "tasknap.log"
)

// DaemonComponents holds all initialized daemon components.
// This allows for unified initialization and cleanup across
// console mode and Windows service mode.
type DaemonComponents struct {
	Guard    *instance.Guard
	Config   *config.Store
	Journal  *journal.Store
	Sched    *scheduler.Scheduler
	Watchdog *watchdog.Watchdog
	Api      *api.Api
	Server   *server.Server

	logger    logger.Logger
	stdLogger interface{ Println(v ...interface{}) }
	fileLog   *logger.FileLogger

	loopCancel context.CancelFunc
	stopOnce   sync.Once
	stopFn     func()
}

// SetStopFunc installs the callback the stop-daemon socket method uses
// to terminate the serving loop. Must be called before the server
// starts accepting connections.
func (c *DaemonComponents) SetStopFunc(fn func()) {
	c.stopFn = fn
}

// requestStop fires the stop callback at most once. A request arriving
// before SetStopFunc is dropped.
func (c *DaemonComponents) requestStop() {
	if c.stopFn != nil {
		c.stopOnce.Do(c.stopFn)
	}
}

// Close releases all daemon component resources in reverse order of initialization.
// This ensures proper cleanup regardless of how the daemon was started.
func (c *DaemonComponents) Close() {
	if c.stdLogger != nil {
		c.stdLogger.Println("Shutting down daemon...")
	}

	// Stop the scheduler and watchdog loops
	if c.loopCancel != nil {
		c.loopCancel()
	}

	// Pending events are not persisted; say so instead of dropping them silently
	if c.Sched != nil {
		if n := c.Sched.Len(); n > 0 && c.stdLogger != nil {
			c.stdLogger.Println("Discarding", n, "pending event(s)")
		}
	}

	// Close API (flushes and closes the journal)
	if c.Api != nil {
		_ = c.Api.Close()
	}

	// Release the single-instance guard
	if c.Guard != nil {
		_ = c.Guard.Release()
	}

	if c.stdLogger != nil {
		c.stdLogger.Println("Daemon stopped")
	}

	if c.fileLog != nil {
		_ = c.fileLog.Close()
	}
}

// initDaemonComponents initializes all daemon components with the provided logger.
// This is the shared initialization used by both console mode and Windows service mode.
// Returns the initialized components or an error if initialization fails.
//
// On error, any partially initialized components are cleaned up before returning.
// A nil rpcCfg builds the JSON-RPC bridge from the settings file; tests
// inject their own config here.
var initDaemonComponents = func(log logger.Logger, rpcCfg *server.RPCConfig) (*DaemonComponents, error) {
	// Load settings
	cfg, err := config.NewDefault()
	if err != nil {
		log.Error("Config initialization failed: %v", err)
		return nil, err
	}
	dir := filepath.Dir(cfg.Path())

	// Attach the file log when enabled; losing it is not fatal
	var fileLog *logger.FileLogger
	if cfg.LoggingEnabled() {
		fl, err := logger.NewFileLogger(afero.NewOsFs(), filepath.Join(dir, logFileName))
		if err != nil {
			log.Warning("File log unavailable: %v", err)
		} else {
			fileLog = fl
			log = logger.NewMultiLogger(log, fl)
		}
	}
	stdLog := logger.ToStdLogger(log)

	// Enforce single instance
	guard, err := instance.Acquire(dir, daemonProcName)
	if err != nil {
		log.Error("Single-instance check failed: %v", err)
		if fileLog != nil {
			_ = fileLog.Close()
		}
		return nil, err
	}

	// Open the event journal
	jrnl, err := journal.Open(filepath.Join(dir, journalFileName))
	if err != nil {
		log.Error("Journal initialization failed: %v", err)
		_ = guard.Release()
		if fileLog != nil {
			_ = fileLog.Close()
		}
		return nil, err
	}

	pool := server.NewPool(stdLog)
	notifier := api.NewPoolNotifier(pool, nil)

	// Scheduler and watchdog loops run until the components close
	loopCtx, loopCancel := context.WithCancel(context.Background())
	sched := scheduler.New(loopCtx, scheduler.Deps{
		Notifier: notifier,
		Journal:  jrnl,
		Config:   cfg,
		Log:      log,
	})

	components := &DaemonComponents{}
	shutdown := func() { components.requestStop() }

	// Create API
	s, err := api.NewApi(stdLog, sched, jrnl, cfg, shutdown,
		currentBuildArgs.Version, currentBuildArgs.Commit, currentBuildArgs.BuildType)
	if err != nil {
		log.Error("API initialization failed: %v", err)
		loopCancel()
		_ = jrnl.Close()
		_ = guard.Release()
		if fileLog != nil {
			_ = fileLog.Close()
		}
		return nil, err
	}

	// JSON-RPC bridge, opt-in via rpc.enable
	if rpcCfg == nil {
		rpcCfg, err = buildRPCConfig(cfg, dir)
		if err != nil {
			log.Error("RPC token initialization failed: %v", err)
			loopCancel()
			_ = jrnl.Close()
			_ = guard.Release()
			if fileLog != nil {
				_ = fileLog.Close()
			}
			return nil, err
		}
	}
	var rpc *server.RPCServer
	if rpcCfg != nil && rpcCfg.Secret != "" {
		rpc = server.NewRPCServer(stdLog, rpcCfg, sched, s.Status)
		notifier.SetRPC(rpc.Notifier())
	}

	wd := watchdog.New(loopCtx, watchdog.Deps{
		Scheduler: sched,
		Config:    cfg,
		Log:       log,
	})

	// Create server
	web := server.NewWebServer(stdLog, pool, cfg.WebPort())
	serv := server.NewServer(stdLog, pool, common.DefaultTCPPort, web, rpc)
	s.RegisterHandlers(serv)

	components.Guard = guard
	components.Config = cfg
	components.Journal = jrnl
	components.Sched = sched
	components.Watchdog = wd
	components.Api = s
	components.Server = serv
	components.logger = log
	components.stdLogger = stdLog
	components.fileLog = fileLog
	components.loopCancel = loopCancel
	return components, nil
}

// buildRPCConfig assembles the JSON-RPC bridge settings, minting the
// bearer token on first use. Returns nil when RPC is disabled.
func buildRPCConfig(cfg *config.Store, dir string) (*server.RPCConfig, error) {
	if !cfg.RPCEnabled() {
		return nil, nil
	}
	tok, err := token.NewStore(dir).Load()
	if err != nil {
		return nil, err
	}
	return &server.RPCConfig{
		Secret:    tok,
		Port:      cfg.RPCPort(),
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
	}, nil
}
