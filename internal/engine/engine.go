// Package engine is the backup engine coordinator: it spawns the watcher,
// worker, and scheduler, owns the shared state and request queue they
// communicate through, and orchestrates startup/shutdown including the
// optional exit backup and copy-latest-to-path policies.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arkveil/stool/internal/archive"
	"github.com/arkveil/stool/internal/gameconfig"
	"github.com/arkveil/stool/internal/pidlock"
	"github.com/arkveil/stool/internal/ui"
	"github.com/arkveil/stool/internal/watcher"
)

// Engine is the long-lived coordinator for one game's backup lifecycle.
// Construct with New, then call Run once; Run blocks until the engine has
// fully shut down.
type Engine struct {
	Name   string
	Config *gameconfig.Config
	Codec  *archive.Codec
	UI     ui.ProgressSink
	Log    zerolog.Logger

	dataDir    string
	stagingDir string
	backupsDir string
	pidPath    string

	state   *sharedState
	queue   *requestQueue
	watcher *watcher.Watcher
	lock    *pidlock.Handle

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New constructs an Engine for a single game. dataRoot/name is the data
// directory this engine owns.
func New(name string, cfg *gameconfig.Config, dataRoot string, codec *archive.Codec, sink ui.ProgressSink, log zerolog.Logger) *Engine {
	dataDir := filepath.Join(dataRoot, name)
	e := &Engine{
		Name:       name,
		Config:     cfg,
		Codec:      codec,
		UI:         sink,
		Log:        log,
		dataDir:    dataDir,
		stagingDir: filepath.Join(dataDir, "staging"),
		backupsDir: filepath.Join(dataDir, "backups"),
		pidPath:    filepath.Join(dataDir, "stool.pid"),
		state:      newSharedState(),
		queue:      newRequestQueue(),
		shutdownCh: make(chan struct{}),
	}
	e.state.autobackupEnabled.Store(cfg.AutoBackupEnabled)
	return e
}

// Run acquires the PID lock, spawns the watcher/worker/scheduler, and
// blocks until shutdown is requested (via ctx cancellation or the control
// surface's Shutdown), at which point it runs the shutdown sequence and
// returns.
func (e *Engine) Run(ctx context.Context) error {
	if err := os.MkdirAll(e.backupsDir, 0o755); err != nil {
		return fmt.Errorf("engine: create backups dir: %w", err)
	}

	lock, err := pidlock.Acquire(e.pidPath)
	if err != nil {
		return fmt.Errorf("engine: acquire lock: %w", err)
	}
	e.lock = lock
	defer e.lock.Release()

	if err := os.RemoveAll(e.stagingDir); err != nil {
		return fmt.Errorf("engine: clear staging: %w", err)
	}
	if err := os.MkdirAll(e.stagingDir, 0o755); err != nil {
		return fmt.Errorf("engine: create staging dir: %w", err)
	}

	e.watcher = &watcher.Watcher{
		SaveDirs:  toWatcherSaveDirs(e.Config.SaveDirs),
		SaveFiles: toWatcherSaveFiles(e.Config.SaveFiles),
		OnChange:  func() { e.state.lastChangeAt.Set(time.Now()) },
		Log:       e.Log,
	}
	if err := e.watcher.Start(ctx); err != nil {
		return fmt.Errorf("engine: start watcher: %w", err)
	}

	workerDone := make(chan struct{})
	schedulerDone := make(chan struct{})
	go func() { defer close(workerDone); e.runWorker() }()
	go func() { defer close(schedulerDone); e.runScheduler(ctx) }()

	e.state.setState(StateRunning)
	e.Log.Info().Str("game", e.Name).Msg("engine running")

	select {
	case <-ctx.Done():
		e.Shutdown()
	case <-e.shutdownCh:
	}

	e.state.setState(StateShuttingDown)
	e.Log.Info().Msg("engine shutting down")

	if e.shouldExitBackup() {
		e.Send(BackupRequest{Kind: RequestCreateBackup, ArchiveName: makeBackupFilename("Exit", time.Now())})
	}

	e.watcher.Stop()
	<-e.watcher.Done()

	e.queue.close()
	<-schedulerDone
	<-workerDone

	if e.Config.CopyLatestToPath != "" {
		if p, ok := e.state.latestBackup.Get(); ok {
			e.copyLatestBestEffort(p)
		}
	}

	if err := os.RemoveAll(e.stagingDir); err != nil {
		e.Log.Warn().Err(err).Msg("failed to remove staging directory on shutdown")
	}

	e.state.setState(StateShutDown)
	e.Log.Info().Msg("engine shut down")
	return nil
}

func (e *Engine) copyLatestBestEffort(latestPath string) {
	dst := filepath.Join(e.Config.CopyLatestToPath, filepath.Base(latestPath))
	if err := os.MkdirAll(e.Config.CopyLatestToPath, 0o755); err != nil {
		e.Log.Warn().Err(err).Msg("copy-latest-to-path: failed to create destination directory")
		return
	}
	in, err := os.Open(latestPath)
	if err != nil {
		e.Log.Warn().Err(err).Msg("copy-latest-to-path: failed to open latest backup")
		return
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		e.Log.Warn().Err(err).Msg("copy-latest-to-path: failed to create destination file")
		return
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		e.Log.Warn().Err(err).Msg("copy-latest-to-path: failed to copy latest backup")
	}
}

func toWatcherSaveDirs(dirs []gameconfig.SaveDir) []watcher.SaveDir {
	out := make([]watcher.SaveDir, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, watcher.SaveDir{Name: d.Name, Path: d.Path, Include: d.Include, Ignore: d.Ignore})
	}
	return out
}

func toWatcherSaveFiles(files []gameconfig.SaveFile) []watcher.SaveFile {
	out := make([]watcher.SaveFile, 0, len(files))
	for _, f := range files {
		out = append(out, watcher.SaveFile{Path: f.Path})
	}
	return out
}

// Control surface exposed to external UIs/CLI.

// State reports the engine's current lifecycle stage.
func (e *Engine) State() State { return e.state.State() }

// Shutdown sets the one-way shutdown latch. Safe to call more than once
// and from any goroutine.
func (e *Engine) Shutdown() {
	e.shutdownOnce.Do(func() {
		e.state.shutdown.Store(true)
		close(e.shutdownCh)
	})
}

// AutoBackupEnabled reports whether the scheduler is currently armed.
func (e *Engine) AutoBackupEnabled() bool { return e.state.autobackupEnabled.Load() }

// SetAutoBackup arms or disarms the scheduler.
func (e *Engine) SetAutoBackup(enabled bool) { e.state.autobackupEnabled.Store(enabled) }

// Send enqueues req. It is a silent no-op if the worker has already
// stopped (the queue is closed).
func (e *Engine) Send(req BackupRequest) {
	e.queue.push(envelope{id: uuid.NewString(), request: req, enqueuedAt: time.Now()})
}
