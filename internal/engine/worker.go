package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arkveil/stool/internal/gameconfig"
	syncjob "github.com/arkveil/stool/internal/sync"
)

// runWorker is the single consumer of the request queue. It dispatches
// every dequeued request, logs and swallows any error so the engine stays
// alive, and returns once the queue is closed and drained.
func (e *Engine) runWorker() {
	for {
		env, ok := e.queue.pop()
		if !ok {
			return
		}

		e.state.ongoing.Store(true)
		log := e.Log.With().
			Str("request_id", env.id).
			Str("kind", env.request.Kind.String()).
			Str("archive", env.request.ArchiveName).
			Logger()

		var err error
		switch env.request.Kind {
		case RequestCreateBackup:
			err = e.createBackup(env.request.ArchiveName, log)
		case RequestRestoreBackup:
			err = e.restoreBackup(env.request.ArchiveName, log)
		}
		if err != nil {
			log.Error().Err(err).Msg("request failed")
		}
		e.state.ongoing.Store(false)
	}
}

// graceWait blocks until grace_time has elapsed since the last observed
// change, restarting the countdown if a new change lands while waiting.
func (e *Engine) graceWait() {
	for {
		lca, ok := e.state.lastChangeAt.Get()
		if !ok {
			return
		}
		remaining := e.Config.GraceTime - time.Since(lca)
		if remaining <= 0 {
			e.state.lastChangeAt.Clear()
			return
		}
		time.Sleep(remaining)
	}
}

func (e *Engine) stagingFileDir(sf gameconfig.SaveFile) string {
	if sf.StagingSubdirectory == "" {
		return e.stagingDir
	}
	return filepath.Join(e.stagingDir, sf.StagingSubdirectory)
}

// createBackup stages every save dir and save file into the staging directory, then packs it.
func (e *Engine) createBackup(archiveName string, log zerolog.Logger) error {
	e.graceWait()

	e.UI.BeginBackup(archiveName)
	success := false
	defer func() { e.UI.EndBackup(success) }()

	// Recorded before staging so a concurrent scheduler tick cannot
	// double-fire while this request is in flight.
	e.state.lastBackupAt.Set(time.Now())

	e.UI.BeginStaging(len(e.Config.SaveDirs) + len(e.Config.SaveFiles))
	for _, sd := range e.Config.SaveDirs {
		e.UI.BeginStage(sd.Name)
		err := e.stageSaveDir(sd, log)
		e.UI.EndStage()
		if err != nil {
			return err
		}
	}
	for _, sf := range e.Config.SaveFiles {
		if err := e.stageSaveFile(sf, log); err != nil {
			return err
		}
	}
	e.UI.EndStaging()

	archivePath := filepath.Join(e.backupsDir, archiveName)
	e.UI.BeginCompress()
	err := e.Codec.Pack(context.Background(), e.stagingDir, archivePath)
	e.UI.EndCompress()
	if err != nil {
		return fmt.Errorf("engine: pack archive: %w", err)
	}

	e.state.latestBackup.Set(archivePath)
	success = true
	return nil
}

func (e *Engine) stageSaveDir(sd gameconfig.SaveDir, log zerolog.Logger) error {
	stagingPath := filepath.Join(e.stagingDir, sd.Name)
	if _, err := os.Stat(sd.Path); os.IsNotExist(err) {
		log.Warn().Str("save_dir", sd.Name).Str("path", sd.Path).
			Msg("source directory missing, clearing staging subtree")
		if rmErr := os.RemoveAll(stagingPath); rmErr != nil {
			log.Error().Err(rmErr).Msg("failed to clear missing save-dir staging subtree")
		}
		return nil
	} else if err != nil {
		return fmt.Errorf("engine: stat save dir %s: %w", sd.Path, err)
	}
	if err := syncjob.Dir(sd.Path, stagingPath, sd.Include, sd.Ignore, false, e.UI); err != nil {
		return fmt.Errorf("engine: stage save dir %s: %w", sd.Name, err)
	}
	return nil
}

func (e *Engine) stageSaveFile(sf gameconfig.SaveFile, log zerolog.Logger) error {
	dstDir := e.stagingFileDir(sf)
	if _, err := os.Stat(sf.Path); os.IsNotExist(err) {
		log.Warn().Str("save_file", sf.Path).Msg("source file missing, clearing staging copy")
		staged := filepath.Join(dstDir, filepath.Base(sf.Path))
		if rmErr := os.Remove(staged); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Error().Err(rmErr).Msg("failed to clear missing save-file staging copy")
		}
		return nil
	} else if err != nil {
		return fmt.Errorf("engine: stat save file %s: %w", sf.Path, err)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("engine: mkdir staging for %s: %w", sf.Path, err)
	}
	if err := syncjob.File(sf.Path, dstDir, e.UI); err != nil {
		return fmt.Errorf("engine: stage save file %s: %w", sf.Path, err)
	}
	return nil
}

// restoreBackup restores every save dir and save file from an archive back onto the live tree.
func (e *Engine) restoreBackup(archiveName string, log zerolog.Logger) error {
	archivePath := filepath.Join(e.backupsDir, archiveName)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		log.Warn().Str("archive", archiveName).Msg("restore requested for archive that does not exist")
		return nil
	} else if err != nil {
		return fmt.Errorf("engine: stat archive %s: %w", archivePath, err)
	}

	e.UI.BeginRestore(archiveName)
	success := false
	defer func() { e.UI.EndRestore(success) }()

	if err := os.RemoveAll(e.stagingDir); err != nil {
		return fmt.Errorf("engine: clear staging: %w", err)
	}
	if err := os.MkdirAll(e.stagingDir, 0o755); err != nil {
		return fmt.Errorf("engine: recreate staging: %w", err)
	}

	e.UI.BeginExtract()
	err := e.Codec.Unpack(context.Background(), archivePath, e.stagingDir)
	e.UI.EndExtract()
	if err != nil {
		return fmt.Errorf("engine: unpack archive: %w", err)
	}

	for _, sd := range e.Config.SaveDirs {
		e.UI.BeginRestoreSP(sd.Name)
		err := e.restoreSaveDir(sd, log)
		e.UI.EndRestoreSP()
		if err != nil {
			return err
		}
	}
	for _, sf := range e.Config.SaveFiles {
		if err := e.restoreSaveFile(sf, log); err != nil {
			return err
		}
	}

	e.state.lastChangeAt.Clear()
	e.state.lastBackupAt.Set(time.Now())
	success = true
	return nil
}

func (e *Engine) restoreSaveDir(sd gameconfig.SaveDir, log zerolog.Logger) error {
	stagingPath := filepath.Join(e.stagingDir, sd.Name)
	if _, err := os.Stat(stagingPath); os.IsNotExist(err) {
		log.Warn().Str("save_dir", sd.Name).Msg("missing in backup, skipping restore")
		return nil
	} else if err != nil {
		return fmt.Errorf("engine: stat staging %s: %w", stagingPath, err)
	}
	if err := syncjob.Dir(stagingPath, sd.Path, sd.Include, sd.Ignore, true, e.UI); err != nil {
		return fmt.Errorf("engine: restore save dir %s: %w", sd.Name, err)
	}
	return nil
}

func (e *Engine) restoreSaveFile(sf gameconfig.SaveFile, log zerolog.Logger) error {
	srcDir := e.stagingFileDir(sf)
	srcPath := filepath.Join(srcDir, filepath.Base(sf.Path))
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		log.Warn().Str("save_file", sf.Path).Msg("missing in backup, skipping restore")
		return nil
	} else if err != nil {
		return fmt.Errorf("engine: stat staged save file %s: %w", srcPath, err)
	}
	dstDir := filepath.Dir(sf.Path)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("engine: mkdir live dir for %s: %w", sf.Path, err)
	}
	if err := syncjob.File(srcPath, dstDir, e.UI); err != nil {
		return fmt.Errorf("engine: restore save file %s: %w", sf.Path, err)
	}
	return nil
}

// shouldExitBackup decides whether an unsaved change needs one last backup before shutdown.
func (e *Engine) shouldExitBackup() bool {
	if e.state.ongoing.Load() {
		return false
	}
	lca, lcaSet := e.state.lastChangeAt.Get()
	if !lcaSet {
		return false
	}
	if lba, lbaSet := e.state.lastBackupAt.Get(); lbaSet && lba.After(lca) {
		return false
	}
	return true
}
