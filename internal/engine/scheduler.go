package engine

import (
	"context"
	"time"
)

// runScheduler runs a 1s ticker that enqueues an Auto
// CreateBackup when change/interval conditions are all met. laa
// (last-autobackup-at) is scheduler-local state, not part of sharedState.
func (e *Engine) runScheduler(ctx context.Context) {
	var laa time.Time
	var laaSet bool

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}

		if e.state.shutdown.Load() {
			return
		}

		if e.autoBackupDue(laa, laaSet) {
			now := time.Now()
			laa = now
			laaSet = true
			e.Send(BackupRequest{Kind: RequestCreateBackup, ArchiveName: makeBackupFilename("Auto", now)})
		}
	}
}

// autoBackupDue evaluates the four skip conditions against the current
// shared state. laa/laaSet are the scheduler's own memory of its last fire,
// kept out of sharedState since no other goroutine reads it.
func (e *Engine) autoBackupDue(laa time.Time, laaSet bool) bool {
	if !e.state.autobackupEnabled.Load() {
		return false
	}
	if e.state.ongoing.Load() {
		return false
	}

	lba, lbaSet := e.state.lastBackupAt.Get()
	if laaSet && (!lbaSet || lba.Before(laa)) {
		return false // a prior auto-backup is still pending grace
	}

	lca, lcaSet := e.state.lastChangeAt.Get()
	if !lcaSet {
		return false // nothing has changed
	}
	if laaSet && !laa.Before(lca) {
		return false // changes already covered
	}
	if lbaSet && time.Now().Before(lba.Add(e.Config.AutoBackupMinInterval)) {
		return false // rate limit
	}

	return true
}
