package engine

import (
	"testing"
	"time"

	"github.com/arkveil/stool/internal/gameconfig"
)

func newTestEngineForScheduler(minInterval time.Duration) *Engine {
	cfg := &gameconfig.Config{AutoBackupEnabled: true, AutoBackupMinInterval: minInterval}
	e := New("game", cfg, "/data", nil, nil, discardLogger())
	return e
}

func TestAutoBackupDueSkipsWhenDisabled(t *testing.T) {
	e := newTestEngineForScheduler(0)
	e.state.autobackupEnabled.Store(false)
	e.state.lastChangeAt.Set(time.Now())
	if e.autoBackupDue(time.Time{}, false) {
		t.Errorf("expected no auto-backup while disabled")
	}
}

func TestAutoBackupDueSkipsWithNoChange(t *testing.T) {
	e := newTestEngineForScheduler(0)
	if e.autoBackupDue(time.Time{}, false) {
		t.Errorf("expected no auto-backup with lastChangeAt unset")
	}
}

func TestAutoBackupDueSkipsWhileOngoing(t *testing.T) {
	e := newTestEngineForScheduler(0)
	e.state.lastChangeAt.Set(time.Now())
	e.state.ongoing.Store(true)
	if e.autoBackupDue(time.Time{}, false) {
		t.Errorf("expected no auto-backup while a request is in flight")
	}
}

func TestAutoBackupDueRateLimits(t *testing.T) {
	e := newTestEngineForScheduler(time.Minute)
	e.state.lastChangeAt.Set(time.Now())
	e.state.lastBackupAt.Set(time.Now())
	if e.autoBackupDue(time.Time{}, false) {
		t.Errorf("expected rate limit to block an immediate second auto-backup")
	}
}

func TestAutoBackupDueSkipsWhenChangeAlreadyCovered(t *testing.T) {
	e := newTestEngineForScheduler(0)
	changeAt := time.Now().Add(-time.Second)
	e.state.lastChangeAt.Set(changeAt)
	laa := time.Now()
	e.state.lastBackupAt.Set(laa)
	if e.autoBackupDue(laa, true) {
		t.Errorf("expected no auto-backup when laa already covers lastChangeAt")
	}
}

func TestAutoBackupDueFiresWhenEligible(t *testing.T) {
	e := newTestEngineForScheduler(0)
	e.state.lastChangeAt.Set(time.Now())
	if !e.autoBackupDue(time.Time{}, false) {
		t.Errorf("expected auto-backup to be due")
	}
}
