package engine

import (
	"testing"
	"time"
)

func TestMakeBackupFilename(t *testing.T) {
	at := time.Date(2026, 7, 31, 14, 5, 9, 0, time.UTC)
	got := makeBackupFilename("Auto", at)
	want := "2026-07-31 14-05-09 Auto.7z"
	if got != want {
		t.Errorf("makeBackupFilename = %q, want %q", got, want)
	}
}
