package gameconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
grace-time = 1
copy-latest-to-path = "/mnt/offsite"

[auto-backup]
enabled = true
min-interval = 60

[save-dirs.main]
path = "/home/user/game/saves"
ignore = ["*.log"]

[[save-file]]
path = "/home/user/game/settings.cfg"
staging-subdirectory = "config"
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	path := writeSample(t, sample)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GraceTime.Seconds() != 1 {
		t.Errorf("GraceTime = %v, want 1s", cfg.GraceTime)
	}
	if !cfg.AutoBackupEnabled || cfg.AutoBackupMinInterval.Seconds() != 60 {
		t.Errorf("auto-backup = %v/%v", cfg.AutoBackupEnabled, cfg.AutoBackupMinInterval)
	}
	if len(cfg.SaveDirs) != 1 || cfg.SaveDirs[0].Name != "main" {
		t.Fatalf("SaveDirs = %+v", cfg.SaveDirs)
	}
	if cfg.SaveDirs[0].Ignore == nil || !cfg.SaveDirs[0].Ignore.Match("noise.log") {
		t.Errorf("expected ignore matcher to match noise.log")
	}
	if len(cfg.SaveFiles) != 1 || cfg.SaveFiles[0].StagingSubdirectory != "config" {
		t.Fatalf("SaveFiles = %+v", cfg.SaveFiles)
	}
}

func TestLoadRejectsEmptySaveFilePath(t *testing.T) {
	path := writeSample(t, `
[[save-file]]
path = ""
`)
	if _, err := Load(path); err != ErrEmptySaveFilePath {
		t.Fatalf("Load = %v, want ErrEmptySaveFilePath", err)
	}
}

func TestLoadRejectsMalformedGlob(t *testing.T) {
	path := writeSample(t, `
[save-dirs.main]
path = "/x"
ignore = ["[unterminated"]
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed glob")
	}
}
