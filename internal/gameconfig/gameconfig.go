// Package gameconfig loads and validates the per-game TOML configuration
// file and compiles its glob lists into filter.Matchers eagerly, so a
// malformed pattern fails at load time rather than at first sync.
package gameconfig

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arkveil/stool/internal/filter"
)

// ErrDuplicateSaveDir is returned by Load when two save-dirs entries resolve
// to the same logical name. TOML's map decoding already rejects duplicate
// keys at the syntax level, so Load's check is a defensive restatement of
// the invariant; a Config built directly (e.g. in tests) is not checked.
var ErrDuplicateSaveDir = errors.New("gameconfig: duplicate save-dirs name")

// ErrEmptySaveFilePath is returned when a save-file entry has an empty path.
var ErrEmptySaveFilePath = errors.New("gameconfig: empty save-file path")

// rawSaveDir mirrors one entry of the on-disk save-dirs table.
type rawSaveDir struct {
	Path    string   `toml:"path"`
	Include []string `toml:"include"`
	Ignore  []string `toml:"ignore"`
}

type rawSaveFile struct {
	Path                string `toml:"path"`
	StagingSubdirectory string `toml:"staging-subdirectory"`
}

type rawAutoBackup struct {
	Enabled     bool   `toml:"enabled"`
	MinInterval uint64 `toml:"min-interval"`
}

type rawConfig struct {
	GraceTime        uint64                `toml:"grace-time"`
	CopyLatestToPath string                `toml:"copy-latest-to-path"`
	AutoBackup       rawAutoBackup         `toml:"auto-backup"`
	SaveDirs         map[string]rawSaveDir `toml:"save-dirs"`
	SaveFile         []rawSaveFile         `toml:"save-file"`
}

// SaveDir is a validated, compiled save-dirs entry.
type SaveDir struct {
	Name    string
	Path    string
	Include *filter.Matcher
	Ignore  *filter.Matcher
}

// SaveFile is a validated save-file entry.
type SaveFile struct {
	Path                string
	StagingSubdirectory string
}

// Config is the immutable, validated in-memory form of per-game
// configuration.
type Config struct {
	GraceTime             time.Duration
	CopyLatestToPath      string
	AutoBackupEnabled     bool
	AutoBackupMinInterval time.Duration
	SaveDirs              []SaveDir
	SaveFiles             []SaveFile
}

// Load decodes path as TOML, validates it, and compiles every glob list.
// SaveDirs is returned sorted by name so iteration order is deterministic
// even though the on-disk representation is an unordered table.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("gameconfig: decode %s: %w", path, err)
	}

	names := make([]string, 0, len(raw.SaveDirs))
	for name := range raw.SaveDirs {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]struct{}, len(names))
	saveDirs := make([]SaveDir, 0, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, ErrDuplicateSaveDir
		}
		seen[name] = struct{}{}

		entry := raw.SaveDirs[name]
		include, err := filter.Compile(entry.Include)
		if err != nil {
			return nil, fmt.Errorf("gameconfig: save-dirs.%s.include: %w", name, err)
		}
		ignore, err := filter.Compile(entry.Ignore)
		if err != nil {
			return nil, fmt.Errorf("gameconfig: save-dirs.%s.ignore: %w", name, err)
		}
		saveDirs = append(saveDirs, SaveDir{
			Name:    name,
			Path:    entry.Path,
			Include: include,
			Ignore:  ignore,
		})
	}

	saveFiles := make([]SaveFile, 0, len(raw.SaveFile))
	for _, sf := range raw.SaveFile {
		if sf.Path == "" {
			return nil, ErrEmptySaveFilePath
		}
		saveFiles = append(saveFiles, SaveFile{
			Path:                sf.Path,
			StagingSubdirectory: sf.StagingSubdirectory,
		})
	}

	return &Config{
		GraceTime:             time.Duration(raw.GraceTime) * time.Second,
		CopyLatestToPath:      raw.CopyLatestToPath,
		AutoBackupEnabled:     raw.AutoBackup.Enabled,
		AutoBackupMinInterval: time.Duration(raw.AutoBackup.MinInterval) * time.Second,
		SaveDirs:              saveDirs,
		SaveFiles:             saveFiles,
	}, nil
}
