// Package mainconfig loads the top-level config.toml (distinct from the
// per-game configuration) holding the single data-path setting, creating it
// with a platform-default value on first run.
package mainconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration: where per-game data directories
// live.
type Config struct {
	DataPath string `toml:"data-path"`
}

// DefaultPath returns the platform config directory's stool/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("mainconfig: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "stool", "config.toml"), nil
}

// defaultDataPath places a "stool" directory beside the platform's user
// cache directory (in its parent), e.g. ~/stool when the cache dir is
// ~/.cache.
func defaultDataPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("mainconfig: resolve data dir: %w", err)
	}
	return filepath.Join(filepath.Dir(dir), "stool"), nil
}

// LoadOrCreate reads path. If it does not exist, a default Config is
// constructed, written to path, and returned.
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		dataPath, err := defaultDataPath()
		if err != nil {
			return nil, err
		}
		cfg := &Config{DataPath: dataPath}
		if err := writeConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("mainconfig: stat %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("mainconfig: decode %s: %w", path, err)
	}
	return &cfg, nil
}

func writeConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mainconfig: mkdir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mainconfig: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("mainconfig: encode %s: %w", path, err)
	}
	return nil
}
