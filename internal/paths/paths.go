// Package paths resolves where deeds keeps its configuration and its ledger
// database.
//
// Both directories follow the same precedence: an explicit flag, then the
// config file value (data dir only), then an environment variable, then a
// project-local directory in the working directory if one exists, then the
// platform default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "deeds"

// Project-local directory names looked up in the working directory.
const (
	LocalConfigDirName = ".deeds"
	LocalDataDirName   = ".deeds-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "DEEDS_CONFIG_DIR"
	EnvDataDir   = "DEEDS_DATA_DIR"
)

// platform holds OS lookups that tests override.
var platform = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// xdgDir returns $xdgVar/deeds, falling back to ~/fallback/deeds on Linux,
// and os.UserConfigDir()/deeds everywhere else.
func xdgDir(xdgVar string, fallback ...string) (string, error) {
	if platform.goos != "linux" {
		dir, err := platform.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platform.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, fallback...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/deeds (fallback ~/.config/deeds)
// macOS:   ~/Library/Application Support/deeds
// Windows: %APPDATA%/deeds
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/deeds (fallback ~/.local/share/deeds)
// macOS and Windows share the config location.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir returns the configuration directory:
// flag > DEEDS_CONFIG_DIR > ./.deeds (if present) > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, EnvConfigDir, LocalConfigDirName, DefaultConfigDir)
}

// ResolveDataDir returns the data directory:
// flag > config value > DEEDS_DATA_DIR > ./.deeds-db (if present) >
// DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag == "" {
		flag = configValue
	}
	return resolve(flag, EnvDataDir, LocalDataDirName, DefaultDataDir)
}

func resolve(explicit, envVar, localName string, fallback func() (string, error)) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}
	if env := os.Getenv(envVar); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := platform.getwd()
	if err != nil {
		return "", err
	}
	local := filepath.Join(cwd, localName)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local, nil
	}
	return fallback()
}
