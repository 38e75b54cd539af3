// Package paths resolves where poneglyph keeps its configuration and its
// game database.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "poneglyph"

// ConfigFileName is the config file looked up inside the config directory.
const ConfigFileName = "config.yaml"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// overrides it.
const DefaultDataDirName = ".poneglyph-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PONEGLYPH_CONFIG_DIR"
	EnvDataDir   = "PONEGLYPH_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns $xdgVar/poneglyph on Linux, falling back to
// ~/<home...>/poneglyph. Other platforms use os.UserConfigDir.
func userDir(xdgVar string, home ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	h, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{h}, home...), AppName)...), nil
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/poneglyph (fallback ~/.config/poneglyph)
// macOS:   ~/Library/Application Support/poneglyph
// Windows: %APPDATA%/poneglyph
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/poneglyph (fallback ~/.local/share/poneglyph)
// Elsewhere the config directory is reused.
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c != "" {
			p, err := filepath.Abs(c)
			return p, true, err
		}
	}
	return "", false, nil
}

// ResolveConfigDir applies flag > PONEGLYPH_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if p, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return p, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml data_dir > PONEGLYPH_DATA_DIR >
// $(CWD)/.poneglyph-db. A game lives next to the directory it was started
// in unless told otherwise.
func ResolveDataDir(flag, configValue string) (string, error) {
	if p, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return p, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ConfigFile returns the config file path inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
