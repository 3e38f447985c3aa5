package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	settingsFile   = "settings.toml"
	userConfigFile = "config.toml"
)

// ConfigDir holds settings.toml. THINKY_CONFIG_DIR overrides ~/.config/thinky.
func ConfigDir() string {
	if dir := os.Getenv("THINKY_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".config", "thinky")
}

func settingsPath() string {
	return filepath.Join(ConfigDir(), settingsFile)
}

func userConfigPath(dataDir string) string {
	return filepath.Join(dataDir, userConfigFile)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return string(filepath.Separator)
	}
	return home
}

// ExpandPath resolves a leading ~/ and $VARS.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(homeDir(), rest)
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only access.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDataDirPermissions creates dataDir or tightens it to 0700.
func EnsureDataDirPermissions(dataDir string) error {
	info, err := os.Stat(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return EnsureDir(dataDir)
	}
	if err != nil {
		return err
	}
	if info.Mode().Perm() == 0700 {
		return nil
	}
	return os.Chmod(dataDir, 0700)
}
