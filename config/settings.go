package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// decodeOrCreate decodes path into into. A missing file is written from
// template and into keeps its defaults.
func decodeOrCreate(path, dir, template string, into any) error {
	if !FileExists(path) {
		if err := EnsureDir(dir); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		if err := os.WriteFile(path, []byte(template), 0600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	}
	if _, err := toml.DecodeFile(path, into); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if err := decodeOrCreate(settingsPath(), ConfigDir(), GenerateSystemConfigTemplate(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	if err := decodeOrCreate(userConfigPath(dataDir), dataDir, GenerateUserConfigTemplate(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveUserConfig replaces <dataDir>/config.toml with cfg.
func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	if err := EnsureDir(dataDir); err != nil {
		return fmt.Errorf("create %s: %w", dataDir, err)
	}

	f, err := os.OpenFile(userConfigPath(dataDir), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open user config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode user config: %w", err)
	}
	return nil
}
