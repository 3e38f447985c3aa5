package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type AssistantConfig struct {
	Provider     string  `toml:"provider"`
	Model        string  `toml:"model"`
	BaseURL      string  `toml:"base_url,omitempty"`
	SystemPrompt string  `toml:"system_prompt"`
	MaxTokens    int64   `toml:"max_tokens"`
	Temperature  float64 `toml:"temperature"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
}

type UserConfig struct {
	Assistant AssistantConfig `toml:"assistant"`
	Storage   StorageConfig   `toml:"storage"`
}

type Config struct {
	DataDirectory  string
	Provider       string
	Model          string
	BaseURL        string
	SystemPrompt   string
	MaxTokens      int64
	Temperature    float64
	StorageBackend string
}

var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// APIKey returns the key for the configured provider from the environment.
// Ollama needs none.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "openrouter":
		return os.Getenv("OPENROUTER_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

func (c *Config) applyUserConfig(u *UserConfig) {
	if u.Assistant.Provider != "" {
		c.Provider = u.Assistant.Provider
	}
	if u.Assistant.Model != "" {
		c.Model = u.Assistant.Model
	}
	c.BaseURL = u.Assistant.BaseURL
	if u.Assistant.SystemPrompt != "" {
		c.SystemPrompt = u.Assistant.SystemPrompt
	}
	if u.Assistant.MaxTokens > 0 {
		c.MaxTokens = u.Assistant.MaxTokens
	}
	// u starts from the defaults, so an explicit 0 is a real choice
	c.Temperature = u.Assistant.Temperature
	if u.Storage.Backend != "" {
		c.StorageBackend = u.Storage.Backend
	}
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("THINKY_PROVIDER"); p != "" {
		c.Provider = p
	}
	if m := os.Getenv("THINKY_MODEL"); m != "" {
		c.Model = m
	}
	if dataDir := os.Getenv("THINKY_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if backend := os.Getenv("THINKY_STORAGE"); backend != "" {
		c.StorageBackend = backend
	}
}

// LoadDotEnv reads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	if !FileExists(".env") {
		return
	}
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
}

func CheckDebug() bool {
	debug := os.Getenv("THINKY_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: may contain conversation text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (THINKY_DEBUG=%s) ===", os.Getenv("THINKY_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Default returns the built-in configuration before any file or env is applied.
func Default() *Config {
	u := DefaultUserConfig()
	return &Config{
		DataDirectory:  DefaultSystemConfig().DataDirectory,
		Provider:       u.Assistant.Provider,
		Model:          u.Assistant.Model,
		SystemPrompt:   u.Assistant.SystemPrompt,
		MaxTokens:      u.Assistant.MaxTokens,
		Temperature:    u.Assistant.Temperature,
		StorageBackend: u.Storage.Backend,
	}
}

// Load resolves configuration in order: defaults, settings files, environment.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := Default()

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	cfg.DataDirectory = systemCfg.DataDirectory
	if dataDir := os.Getenv("THINKY_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	userCfg, err := LoadUserConfig(cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	cfg.applyUserConfig(userCfg)
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
