package config

const DefaultSystemPrompt = "You are an assistant regarding mental well-being for students, helpful and concise."

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/thinky",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Assistant: AssistantConfig{
			Provider:     "openai",
			Model:        "gpt-4o-mini",
			SystemPrompt: DefaultSystemPrompt,
			MaxTokens:    500,
			Temperature:  0.5,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Thinky System Configuration
# Location: ~/.config/thinky/settings.toml
# This file uses TOML format: https://toml.io

# Directory where the feed store, accounts and user config live
data_directory = "~/.local/share/thinky"
`
}

func GenerateUserConfigTemplate() string {
	return `# Thinky User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[assistant]
# One of: openai, openrouter, anthropic, ollama
provider = "openai"

# Model identifier sent with every completion request
model = "gpt-4o-mini"

# Optional endpoint override (e.g. http://localhost:11434 for ollama)
# base_url = ""

system_prompt = "You are an assistant regarding mental well-being for students, helpful and concise."

# Reply token cap and sampling temperature
max_tokens = 500
temperature = 0.5

[storage]
# One of: sqlite, pebble, memory
backend = "sqlite"
`
}
