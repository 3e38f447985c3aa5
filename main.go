package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"thinky/auth"
	"thinky/chat"
	"thinky/config"
	"thinky/feed"
	"thinky/mood"
	"thinky/notifications"
	"thinky/provider"
	"thinky/storage"
	"thinky/ui"
)

const Version = "v0.01.00"

// providerError marks a failure to build the completion provider, which gets
// a modal instead of a plain message.
type providerError struct {
	name string
	err  error
}

func (e *providerError) Error() string {
	return fmt.Sprintf("set up %s provider: %v", e.name, e.err)
}

func (e *providerError) Unwrap() error { return e.err }

// showError runs a single error modal until dismissed.
func showError(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// buildDeps opens storage and assembles everything the UI drives. The
// returned cleanup closes the chat session and the store. On error nothing
// is left open.
func buildDeps(cfg *config.Config) (ui.Deps, func(), error) {
	kv, err := storage.Open(cfg.StorageBackend, cfg.DataDir())
	if err != nil {
		return ui.Deps{}, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	closeStore := func() {
		if err := kv.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to close storage: %v", err)
		}
	}

	seed, err := feed.Seed()
	if err != nil {
		closeStore()
		return ui.Deps{}, nil, fmt.Errorf("failed to load feed: %w", err)
	}

	moods, err := mood.LoadCatalogue()
	if err != nil {
		closeStore()
		return ui.Deps{}, nil, fmt.Errorf("failed to load moods: %w", err)
	}

	accounts, err := auth.LoadAccounts(cfg.DataDir())
	if err != nil {
		closeStore()
		return ui.Deps{}, nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	p, err := provider.NewProvider(provider.Config{
		Type:    provider.MapProviderIDToType(cfg.Provider),
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey(),
	})
	if err != nil {
		closeStore()
		return ui.Deps{}, nil, &providerError{name: cfg.Provider, err: err}
	}

	session := auth.NewSession(accounts)
	conversation := chat.NewSession(p, chat.OptionsFromConfig(cfg), session.DisplayName())

	deps := ui.Deps{
		Auth:          session,
		Chat:          conversation,
		Feed:          feed.NewStore(kv, seed),
		Notifications: notifications.NewCenter(notifications.Seed()),
		Moods:         moods,
		Journal:       mood.NewJournal(kv, moods),
	}
	cleanup := func() {
		conversation.Close()
		closeStore()
	}
	return deps, cleanup, nil
}

func run() int {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println("thinky", Version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return 1
	}

	// Debug logging needs the data directory, so it starts after config
	config.InitDebugLog(cfg.DataDir())
	if config.DebugLog != nil {
		config.DebugLog.Printf("thinky %s: provider=%s model=%s storage=%s", Version, cfg.Provider, cfg.Model, cfg.StorageBackend)
	}

	ctx := context.Background()
	deps, cleanup, err := buildDeps(cfg)
	if err != nil {
		var pe *providerError
		if errors.As(err, &pe) {
			showError("Assistant unavailable", fmt.Sprintf(
				"Could not set up the %s provider:\n%v\n\n"+
					"Set the API key in the environment or a .env file,\n"+
					"or pick another provider in config.toml.",
				pe.name, pe.err))
			return 1
		}
		fmt.Println(err)
		return 1
	}
	defer cleanup()

	if _, err := tea.NewProgram(ui.NewApp(ctx, deps), tea.WithAltScreen()).Run(); err != nil {
		fmt.Printf("Error running thinky: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
