package provider

import (
	"context"
	"fmt"
	"strings"

	"thinky/model"
	"thinky/ollama"
)

// OllamaProvider wraps ollama.Client to implement model.Provider.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. Defaults to "http://localhost:11434".
//   - model: The model name. Defaults to "llama3.1:latest".
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client}, nil
}

// Complete implements model.Provider. MaxTokens maps to num_predict.
func (p *OllamaProvider) Complete(ctx context.Context, req model.CompletionRequest) (string, error) {
	content, err := p.client.Chat(ctx, ConvertToOllamaMessages(req.Messages()), ollama.Options{
		NumPredict:  req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	reply := strings.TrimSpace(content)
	if reply == "" {
		return "", model.ErrEmptyReply
	}
	return reply, nil
}

// GetModel implements model.Provider.
func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// Ping implements model.Provider.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}
