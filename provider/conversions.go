package provider

import (
	"thinky/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// ConvertToOpenAIMessages maps turns onto the OpenAI message union.
// Unknown roles are sent as user messages.
func ConvertToOpenAIMessages(turns []model.Turn) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			result = append(result, openai.SystemMessage(t.Content))
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(t.Content))
		default:
			result = append(result, openai.UserMessage(t.Content))
		}
	}
	return result
}

// ConvertToAnthropicMessages splits turns into the message list and the
// system blocks; Anthropic carries the system prompt outside the messages.
func ConvertToAnthropicMessages(turns []model.Turn) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var system []anthropic.TextBlockParam
	msgs := make([]anthropic.MessageParam, 0, len(turns))

	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: t.Content})
		case model.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Content)))
		}
	}

	return msgs, system
}

// ConvertToOllamaMessages is a plain field mapping.
func ConvertToOllamaMessages(turns []model.Turn) []api.Message {
	result := make([]api.Message, len(turns))
	for i, t := range turns {
		result[i] = api.Message{
			Role:    string(t.Role),
			Content: t.Content,
		}
	}
	return result
}
