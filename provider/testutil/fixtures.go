package testutil

import "thinky/model"

// TestHistory returns a sample exchange ending with a user turn
func TestHistory() []model.Turn {
	return []model.Turn{
		{Role: model.RoleAssistant, Content: "Hi! I'm ThinkyBot :)\n How can I assist you?"},
		{Role: model.RoleUser, Content: "I'm stressed about exams"},
		{Role: model.RoleAssistant, Content: "That's understandable. Want to try a short breathing exercise?"},
		{Role: model.RoleUser, Content: "Yes please"},
	}
}

// TestRequest wraps TestHistory with the default request settings
func TestRequest() model.CompletionRequest {
	return model.CompletionRequest{
		SystemPrompt: "You are an assistant regarding mental well-being for students, helpful and concise.",
		History:      TestHistory(),
		MaxTokens:    500,
		Temperature:  0.5,
	}
}
