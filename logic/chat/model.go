package chat

import (
	"context"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"contractflow/vars"
)

// CreateChatModel builds the chat model for the configured provider.
func CreateChatModel(ctx context.Context, provider, modelName string) model.ToolCallingChatModel {
	switch provider {
	case vars.ProviderOpenAI:
		chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  vars.OPENAI_KEY,
			BaseURL: vars.OPENAI_URL,
			Model:   modelName,
		})
		if err != nil {
			log.Fatalf("create openai chat model failed: %v", err)
		}
		return chatModel
	default:
		chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: vars.OLLAMA_PATH,
			Model:   modelName,
		})
		if err != nil {
			log.Fatalf("create ollama chat model failed: %v", err)
		}
		return chatModel
	}
}

// Generate runs a single completion with a call-scoped timeout and returns the
// raw response text. Failures come back already classified.
func Generate(ctx context.Context, m model.ToolCallingChatModel, prompt string, timeout time.Duration, opts ...model.Option) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := m.Generate(callCtx, []*schema.Message{
		schema.UserMessage(prompt),
	}, opts...)
	if err != nil {
		return "", Classify("chat completion", err)
	}
	return resp.Content, nil
}
