package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	api "github.com/ollama/ollama/api"
)

// Ollama is a Completer backed by an Ollama server
type Ollama struct {
	client      *api.Client
	model       string
	temperature float64
}

// NewOllama creates a new Ollama client for the given model. baseURL defaults
// to the local Ollama instance when empty. Temperature defaults to 0 for
// deterministic sampling and can be changed with SetTemperature.
func NewOllama(model, baseURL string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 120 * time.Second,
	}

	return &Ollama{
		client:      api.NewClient(parsedURL, hc),
		model:       model,
		temperature: 0.0,
	}, nil
}

// SetTemperature overrides the default deterministic sampling temperature
func (o *Ollama) SetTemperature(temperature float64) {
	o.temperature = temperature
}

// Complete sends the messages to the model and returns the full response text
func (o *Ollama) Complete(ctx context.Context, messages []Message) (string, error) {
	apiMessages := make([]api.Message, 0, len(messages))
	for _, m := range messages {
		msg := api.Message{
			Role:    m.Role,
			Content: m.Content,
		}
		for _, img := range m.Images {
			msg.Images = append(msg.Images, api.ImageData(img))
		}
		apiMessages = append(apiMessages, msg)
	}

	stream := false
	var content string

	err := o.client.Chat(ctx, &api.ChatRequest{
		Model:    o.model,
		Messages: apiMessages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": o.temperature,
		},
	}, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to chat with ollama: %w", err)
	}

	return content, nil
}
