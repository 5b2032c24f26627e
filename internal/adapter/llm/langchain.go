package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainModel adapts any langchaingo llms.Model. It serves the Ollama
// and OpenAI providers.
type LangchainModel struct {
	llm      llms.Model
	provider string
	model    string
}

func NewLangchainModel(llm llms.Model, provider, model string) *LangchainModel {
	return &LangchainModel{llm: llm, provider: provider, model: model}
}

// NewOllamaModel connects to a local Ollama server.
func NewOllamaModel(serverURL, model string, timeout time.Duration) (*LangchainModel, error) {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return NewLangchainModel(llm, "ollama", model), nil
}

func NewOpenAIModel(apiKey, model string) (*LangchainModel, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLangchainModel(llm, "openai", model), nil
}

func (m *LangchainModel) Name() string {
	return m.provider + "/" + m.model
}

func (m *LangchainModel) Generate(ctx context.Context, parts []Part, opts CallOptions) (string, error) {
	content := make([]llms.ContentPart, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			content = append(content, llms.BinaryPart(p.MIMEType, p.Data))
			continue
		}
		content = append(content, llms.TextPart(p.Text))
	}
	messages := []llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: content}}

	callOpts := []llms.CallOption{}
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if opts.JSON {
		callOpts = append(callOpts, llms.WithJSONMode())
	}

	resp, err := m.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", &ErrProviderUnavailable{Provider: m.provider, Err: err}
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
