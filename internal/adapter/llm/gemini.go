package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiModel calls the Gemini API through the official SDK.
type GeminiModel struct {
	models *genai.Models
	model  string
}

func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiModel{models: client.Models, model: model}, nil
}

func (g *GeminiModel) Name() string {
	return "gemini/" + g.model
}

func (g *GeminiModel) Generate(ctx context.Context, parts []Part, opts CallOptions) (string, error) {
	config := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		temp := float32(opts.Temperature)
		config.Temperature = &temp
	}
	if opts.JSON {
		config.ResponseMIMEType = "application/json"
	}

	result, err := g.models.GenerateContent(ctx, g.model, buildGeminiContents(parts), config)
	if err != nil {
		return "", &ErrProviderUnavailable{Provider: "gemini", Err: err}
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func buildGeminiContents(parts []Part) []*genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			out = append(out, &genai.Part{InlineData: &genai.Blob{MIMEType: p.MIMEType, Data: p.Data}})
			continue
		}
		out = append(out, &genai.Part{Text: p.Text})
	}
	return []*genai.Content{{Role: "user", Parts: out}}
}
