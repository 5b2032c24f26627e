package llm

import (
	"context"
	"errors"
	"fmt"
)

// Part is one piece of a prompt: text, or inline binary data such as an
// uploaded PDF or image.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

func TextPart(s string) Part {
	return Part{Text: s}
}

func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

func (p Part) IsBlob() bool {
	return len(p.Data) > 0
}

// CallOptions tunes a single Generate call.
type CallOptions struct {
	Temperature float64
	// JSON asks the provider to reply with a JSON document only.
	JSON bool
}

// Model is a text generation backend shared by the evaluation and
// generation gateways.
type Model interface {
	Generate(ctx context.Context, parts []Part, opts CallOptions) (string, error)
	Name() string
}

// ErrNotConfigured is returned by NewModel when the selected provider has
// no credential.
var ErrNotConfigured = errors.New("llm: model is not configured")

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// refused the request.
type ErrProviderUnavailable struct {
	Provider string
	Err      error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s provider unavailable", e.Provider)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrEmptyResponse is returned when the model answered with no text.
var ErrEmptyResponse = errors.New("llm: empty response")
