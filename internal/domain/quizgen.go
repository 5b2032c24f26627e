package domain

import (
	"context"
	"strings"
)

// Source is the material questions are generated from: either a document
// (Data with its MIME type) or pasted text.
type Source struct {
	Data     []byte
	MIMEType string
	Text     string
}

func (s Source) HasDocument() bool {
	return len(s.Data) > 0 && s.MIMEType != ""
}

func (s Source) HasText() bool {
	return strings.TrimSpace(s.Text) != ""
}

// Check returns ErrNoSource when neither variant is usable.
func (s Source) Check() error {
	if !s.HasDocument() && !s.HasText() {
		return ErrNoSource
	}
	return nil
}

// QuestionGenerator asks a model for new questions about a source.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, src Source, count int) ([]QuestionDraft, error)
}
