package llm

import (
	"context"
	"sync"
	"time"
)

// MockResponse is a canned reply for MockModel.
type MockResponse struct {
	Text  string
	Err   error
	Delay time.Duration
}

// MockCall records one Generate invocation.
type MockCall struct {
	Parts []Part
	Opts  CallOptions
}

// MockModel replays canned responses in FIFO order and records every call.
// A Delay longer than the caller's deadline yields the context error.
type MockModel struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []MockCall
}

func NewMockModel(responses ...MockResponse) *MockModel {
	return &MockModel{responses: responses}
}

func (m *MockModel) Name() string { return "mock" }

func (m *MockModel) Generate(ctx context.Context, parts []Part, opts CallOptions) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Parts: parts, Opts: opts})
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return "", &ErrProviderUnavailable{Provider: "mock"}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Text, nil
}

func (m *MockModel) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
