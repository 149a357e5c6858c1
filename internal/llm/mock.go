package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockText builds a successful canned response from a string.
func MockText(text string, totalTokens int) MockResponse {
	return MockResponse{
		Content: json.RawMessage(text),
		Usage:   Usage{TotalTokens: totalTokens},
	}
}

// MockProvider is a deterministic Provider for tests and for running the
// service without credentials. Responses come from Handler when set,
// otherwise from a FIFO queue. All requests are recorded.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request

	// Handler, when non-nil, computes the response from the request.
	// Concurrent callers (batch grading) get prompt-dependent answers
	// regardless of scheduling order.
	Handler func(Request) MockResponse
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// NewMockHandlerProvider creates a MockProvider driven by fn.
func NewMockHandlerProvider(fn func(Request) MockResponse) *MockProvider {
	return &MockProvider{Handler: fn}
}

// Generate returns the next canned response, or ErrProviderUnavailable if
// the queue is empty and no Handler is set.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case m.Handler != nil:
		h := m.Handler
		m.mu.Unlock()
		resp = h(req)
	case len(m.responses) == 0:
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	default:
		resp = m.responses[0]
		m.responses = m.responses[1:]
		m.mu.Unlock()
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	usage := resp.Usage
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{
		Content:    resp.Content,
		Usage:      usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or false if none was made.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return Request{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}
