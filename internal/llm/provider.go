package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for completion-endpoint access.
// Consumers call Generate with a Request and receive the model's output.
type Provider interface {
	// Generate sends a prompt to the model and returns its response.
	// When the request's Schema is set, the provider asks for JSON
	// conforming to that schema through its native structured-output
	// mechanism and validates the result before returning it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Sets the model's role.
	System string

	// Messages is the conversation history. Every tinysteps feature sends
	// exactly one user message carrying the full prompt.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When nil, Content holds the raw text of the reply.
	Schema *Schema

	// MaxTokens is the ceiling on generated tokens.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// UserRequest is shorthand for the single-message requests used everywhere
// in this codebase.
func UserRequest(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "homework-grading".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated text. With a Schema it is the validated JSON
	// object; without one it is whatever text the model produced.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to StopEnd or StopMaxTokens.
	StopReason string
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Text returns Content as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
