// Package ai is the completion client shared by the lesson, grading and
// STEM features. It owns availability checks, per-feature model
// parameters, usage recording and the mapping of provider failures onto a
// small set of error kinds.
package ai

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/abhisek/tinysteps/internal/llm"
	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/usage"
)

const systemPrompt = "You are an experienced early childhood educator. Follow the output format exactly."

// Params are the model parameters used for one feature.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// DefaultParams returns the per-feature table. Generation runs warmer than
// grading and analysis.
func DefaultParams() map[usage.Feature]Params {
	return map[usage.Feature]Params{
		usage.FeatureLessonGeneration: {MaxTokens: 4000, Temperature: 0.7},
		usage.FeatureSTEMActivity:     {MaxTokens: 3000, Temperature: 0.7},
		usage.FeatureHomeworkGrading:  {MaxTokens: 2000, Temperature: 0.5},
		usage.FeatureProgressAnalysis: {MaxTokens: 2500, Temperature: 0.5},
	}
}

// Call is one logical completion request.
type Call struct {
	UserID   string
	TenantID string
	Feature  usage.Feature
	Prompt   string
	Schema   *llm.Schema
}

// Completion is a successful reply.
type Completion struct {
	Content    json.RawMessage
	TokensUsed int
	Model      string
}

// Client sends prompts to the configured provider. A Client built with a
// nil provider reports itself unavailable.
type Client struct {
	provider llm.Provider
	recorder *usage.Recorder
	params   map[usage.Feature]Params
	log      *logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithParams overrides the parameters of one feature.
func WithParams(f usage.Feature, p Params) ClientOption {
	return func(c *Client) { c.params[f] = p }
}

// WithLogger sets the client's logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

// NewClient builds a client. provider may be nil when no credential was
// found; recorder may be nil to skip usage recording.
func NewClient(provider llm.Provider, recorder *usage.Recorder, opts ...ClientOption) *Client {
	c := &Client{
		provider: provider,
		recorder: recorder,
		params:   DefaultParams(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether a provider is configured. Callers check it
// before building prompts; false is terminal.
func (c *Client) Available() bool {
	return c != nil && c.provider != nil
}

// ModelID returns the configured model, or "" when unavailable.
func (c *Client) ModelID() string {
	if !c.Available() {
		return ""
	}
	return c.provider.ModelID()
}

// Recorder returns the usage recorder, which may be nil.
func (c *Client) Recorder() *usage.Recorder {
	if c == nil {
		return nil
	}
	return c.recorder
}

// Complete performs one completion call and records its token usage.
func (c *Client) Complete(ctx context.Context, call Call) (*Completion, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}

	p, ok := c.params[call.Feature]
	if !ok {
		p = Params{MaxTokens: 2000, Temperature: 0.5}
	}
	req := llm.UserRequest(systemPrompt, call.Prompt)
	req.Schema = call.Schema
	req.MaxTokens = p.MaxTokens
	req.Temperature = p.Temperature

	ctx = llm.WithPurpose(ctx, string(call.Feature))
	ctx = llm.WithTenant(ctx, call.TenantID)

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.log.Warn("completion failed", "feature", call.Feature, "tenant_id", call.TenantID, "error", err)
		return nil, classify(err)
	}

	if c.recorder != nil {
		c.recorder.Record(call.UserID, call.TenantID, call.Feature, resp.Usage.TotalTokens)
	}
	return &Completion{
		Content:    resp.Content,
		TokensUsed: resp.Usage.TotalTokens,
		Model:      resp.Model,
	}, nil
}

// Generate completes call and decodes the reply into T.
func Generate[T any](ctx context.Context, c *Client, call Call) (*T, error) {
	comp, err := c.Complete(ctx, call)
	if err != nil {
		return nil, err
	}
	return Decode[T](comp.Content, call.Schema)
}

// classify maps a provider error onto an error kind.
func classify(err error) error {
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		if inv.Reason == llm.ReasonSchema {
			return &Error{Kind: KindInvalidShape, Message: "Response did not match the expected format", Err: err}
		}
		return &Error{Kind: KindParse, Message: "Invalid response format", Err: err}
	}
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return &Error{Kind: KindParse, Message: "Invalid response format", Err: err}
	}
	return &Error{Kind: KindTransport, Message: "AI request failed", Err: err}
}
