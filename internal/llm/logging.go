package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/store"
)

// LoggingProvider is a decorator that records every request as an event
// row and a structured log line.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      *logger.Logger
}

// WithLogging wraps a Provider with event logging. events may be nil, in
// which case only the log line is written.
func WithLogging(p Provider, providerName string, events store.EventRepo, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, provider: providerName, events: events, log: logger.OrNop(log)}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		TenantID:    TenantFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("completion request failed",
			"purpose", purpose, "model", data.Model, "latency_ms", data.LatencyMs, "error", err)
	} else {
		l.log.Debug("completion request",
			"purpose", purpose, "model", data.Model, "latency_ms", data.LatencyMs,
			"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
	}

	// A failed event write must not fail the request.
	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Warn("failed to record LLM request event", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(def)
			b.WriteString("\n")
		}
	}

	return b.String()
}
