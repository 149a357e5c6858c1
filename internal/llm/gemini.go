package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// GeminiProvider implements Provider on the Gemini API.
type GeminiProvider struct {
	models *genai.Models
	model  string
}

// NewGeminiProvider creates a Gemini provider. Friendly model names such as
// "gemini-flash" are resolved; anything else is sent as given.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiProvider{
		models: client.Models,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	result, err := p.models.GenerateContent(ctx, p.model, geminiContents(req.Messages), geminiConfig(req))
	if err != nil {
		return nil, mapGeminiError(err)
	}
	return geminiResponse(req.Schema, p.model, result)
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// geminiConfig carries the request options. A schema switches the reply to
// JSON mode with the schema as a response constraint.
func geminiConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = geminiSchema(req.Schema.Definition)
	}
	return cfg
}

func geminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out
}

// geminiResponse normalizes a reply. Thinking tokens are billed as output,
// so they count toward OutputTokens.
func geminiResponse(schema *Schema, model string, result *genai.GenerateContentResponse) (*Response, error) {
	stop := geminiStopReason(result)
	content, err := structuredContent(schema, json.RawMessage(result.Text()), stop)
	if err != nil {
		return nil, err
	}

	resp := &Response{Content: content, Model: model, StopReason: stop}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount + u.ThoughtsTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

// geminiSchema converts a JSON Schema definition into the subset Gemini
// accepts. Unknown types fall back to string.
func geminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{
		Description: stringField(def, "description"),
		Required:    stringList(def["required"]),
		Enum:        stringList(def["enum"]),
	}
	if t, ok := def["type"].(string); ok {
		s.Type = genai.TypeString
		if gt, ok := geminiTypes[t]; ok {
			s.Type = gt
		}
	}
	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, v := range props {
			if prop, ok := v.(map[string]any); ok {
				s.Properties[name] = geminiSchema(prop)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = geminiSchema(items)
	}
	return s
}

func stringField(def map[string]any, key string) string {
	v, _ := def[key].(string)
	return v
}

// stringList accepts both []any, as decoded from JSON, and []string.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		var out []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func geminiStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return StopMaxTokens
	}
	return StopEnd
}

// mapGeminiError classifies SDK errors. The SDK returns APIError by value.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return mapHTTPStatus(apiErr.Code, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
