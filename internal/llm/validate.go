package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// structuredContent is the last step of every adapter. With a schema the
// reply must be complete, and the JSON it embeds must validate; without one
// content is returned as is.
func structuredContent(schema *Schema, content json.RawMessage, stop string) (json.RawMessage, error) {
	if schema == nil {
		return content, nil
	}
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	content = ExtractJSON(content)
	if err := ValidateJSON(schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// ValidateJSON checks raw against schema. It returns nil when schema is nil
// or validation passes, and *ErrInvalidResponse otherwise, with Reason
// telling a parse failure apart from a shape mismatch.
func ValidateJSON(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &ErrInvalidResponse{
			Reason:  ReasonEmpty,
			Content: raw,
			Err:     errors.New("empty response"),
		}
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{
			Reason:  ReasonMalformed,
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{
			Reason:  ReasonSchema,
			Content: raw,
			Err:     fmt.Errorf("compile schema %q: %w", schema.Name, err),
		}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ErrInvalidResponse{
			Reason:  ReasonSchema,
			Content: raw,
			Err:     fmt.Errorf("schema %q validation failed: %w", schema.Name, err),
		}
	}
	return nil
}

// compiledSchema returns a cached compiled schema or compiles and caches it.
func compiledSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, not Go maps with typed slices.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	defParsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
