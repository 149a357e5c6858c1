package ai

import (
	"encoding/json"
	"errors"

	"github.com/abhisek/tinysteps/internal/llm"
)

// Decode parses a model reply into T. The reply may be wrapped in a
// Markdown fence. It fails with KindParse when the text is not JSON and
// with KindInvalidShape when it is JSON of the wrong shape. On failure no
// value is returned.
func Decode[T any](raw []byte, schema *llm.Schema) (*T, error) {
	body := llm.ExtractJSON(raw)
	if !json.Valid(body) {
		return nil, &Error{Kind: KindParse, Message: "Invalid response format", Err: errors.New("reply is not a JSON object")}
	}

	if err := llm.ValidateJSON(schema, body); err != nil {
		return nil, &Error{Kind: KindInvalidShape, Message: "Response did not match the expected format", Err: err}
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Error{Kind: KindInvalidShape, Message: "Response did not match the expected format", Err: err}
	}
	return &out, nil
}
