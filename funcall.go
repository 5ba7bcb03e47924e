package funcall

import (
	"bytes"
	"context"
	"encoding/json"
)

// Tool is the contract for an LLM-callable operation.
// It is provider-agnostic (no knowledge of OpenAI, Anthropic, etc.).
type Tool interface {
	Name() string
	Description() string
	// Schema returns the calling contract derived at construction time.
	Schema() ToolSchema
	// Execute runs the tool with a JSON object of arguments and returns the
	// JSON-encoded result. Argument validation happens here, against the same
	// schema exported to the model.
	Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// CallRequest is a single invocation request as produced by the model.
// ID is an opaque correlation token; Args is the serialized argument payload.
type CallRequest struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"arguments"`
}

// CallResult is the outcome of dispatching one CallRequest: either a value or
// a failure reason, never both. A failed call carries Err and a nil Value.
type CallResult struct {
	ID    string
	Value json.RawMessage
	Err   error
}

// Failed reports whether the call ended in a failure outcome.
func (r CallResult) Failed() bool { return r.Err != nil }

// Reason returns the failure reason text, or "" for a successful result.
func (r CallResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Complete is the sentinel result value. When a tool returns it, the
// conversation loop treats the work as finished and terminates, independent
// of any other tool's result value.
const Complete = "COMPLETE"

var completeJSON = []byte(`"COMPLETE"`)

// IsComplete reports whether res is a successful result carrying the sentinel.
func IsComplete(res CallResult) bool {
	return res.Err == nil && bytes.Equal(bytes.TrimSpace(res.Value), completeJSON)
}

// CompleteTool returns the designated no-parameter tool whose result is the
// sentinel. Register it alongside the working tools so the model can signal
// that the goal is reached.
func CompleteTool() Tool {
	t, err := NewTool("complete", "Call this when the work is finished.",
		func(context.Context, struct{}) (string, error) { return Complete, nil })
	if err != nil {
		// struct{} always introspects cleanly; this is unreachable.
		panic(err)
	}
	return t
}
