// Package funcall turns ordinary Go functions into machine-checkable calling
// contracts for LLM function calling, and dispatches the model's call requests
// back onto those functions with validated arguments.
//
// # Overview
//
// Models produce tool calls as JSON. This package derives the contract the
// model sees (name, description, parameter schema, required list) from a typed
// handler, and closes the loop: unmarshal → validate (against the same schema
// shown to the model) → execute → marshal result or report a clear failure the
// model can correct from.
//
// Pipeline: Go handler + argument struct → NewTool (introspection + schema) →
// Tool → Registry → Dispatcher.Execute (parse, validate, call) → CallResult →
// Loop (conversation state machine).
//
// # Key concepts
//
//   - Fail fast at registration: a handler with an undeclared return type or
//     no description never registers with an incomplete contract.
//   - Failures become data at dispatch: Execute always returns a CallResult;
//     tool errors and panics never escape the Dispatcher boundary.
//   - Self-correction: the Loop feeds failure reasons back into the dialogue
//     ("Error occurred: ...") instead of retrying the same call itself.
//
// See NewTool, Registry, Dispatcher, and Loop for the core entry points.
//
// # Example
//
//	type AddArgs struct {
//	    A int `json:"a" description:"first addend"`
//	    B int `json:"b" description:"second addend"`
//	}
//	tool, err := funcall.NewTool("add", "adds two integers",
//	    func(_ context.Context, args AddArgs) (int, error) { return args.A + args.B, nil })
//	if err != nil { ... }
//	reg := funcall.NewRegistry()
//	reg.Register(tool)
//	d := funcall.NewDispatcher(reg)
//	res := d.Execute(ctx, funcall.CallRequest{ID: "1", Name: "add", Args: []byte(`{"a":2,"b":3}`)})
package funcall
