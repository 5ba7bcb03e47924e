package funcall

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check.
//
// Registration-time errors (MissingTypeAnnotation through UnknownParameter)
// are fatal to the single registration that raised them: the caller must fix
// the tool and register again, the rest of the registry is unaffected.
// Dispatch-time errors (UnknownTool, MalformedArguments, Validation) are
// reported inside a CallResult and never escape the Dispatcher.
var (
	ErrMissingTypeAnnotation = errors.New("missing type annotation")
	ErrMissingDescription    = errors.New("missing description")
	ErrUnsupportedType       = errors.New("unsupported type")
	ErrUnknownParameter      = errors.New("unknown parameter")

	ErrUnknownTool        = errors.New("unknown tool")
	ErrMalformedArguments = errors.New("malformed arguments")
	ErrValidation         = errors.New("validation failed")

	// ErrStepLimit is returned by Loop.Run when the configured maximum number
	// of turns is exhausted before the sentinel result is seen.
	ErrStepLimit = errors.New("step limit reached")
)

// RegistrationError reports why a tool could not be registered. Tool is the
// (possibly derived) tool name; Param names the offending parameter when the
// failure is parameter-scoped. Hint, when set, is a copyable template showing
// the integrator how to fix the declaration.
type RegistrationError struct {
	Tool  string
	Param string
	Err   error
	Hint  string
}

func (e *RegistrationError) Error() string {
	msg := fmt.Sprintf("register tool %q: %v", e.Tool, e.Err)
	if e.Param != "" {
		msg = fmt.Sprintf("register tool %q: parameter %q: %v", e.Tool, e.Param, e.Err)
	}
	if e.Hint != "" {
		msg += "\n" + e.Hint
	}
	return msg
}

// Unwrap supports errors.Is against the registration sentinels.
func (e *RegistrationError) Unwrap() error { return e.Err }

// ClientError is a dispatch failure the model can correct by itself
// (malformed JSON, schema violation, unknown tool). The Reason text is safe
// to feed back into the dialogue; do not put stack traces or internals in it.
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool call: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains.
func (e *ClientError) Unwrap() error { return e.Err }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// wrapJSONParseError returns a ClientError for JSON unmarshal failures so
// parse errors read the same from every entry point.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error(), Err: ErrMalformedArguments}
}

// panicError wraps a recovered panic value; used by Dispatcher and the
// recovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}

// descriptionHint builds the fix-it template embedded in a
// MissingDescription registration error.
func descriptionHint(name string) string {
	return fmt.Sprintf(`tool %q has no description. Pass one explicitly:

    funcall.NewTool(%q, "what the tool does",
        func(ctx context.Context, args Args) (Result, error) { ... })

and document each parameter with a struct tag:

    type Args struct {
        Path string `+"`json:\"path\" description:\"file path to read\"`"+`
    }`, name, name)
}
