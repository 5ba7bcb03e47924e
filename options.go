package funcall

import (
	"context"
	"log/slog"
	"time"
)

// toolOptions hold the caller-supplied contract overrides applied after
// introspection.
type toolOptions struct {
	required    []string
	requiredSet bool
	params      map[string]ParameterSpec
	paramDescs  map[string]string
}

// ToolOption overrides part of a tool's derived contract. Every override is
// validated against the introspected parameter set: naming a parameter absent
// from the signature fails registration with ErrUnknownParameter.
type ToolOption func(*toolOptions)

// WithRequired replaces the derived required list. Parameters named here
// become required; all others become optional.
func WithRequired(names ...string) ToolOption {
	return func(o *toolOptions) {
		o.required = names
		o.requiredSet = true
	}
}

// WithParameters replaces the full parameter map. Only parameters named in
// the map remain in the contract, keeping their declaration order; each must
// correspond to a real formal parameter of the handler.
func WithParameters(params map[string]ParameterSpec) ToolOption {
	return func(o *toolOptions) {
		o.params = params
	}
}

// WithParameterDescriptions overrides the description of individual
// parameters without touching their types or requiredness.
func WithParameterDescriptions(descs map[string]string) ToolOption {
	return func(o *toolOptions) {
		o.paramDescs = descs
	}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherOptions)

type dispatcherOptions struct {
	timeout       time.Duration
	recoverPanics bool
	logger        *slog.Logger
	onBefore      func(context.Context, CallRequest)
	onAfter       func(context.Context, CallRequest, CallResult, time.Duration)
}

// WithExecTimeout bounds each tool execution. Zero disables the bound
// (the baseline design has no preemptive cancellation).
func WithExecTimeout(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.timeout = d
	}
}

// WithRecoverPanics toggles panic recovery in Execute. Enabled by default;
// a recovered panic is reported as a failed CallResult.
func WithRecoverPanics(enable bool) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.recoverPanics = enable
	}
}

// WithDispatchLogger sets the logger used for per-call records.
func WithDispatchLogger(logger *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.logger = logger
	}
}

// WithOnBeforeExecute sets a hook called before each tool execution.
func WithOnBeforeExecute(fn func(context.Context, CallRequest)) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterExecute sets a hook called after each tool execution, success or
// failure, with the final result and duration.
func WithOnAfterExecute(fn func(context.Context, CallRequest, CallResult, time.Duration)) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.onAfter = fn
	}
}
