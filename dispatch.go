package funcall

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Dispatcher validates call requests against a Registry and invokes the
// bound callables. It is stateless per call: every outcome, including tool
// panics, comes back as a CallResult — a fault inside a tool must never
// terminate the loop driving the conversation.
type Dispatcher struct {
	reg  *Registry
	opts dispatcherOptions
}

// NewDispatcher creates a Dispatcher over reg. Panic recovery is on by
// default; there is no execution timeout unless WithExecTimeout is given.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	o := dispatcherOptions{
		recoverPanics: true,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Dispatcher{reg: reg, opts: o}
}

// Execute runs one call request to completion and reports the outcome.
// Failure modes, all as data: ErrMalformedArguments when the payload is not
// a JSON object, ErrUnknownTool when the name is not registered, validation
// and handler errors verbatim, panics as recovered errors.
func (d *Dispatcher) Execute(ctx context.Context, call CallRequest) (res CallResult) {
	res.ID = call.ID

	start := time.Now()
	if d.opts.onAfter != nil {
		defer func() {
			d.opts.onAfter(ctx, call, res, time.Since(start))
		}()
	}
	if d.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				res.Value = nil
				res.Err = &panicError{p: p}
				d.opts.logger.Error("tool panic", "tool", call.Name, "call_id", call.ID, "panic", fmt.Sprint(p))
			}
		}()
	}

	args := call.Args
	if len(args) == 0 {
		args = []byte("{}")
	}
	var kv map[string]any
	if err := json.Unmarshal(args, &kv); err != nil {
		res.Err = &ClientError{
			Reason: "arguments are not a JSON object: " + err.Error(),
			Err:    ErrMalformedArguments,
		}
		return res
	}

	tool, ok := d.reg.Lookup(call.Name)
	if !ok {
		res.Err = &ClientError{
			Reason: fmt.Sprintf("no tool named %q is registered", call.Name),
			Err:    ErrUnknownTool,
		}
		return res
	}

	if d.opts.onBefore != nil {
		d.opts.onBefore(ctx, call)
	}
	if d.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.timeout)
		defer cancel()
	}

	d.opts.logger.Debug("dispatch", "tool", call.Name, "call_id", call.ID)
	value, err := tool.Execute(ctx, args)
	if err != nil {
		res.Err = err
		d.opts.logger.Warn("tool failed", "tool", call.Name, "call_id", call.ID, "error", err)
		return res
	}
	res.Value = value
	return res
}
