package funcall

import (
	"context"
	"fmt"
	"log/slog"
)

// State is the conversation loop's observable position in its state machine.
type State int

const (
	StateAwaitingModel State = iota
	StateAwaitingConfirmation
	StateExecuting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateExecuting:
		return "executing"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reply is a classified model response: either free-form text or one or more
// call requests (a reply may carry both when the model narrates its calls).
type Reply struct {
	Text  string
	Calls []CallRequest
}

// Transport is the model provider boundary. Send submits the conversation
// state plus the registry's schema collection and returns the classified
// response. It is the loop's only suspension point and is awaited to
// completion before any further state mutation.
type Transport interface {
	Send(ctx context.Context, msgs []Message, schemas []ToolSchema) (*Reply, error)
}

// ConfirmFunc gates one call request. Returning approved=false skips
// execution; feedback, when non-empty, becomes the next prompt (the
// decliner's text). The default approves everything synchronously.
type ConfirmFunc func(ctx context.Context, call CallRequest) (approved bool, feedback string, err error)

// PromptFunc supplies the next prompt after a free-form model reply, given
// the text to surface to the operator. Returning "" falls back to the
// configured continuation prompt.
type PromptFunc func(ctx context.Context, assistantText string) (string, error)

// defaultContinuation nudges the model onward when nobody supplies a prompt.
const defaultContinuation = "please think next action."

const defaultMaxSteps = 100

// Loop drives repeated request/respond/execute cycles against one
// conversation: send prompt plus schemas, classify the reply, confirm and
// dispatch call requests strictly in order, feed results or failure text back
// as conversational context, stop on the sentinel result or step exhaustion.
// A Loop owns its Conversation exclusively and is not safe for concurrent
// use; the Registry behind it may be shared read-only.
type Loop struct {
	transport    Transport
	registry     *Registry
	dispatcher   *Dispatcher
	conv         *Conversation
	confirm      ConfirmFunc
	prompter     PromptFunc
	maxSteps     int
	continuation string
	logger       *slog.Logger
	state        State
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithMaxSteps bounds the number of model turns before the loop gives up
// with ErrStepLimit.
func WithMaxSteps(n int) LoopOption {
	return func(l *Loop) { l.maxSteps = n }
}

// WithConfirm installs the approval gate called once per call request.
func WithConfirm(fn ConfirmFunc) LoopOption {
	return func(l *Loop) { l.confirm = fn }
}

// WithPrompter installs the operator prompt source used after free-form
// replies.
func WithPrompter(fn PromptFunc) LoopOption {
	return func(l *Loop) { l.prompter = fn }
}

// WithDispatcher substitutes a pre-configured Dispatcher (hooks, timeout).
func WithDispatcher(d *Dispatcher) LoopOption {
	return func(l *Loop) { l.dispatcher = d }
}

// WithSystemPrompt seeds the conversation with a system message.
func WithSystemPrompt(system string) LoopOption {
	return func(l *Loop) { l.conv = NewConversation(system) }
}

// WithContinuationPrompt overrides the default prompt sent after a
// successful tool round or an empty operator prompt.
func WithContinuationPrompt(prompt string) LoopOption {
	return func(l *Loop) { l.continuation = prompt }
}

// WithLoopLogger sets the logger for per-step records.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// NewLoop creates a conversation loop over a transport and a registry.
func NewLoop(transport Transport, reg *Registry, opts ...LoopOption) *Loop {
	l := &Loop{
		transport:    transport,
		registry:     reg,
		conv:         NewConversation(""),
		confirm:      autoApprove,
		prompter:     continuationPrompter,
		maxSteps:     defaultMaxSteps,
		continuation: defaultContinuation,
		logger:       slog.Default(),
		state:        StateAwaitingModel,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.dispatcher == nil {
		l.dispatcher = NewDispatcher(reg)
	}
	return l
}

func autoApprove(context.Context, CallRequest) (bool, string, error) {
	return true, "", nil
}

func continuationPrompter(context.Context, string) (string, error) {
	return "", nil
}

// State returns the loop's current state.
func (l *Loop) State() State { return l.state }

// Conversation returns the transcript the loop is driving.
func (l *Loop) Conversation() *Conversation { return l.conv }

// Run drives the loop from the caller-supplied goal until the sentinel
// result terminates it, the step budget runs out (ErrStepLimit), or the
// transport fails. The returned Conversation is valid in every case.
func (l *Loop) Run(ctx context.Context, goal string) (*Conversation, error) {
	prompt := goal
	for step := 0; step < l.maxSteps; step++ {
		l.state = StateAwaitingModel
		l.conv.Append(Message{Role: RoleUser, Content: prompt})
		reply, err := l.transport.Send(ctx, l.conv.Messages(), l.registry.Schemas())
		if err != nil {
			return l.conv, fmt.Errorf("model transport: %w", err)
		}

		// Everything appended from here on is the speculative turn; mark the
		// rollback point before the assistant message goes in.
		mark := l.conv.Len()
		l.conv.Append(Message{Role: RoleAssistant, Content: reply.Text, Calls: reply.Calls})
		l.logger.Debug("model reply", "step", step, "calls", len(reply.Calls))

		if len(reply.Calls) == 0 {
			next, err := l.prompter(ctx, reply.Text)
			if err != nil {
				return l.conv, err
			}
			if next == "" {
				next = l.continuation
			}
			prompt = next
			continue
		}

		next, done, err := l.runCalls(ctx, mark, reply.Calls)
		if err != nil {
			return l.conv, err
		}
		if done {
			l.state = StateTerminated
			return l.conv, nil
		}
		prompt = next
	}
	l.state = StateTerminated
	return l.conv, ErrStepLimit
}

// runCalls confirms and executes one turn's call requests sequentially, in
// the order received — a later request may depend on an earlier one's side
// effect. It returns the next prompt, or done=true when the sentinel result
// was seen (remaining pending requests are abandoned).
func (l *Loop) runCalls(ctx context.Context, mark int, calls []CallRequest) (next string, done bool, err error) {
	for _, call := range calls {
		l.state = StateAwaitingConfirmation
		approved, feedback, err := l.confirm(ctx, call)
		if err != nil {
			return "", false, err
		}
		if !approved {
			l.rollback(mark)
			l.logger.Info("call declined", "tool", call.Name, "call_id", call.ID)
			if feedback == "" {
				feedback = fmt.Sprintf("The call to %q was declined.", call.Name)
			}
			return feedback, false, nil
		}

		l.state = StateExecuting
		res := l.dispatcher.Execute(ctx, call)
		if res.Failed() {
			// Sole automatic-retry mechanism: undo the speculative turn and
			// tell the model exactly what went wrong instead of re-invoking.
			l.rollback(mark)
			l.logger.Warn("call failed", "tool", call.Name, "call_id", call.ID, "error", res.Err)
			return "Error occurred: " + res.Reason(), false, nil
		}
		if IsComplete(res) {
			return "", true, nil
		}
		l.conv.Append(Message{Role: RoleTool, Content: string(res.Value), ToolCallID: res.ID})
	}
	return l.continuation, false, nil
}

// rollback pops messages until the transcript is back at mark, removing the
// speculative assistant turn and any tool results appended after it.
func (l *Loop) rollback(mark int) {
	for l.conv.Len() > mark {
		l.conv.PopLast()
	}
}
