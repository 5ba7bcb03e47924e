package testutil

import (
	"context"
	"errors"

	"github.com/kazuhira-dev/funcall"
)

// ScriptedTransport replays a fixed sequence of replies and records every
// request it saw. It stands in for the model provider in loop tests and
// examples.
type ScriptedTransport struct {
	Replies []*funcall.Reply
	Err     error // returned once all replies are consumed, defaults to ErrScriptExhausted

	// Sent collects the message snapshots passed to Send, one per call.
	Sent [][]funcall.Message
	// Schemas holds the schema collection from the most recent call.
	Schemas []funcall.ToolSchema

	next int
}

// ErrScriptExhausted is returned when Send is called more times than there
// are scripted replies.
var ErrScriptExhausted = errors.New("scripted transport exhausted")

// Send returns the next scripted reply.
func (s *ScriptedTransport) Send(_ context.Context, msgs []funcall.Message, schemas []funcall.ToolSchema) (*funcall.Reply, error) {
	s.Sent = append(s.Sent, msgs)
	s.Schemas = schemas
	if s.next >= len(s.Replies) {
		if s.Err != nil {
			return nil, s.Err
		}
		return nil, ErrScriptExhausted
	}
	r := s.Replies[s.next]
	s.next++
	return r, nil
}

// Calls returns how many times Send was invoked.
func (s *ScriptedTransport) Calls() int { return len(s.Sent) }

var _ funcall.Transport = (*ScriptedTransport)(nil)
