// Package testutil provides test helpers for funcall (MockTool,
// ScriptedTransport).
package testutil

import (
	"context"
	"encoding/json"

	"github.com/kazuhira-dev/funcall"
)

// MockTool is a configurable Tool implementation for tests.
type MockTool struct {
	NameVal   string
	DescVal   string
	SchemaVal funcall.ToolSchema
	ExecuteFn func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// Name returns the tool name.
func (m *MockTool) Name() string {
	if m.NameVal != "" {
		return m.NameVal
	}
	return "mock"
}

// Description returns the tool description.
func (m *MockTool) Description() string {
	return m.DescVal
}

// Schema returns the configured schema, with Name/Description filled in when
// unset.
func (m *MockTool) Schema() funcall.ToolSchema {
	s := m.SchemaVal
	if s.Name == "" {
		s.Name = m.Name()
	}
	if s.Description == "" {
		s.Description = m.DescVal
	}
	return s
}

// Execute runs ExecuteFn if set, otherwise returns null.
func (m *MockTool) Execute(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	if m.ExecuteFn != nil {
		return m.ExecuteFn(ctx, args)
	}
	return json.RawMessage("null"), nil
}

// Ensure MockTool implements Tool.
var _ funcall.Tool = (*MockTool)(nil)
