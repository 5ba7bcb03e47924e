package funcall

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
)

const defaultMaxTokens = 1024

// AnthropicTransport implements Transport on top of the Anthropic Messages
// API. Schemas become native tool definitions; tool_use blocks in the reply
// become CallRequests; tool-role messages travel back as tool_result blocks.
type AnthropicTransport struct {
	Client    *anthropic.Client
	Model     anthropic.Model
	MaxTokens int64
}

// NewAnthropicTransport builds a transport for model using a client
// configured from the environment (ANTHROPIC_API_KEY).
func NewAnthropicTransport(model anthropic.Model) *AnthropicTransport {
	c := anthropic.NewClient()
	return &AnthropicTransport{Client: &c, Model: model, MaxTokens: defaultMaxTokens}
}

// Send submits the conversation and tool contracts and classifies the
// response into free text and/or call requests. A tool_use block without an
// id gets a generated one so results stay correlatable.
func (t *AnthropicTransport) Send(ctx context.Context, msgs []Message, schemas []ToolSchema) (*Reply, error) {
	params := anthropic.MessageNewParams{
		Model:     t.Model,
		MaxTokens: t.maxTokens(),
		Messages:  toMessageParams(msgs),
	}
	if system := systemText(msgs); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(schemas) > 0 {
		params.Tools = toToolParams(schemas)
	}

	msg, err := t.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	reply := &Reply{}
	var texts []string
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			texts = append(texts, v.Text)
		case anthropic.ToolUseBlock:
			id := v.ID
			if id == "" {
				id = uuid.NewString()
			}
			reply.Calls = append(reply.Calls, CallRequest{
				ID:   id,
				Name: v.Name,
				Args: json.RawMessage(v.JSON.Input.Raw()),
			})
		}
	}
	reply.Text = strings.Join(texts, "\n")
	return reply, nil
}

func (t *AnthropicTransport) maxTokens() int64 {
	if t.MaxTokens > 0 {
		return t.MaxTokens
	}
	return defaultMaxTokens
}

// systemText joins system-role messages; the Messages API carries them in a
// dedicated request field, not in the turn list.
func systemText(msgs []Message) string {
	var parts []string
	for _, m := range msgs {
		if m.Role == RoleSystem && m.Content != "" {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n")
}

func toMessageParams(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, c := range m.Calls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    c.ID,
						Name:  c.Name,
						Input: json.RawMessage(c.Args),
					},
				})
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		case RoleTool:
			// Tool results ride back to the model as user-side blocks.
			out = append(out, anthropic.NewUserMessage(
				anthropic.NewToolResultBlock(m.ToolCallID, m.Content, false)))
		}
	}
	return out
}

func toToolParams(schemas []ToolSchema) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(schemas))
	for _, s := range schemas {
		doc := s.JSONSchema()
		props, _ := doc["properties"].(map[string]any)
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        s.Name,
			Description: anthropic.String(s.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: props,
				Required:   requiredNames(doc),
			},
		}})
	}
	return out
}

// requiredNames reads the "required" list out of a schema document; static
// contracts store []string, dynamic ones round-trip through JSON as []any.
func requiredNames(doc map[string]any) []string {
	switch r := doc["required"].(type) {
	case []string:
		return r
	case []any:
		names := make([]string, 0, len(r))
		for _, v := range r {
			if name, ok := v.(string); ok {
				names = append(names, name)
			}
		}
		return names
	default:
		return nil
	}
}
