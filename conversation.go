package funcall

// Role classifies a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// ToolCallID correlates a tool-role message with the call request whose
	// result it carries.
	ToolCallID string `json:"tool_call_id,omitempty"`
	// Calls holds the call requests issued by an assistant turn, if any, so a
	// transport can reconstruct the provider's native message shape.
	Calls []CallRequest `json:"calls,omitempty"`
}

// Conversation is the ordered message log of one dialogue: append-only except
// for PopLast, the O(1) rollback used to undo a declined or failed turn.
// A Conversation is owned by the single loop driving it and must not be
// shared across conversations.
type Conversation struct {
	msgs []Message
}

// NewConversation creates a transcript, seeded with a system message when
// system is non-empty.
func NewConversation(system string) *Conversation {
	c := &Conversation{}
	if system != "" {
		c.Append(Message{Role: RoleSystem, Content: system})
	}
	return c
}

// Append adds a message at the end of the transcript.
func (c *Conversation) Append(m Message) {
	c.msgs = append(c.msgs, m)
}

// PopLast removes and returns the most recently appended message.
func (c *Conversation) PopLast() (Message, bool) {
	if len(c.msgs) == 0 {
		return Message{}, false
	}
	last := c.msgs[len(c.msgs)-1]
	c.msgs = c.msgs[:len(c.msgs)-1]
	return last, true
}

// Len returns the number of messages in the transcript.
func (c *Conversation) Len() int { return len(c.msgs) }

// Last returns the most recent message without removing it.
func (c *Conversation) Last() (Message, bool) {
	if len(c.msgs) == 0 {
		return Message{}, false
	}
	return c.msgs[len(c.msgs)-1], true
}

// Messages returns a copy of the transcript for inclusion in a model request.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}
