package funcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConversation(t *testing.T) {
	t.Parallel()

	c := NewConversation("be helpful")
	require.Equal(t, 1, c.Len())
	first, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, RoleSystem, first.Role)
	assert.Equal(t, "be helpful", first.Content)

	empty := NewConversation("")
	assert.Equal(t, 0, empty.Len())
	_, ok = empty.Last()
	assert.False(t, ok)
}

func TestConversation_AppendPop(t *testing.T) {
	t.Parallel()
	c := NewConversation("")
	c.Append(Message{Role: RoleUser, Content: "hello"})
	c.Append(Message{Role: RoleAssistant, Content: "hi"})
	require.Equal(t, 2, c.Len())

	last, ok := c.PopLast()
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Equal(t, 1, c.Len())

	last, ok = c.PopLast()
	require.True(t, ok)
	assert.Equal(t, "hello", last.Content)

	_, ok = c.PopLast()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestConversation_MessagesIsACopy(t *testing.T) {
	t.Parallel()
	c := NewConversation("")
	c.Append(Message{Role: RoleUser, Content: "original"})

	snapshot := c.Messages()
	snapshot[0].Content = "mutated"

	last, _ := c.Last()
	assert.Equal(t, "original", last.Content)
}
