package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnRoundTrip(t *testing.T) {
	turns := []Turn{
		NewUserTurn("hello"),
		NewAssistantTurn(AgentChat, "hi there", map[string]any{"durationMs": int64(12)}),
		NewUserTurn("and another"),
	}

	conv := ConversationFromTurns("s1", "u1", turns)
	got := conv.History()

	require.Len(t, got, len(turns))
	assert.Equal(t, turns, got)
}

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation("s1", "")
	conv.Append(NewUserTurn("first"))
	conv.Append(NewAssistantTurn(AgentChat, "second", nil))

	last, ok := conv.LastTurn()
	require.True(t, ok)
	assert.Equal(t, "second", last.Content)
	assert.Equal(t, RoleUser, conv.Turns[0].Role)
	assert.Equal(t, RoleAssistant, conv.Turns[1].Role)
}

func TestConversationCloneIsIndependent(t *testing.T) {
	conv := NewConversation("s1", "u1")
	conv.Append(NewUserTurn("hello"))
	conv.SetContext("lastAgent", "chat")

	clone := conv.Clone()
	clone.Append(NewUserTurn("only in clone"))
	clone.SetContext("lastAgent", "tool")

	assert.Len(t, conv.Turns, 1)
	assert.Equal(t, "chat", conv.Context["lastAgent"])
}

func TestDefaultDecision(t *testing.T) {
	d := DefaultDecision("because")
	assert.Equal(t, AgentChat, d.NextAgent)
	assert.Equal(t, DefaultConfidence, d.Confidence)
	assert.True(t, d.Valid())
}

func TestRoutingDecisionValid(t *testing.T) {
	valid := RoutingDecision{NextAgent: AgentRetrieval, Confidence: 0.95, Reasoning: "needs docs"}
	assert.True(t, valid.Valid())

	cases := []RoutingDecision{
		{NextAgent: "planner", Confidence: 0.5, Reasoning: "x"},
		{NextAgent: AgentChat, Confidence: 1.5, Reasoning: "x"},
		{NextAgent: AgentChat, Confidence: -0.1, Reasoning: "x"},
		{NextAgent: AgentChat, Confidence: 0.5, Reasoning: ""},
		{NextAgent: AgentRouter, Confidence: 0.5, Reasoning: "x"},
	}
	for _, d := range cases {
		assert.False(t, d.Valid(), "%+v should be invalid", d)
	}
}

func TestStreamEventKinds(t *testing.T) {
	assert.False(t, EventStatus.Terminal())
	assert.False(t, EventChunk.Terminal())
	assert.True(t, EventComplete.Terminal())
	assert.True(t, EventError.Terminal())

	ev := NewStreamEvent(EventStatus, AgentRouter, "Analyzing your request...")
	assert.WithinDuration(t, time.Now(), ev.Timestamp, time.Second)
}
