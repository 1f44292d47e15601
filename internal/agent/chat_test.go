package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduitlabs/conduit/internal/adapter/llm"
	"github.com/conduitlabs/conduit/internal/domain"
)

type stubGateway struct {
	response   string
	fragments  []string
	err        error
	lastPrompt string
	lastSystem string
}

func (s *stubGateway) Complete(ctx context.Context, prompt, system string) (string, error) {
	s.lastPrompt, s.lastSystem = prompt, system
	return s.response, s.err
}

func (s *stubGateway) CompleteStream(ctx context.Context, prompt, system string, fn llm.FragmentFunc) error {
	s.lastPrompt, s.lastSystem = prompt, system
	if s.err != nil {
		return s.err
	}
	for _, f := range s.fragments {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func TestChatHandleEmptyConversation(t *testing.T) {
	h := NewChatHandler(&stubGateway{}, zerolog.Nop())
	_, err := h.Handle(context.Background(), domain.NewConversation("s1", ""))
	assert.ErrorIs(t, err, domain.ErrEmptyConversation)
}

func TestChatHandleReturnsReplyVerbatim(t *testing.T) {
	gw := &stubGateway{response: "Hello! How can I help?"}
	h := NewChatHandler(gw, zerolog.Nop())

	conv := domain.NewConversation("s1", "")
	conv.Append(domain.NewUserTurn("hi"))

	result, err := h.Handle(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, domain.AgentChat, result.Agent)
	assert.Equal(t, "Hello! How can I help?", result.Reply)
	assert.Contains(t, result.Metadata, "startedAt")
	assert.Equal(t, "hi", gw.lastPrompt)
	assert.NotContains(t, gw.lastSystem, "prior conversation")
}

func TestChatHandleMultiTurnSystemPrompt(t *testing.T) {
	gw := &stubGateway{response: "sure"}
	h := NewChatHandler(gw, zerolog.Nop())

	conv := domain.NewConversation("s1", "")
	conv.Append(domain.NewUserTurn("what is Go?"))
	conv.Append(domain.NewAssistantTurn(domain.AgentChat, "A programming language.", nil))
	conv.Append(domain.NewUserTurn("show me an example"))

	_, err := h.Handle(context.Background(), conv)
	require.NoError(t, err)
	assert.Equal(t, "show me an example", gw.lastPrompt)
	assert.Contains(t, gw.lastSystem, "prior conversation")
}

func TestChatHandleGatewayError(t *testing.T) {
	h := NewChatHandler(&stubGateway{err: errors.New("boom")}, zerolog.Nop())

	conv := domain.NewConversation("s1", "")
	conv.Append(domain.NewUserTurn("hi"))

	_, err := h.Handle(context.Background(), conv)
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)
}

func TestChatHandleStream(t *testing.T) {
	gw := &stubGateway{fragments: []string{"Hel", "lo ", "there"}}
	h := NewChatHandler(gw, zerolog.Nop())

	conv := domain.NewConversation("s1", "")
	conv.Append(domain.NewUserTurn("hi"))

	var got []string
	result, err := h.HandleStream(context.Background(), conv, func(fragment string) error {
		got = append(got, fragment)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo ", "there"}, got)
	assert.Equal(t, "Hello there", result.Reply)
}

func TestPlaceholderHandlers(t *testing.T) {
	conv := domain.NewConversation("s1", "")
	conv.Append(domain.NewUserTurn("find the doc"))

	for _, h := range []Handler{NewRetrievalHandler(), NewToolHandler()} {
		result, err := h.Handle(context.Background(), conv)
		require.NoError(t, err)
		assert.Equal(t, h.Tag(), result.Agent)
		assert.NotEmpty(t, result.Reply)

		_, err = h.Handle(context.Background(), domain.NewConversation("s2", ""))
		assert.ErrorIs(t, err, domain.ErrEmptyConversation)
	}
}

func TestRegistryDispatchTable(t *testing.T) {
	r := NewRegistry()
	r.Register(NewRetrievalHandler())
	r.Register(NewToolHandler())

	h, ok := r.Get(domain.AgentRetrieval)
	require.True(t, ok)
	assert.Equal(t, domain.AgentRetrieval, h.Tag())

	_, ok = r.Get(domain.AgentChat)
	assert.False(t, ok)
	assert.Len(t, r.Tags(), 2)
}
