package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyAllows(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, Input{Agent: "retrieval", UserID: "", Confidence: 0.9})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)

	decision, err = engine.Evaluate(ctx, Input{Agent: "tool", UserID: "alice", Confidence: 0.9})
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestDefaultPolicyBlocksAnonymousTool(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	decision, err := engine.Evaluate(ctx, Input{Agent: "tool", UserID: "", Confidence: 0.9})
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)
}

func TestBadPolicyFailsToPrepare(t *testing.T) {
	_, err := NewEngine(context.Background(), "not rego at all {{{")
	assert.Error(t, err)
}
