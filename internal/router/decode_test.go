package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/conduitlabs/conduit/internal/domain"
)

func TestDecodeDecisionOK(t *testing.T) {
	decision, status := decodeDecision(`{"nextAgent":"tool","confidence":1,"reasoning":"needs the weather API"}`)
	assert.Equal(t, decodeOK, status)
	assert.Equal(t, domain.AgentTool, decision.NextAgent)
}

func TestDecodeDecisionParseVsSemantic(t *testing.T) {
	// Not JSON at all.
	_, status := decodeDecision("definitely chat")
	assert.Equal(t, decodeParseFailed, status)

	// Truncated object never balances.
	_, status = decodeDecision(`{"nextAgent":"chat","confidence":0.9`)
	assert.Equal(t, decodeParseFailed, status)

	// Well-formed but wrong shape: a distinct failure kind.
	_, status = decodeDecision(`{"nextAgent":"chat","confidence":0.9}`)
	assert.Equal(t, decodeInvalid, status)

	_, status = decodeDecision(`{"nextAgent":"planner","confidence":0.9,"reasoning":"x"}`)
	assert.Equal(t, decodeInvalid, status)

	_, status = decodeDecision(`{"nextAgent":"chat","confidence":1.2,"reasoning":"x"}`)
	assert.Equal(t, decodeInvalid, status)

	_, status = decodeDecision(`{"nextAgent":"chat","confidence":0.9,"reasoning":""}`)
	assert.Equal(t, decodeInvalid, status)
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := extractJSONObject(`prefix {"a":{"b":1}} suffix`)
	assert.True(t, ok)
	assert.Equal(t, `{"a":{"b":1}}`, obj)

	// Braces inside string literals do not unbalance the scan.
	obj, ok = extractJSONObject(`{"reasoning":"uses } inside a string"}`)
	assert.True(t, ok)
	assert.Equal(t, `{"reasoning":"uses } inside a string"}`, obj)

	_, ok = extractJSONObject("no braces here")
	assert.False(t, ok)
}
