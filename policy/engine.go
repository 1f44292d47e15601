// Package policy gates agent dispatch with an OPA rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.agent_policy.decision"),
		rego.Module("agent_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is the dispatch decision input.
type Input struct {
	Agent      string  `json:"agent"`
	UserID     string  `json:"user_id"`
	Confidence float64 `json:"confidence"`
}

// Evaluate checks the dispatch policy for a routing decision.
// Returns "allow" or "block". The policy is expected to define a default.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(map[string]any{
		"agent":      input.Agent,
		"user_id":    input.UserID,
		"confidence": input.Confidence,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}

	return DecisionAllow, nil
}

// DefaultPolicy allows everything except tool dispatch for anonymous users.
const DefaultPolicy = `
package agent_policy

default decision = "allow"

decision = "block" {
	input.agent == "tool"
	input.user_id == ""
}
`
