package router

import (
	"encoding/json"

	"github.com/conduitlabs/conduit/internal/domain"
)

// decodeStatus distinguishes "the response was not JSON at all" from "the
// JSON was well-formed but semantically wrong". The two matter differently
// for observability even though both end in the default decision.
type decodeStatus int

const (
	decodeOK decodeStatus = iota
	decodeParseFailed
	decodeInvalid
)

// rawDecision uses pointer fields so missing keys are distinguishable from
// zero values.
type rawDecision struct {
	NextAgent  *string  `json:"nextAgent"`
	Confidence *float64 `json:"confidence"`
	Reasoning  *string  `json:"reasoning"`
}

// decodeDecision runs the two-stage decode: structural parse of the first
// balanced {...} substring, then field-level validation.
func decodeDecision(raw string) (domain.RoutingDecision, decodeStatus) {
	obj, ok := extractJSONObject(raw)
	if !ok {
		return domain.RoutingDecision{}, decodeParseFailed
	}

	var parsed rawDecision
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return domain.RoutingDecision{}, decodeParseFailed
	}

	if parsed.NextAgent == nil || parsed.Confidence == nil || parsed.Reasoning == nil {
		return domain.RoutingDecision{}, decodeInvalid
	}

	decision := domain.RoutingDecision{
		NextAgent:  domain.AgentTag(*parsed.NextAgent),
		Confidence: *parsed.Confidence,
		Reasoning:  *parsed.Reasoning,
	}
	if !decision.Valid() {
		return domain.RoutingDecision{}, decodeInvalid
	}

	return decision, decodeOK
}

// extractJSONObject finds the first balanced {...} substring in raw.
// Brace counting respects JSON string literals and escapes.
func extractJSONObject(raw string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		ch := raw[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}

	return "", false
}
