// Package orchestrator composes the router and the specialist handlers into
// the fixed flow routing -> {chatting|retrieving|tooling} -> done. One
// request traverses the flow exactly once per message.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/conduitlabs/conduit/internal/agent"
	"github.com/conduitlabs/conduit/internal/domain"
	"github.com/conduitlabs/conduit/internal/router"
	"github.com/conduitlabs/conduit/policy"
)

const (
	statusAnalyzing = "Analyzing your request..."

	// apologyReply is the fixed assistant turn produced when a handler
	// failed. The user always receives a turn, never a bare error.
	apologyReply = "I'm sorry, I ran into a problem while answering. Please try again."

	// errorEventText is the generic text carried by error stream events.
	// Causes stay in server-side logs, never in the stream.
	errorEventText = "Something went wrong while processing your request. Please try again."
)

// EmitFunc receives stream events in order. Returning an error abandons the
// stream; no further events are emitted.
type EmitFunc func(event domain.StreamEvent) error

// Orchestrator classifies a message and dispatches it to one handler.
type Orchestrator struct {
	router   *router.Router
	handlers *agent.Registry
	policy   *policy.Engine
	logger   zerolog.Logger
}

// New creates an orchestrator. The policy engine may be nil, in which case
// every dispatch is allowed.
func New(r *router.Router, handlers *agent.Registry, engine *policy.Engine, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		router:   r,
		handlers: handlers,
		policy:   engine,
		logger:   logger.With().Str("component", "orchestrator").Logger(),
	}
}

// Resolve runs classify + dispatch and appends the handler's reply to the
// conversation as a new assistant turn. Gateway and handler failures degrade
// to safe defaults; the only error returned is an empty conversation.
func (o *Orchestrator) Resolve(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	decision, err := o.route(ctx, conv)
	if err != nil {
		return nil, err
	}

	// A handler failure still yields a turn (the fixed apology), so the user
	// never receives a bare error from this entry point.
	turn, _ := o.dispatch(ctx, conv, decision, nil)
	conv.Append(turn)
	return conv, nil
}

// Stream runs the same classify + dispatch flow while emitting progress and
// content events through emit. The sequence begins with exactly one status
// event and ends with exactly one terminal event (complete or error); it is
// finite and not restartable.
func (o *Orchestrator) Stream(ctx context.Context, conv *domain.Conversation, emit EmitFunc) error {
	if err := emit(domain.NewStreamEvent(domain.EventStatus, domain.AgentRouter, statusAnalyzing)); err != nil {
		return err
	}

	decision, err := o.route(ctx, conv)
	if err != nil {
		// Nothing to answer; the stream still terminates cleanly.
		return emit(domain.NewStreamEvent(domain.EventError, domain.AgentRouter, errorEventText))
	}

	if err := emit(domain.NewStreamEvent(domain.EventStatus, decision.NextAgent, processingStatus(decision.NextAgent))); err != nil {
		return err
	}

	var emitErr error
	turn, handlerErr := o.dispatch(ctx, conv, decision, func(fragment string) error {
		emitErr = emit(domain.NewStreamEvent(domain.EventChunk, decision.NextAgent, fragment))
		return emitErr
	})
	if emitErr != nil {
		// The consumer went away mid-stream; abandon without a terminal event
		// on the wire and without persisting the partial turn.
		return emitErr
	}

	if handlerErr != nil {
		return emit(domain.NewStreamEvent(domain.EventError, decision.NextAgent, errorEventText))
	}

	conv.Append(turn)

	complete := domain.NewStreamEvent(domain.EventComplete, decision.NextAgent, turn.Content)
	complete.Metadata = map[string]any{"turnId": turn.TurnID}
	return emit(complete)
}

// route classifies the latest turn, degrading to the chat agent when the
// gateway is unusable or the policy blocks the chosen agent. Only an empty
// conversation is a hard error.
func (o *Orchestrator) route(ctx context.Context, conv *domain.Conversation) (domain.RoutingDecision, error) {
	decision, err := o.router.Classify(ctx, conv)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyConversation) {
			return domain.RoutingDecision{}, err
		}
		// A gateway outage should not abort the user-visible turn; it
		// degrades to the safest handler.
		o.logger.Error().Err(err).Msg("routing failed, falling back to chat")
		conv.SetContext(domain.ContextKeyRoutingError, err.Error())
		decision = domain.DefaultDecision("routing unavailable, defaulting to chat")
	}

	if o.policy != nil && decision.NextAgent != domain.AgentChat {
		verdict, perr := o.policy.Evaluate(ctx, policy.Input{
			Agent:      string(decision.NextAgent),
			UserID:     conv.UserID,
			Confidence: decision.Confidence,
		})
		if perr != nil {
			// Availability over enforcement: a broken policy does not block.
			o.logger.Error().Err(perr).Msg("policy evaluation failed, allowing dispatch")
		} else if verdict == policy.DecisionBlock {
			o.logger.Info().Str("agent", string(decision.NextAgent)).Msg("dispatch blocked by policy, falling back to chat")
			conv.SetContext(domain.ContextKeyPolicyBlocked, string(decision.NextAgent))
			decision = domain.DefaultDecision(fmt.Sprintf("%s agent blocked by policy, defaulting to chat", decision.NextAgent))
		}
	}

	conv.SetContext(domain.ContextKeyRouting, decision)
	return decision, nil
}

// dispatch invokes the chosen handler and builds the assistant turn. When
// fragments is non-nil and the handler supports streaming, gateway fragments
// pass straight through; otherwise the resolved reply is re-emitted
// word-by-word as a streaming approximation. A handler failure is returned
// alongside the fixed apologetic turn, with the cause recorded in metadata
// and context; the caller decides which of the two to surface.
func (o *Orchestrator) dispatch(ctx context.Context, conv *domain.Conversation, decision domain.RoutingDecision, fragments func(string) error) (domain.Turn, error) {
	handler, ok := o.handlers.Get(decision.NextAgent)
	if !ok {
		handler, _ = o.handlers.Get(domain.AgentChat)
	}

	var result *agent.Result
	var err error

	if sh, streaming := handler.(agent.StreamingHandler); streaming && fragments != nil {
		result, err = sh.HandleStream(ctx, conv, fragments)
	} else {
		result, err = handler.Handle(ctx, conv)
		if err == nil && fragments != nil {
			for _, word := range splitWords(result.Reply) {
				if ferr := fragments(word); ferr != nil {
					break
				}
			}
		}
	}

	if err != nil {
		o.logger.Error().Err(err).Str("agent", string(decision.NextAgent)).Msg("handler failed")
		conv.SetContext(domain.ContextKeyHandlerError, err.Error())
		turn := domain.NewAssistantTurn(decision.NextAgent, apologyReply, map[string]any{
			"error": err.Error(),
		})
		return turn, err
	}

	conv.SetContext(domain.ContextKeyLastAgent, string(result.Agent))
	conv.SetContext(domain.ContextKeyAgentMetadata, result.Metadata)
	return domain.NewAssistantTurn(result.Agent, result.Reply, result.Metadata), nil
}

// splitWords splits a reply on spaces and re-appends the separator so the
// concatenation of the fragments reproduces the reply exactly.
func splitWords(reply string) []string {
	words := strings.Split(reply, " ")
	out := make([]string, len(words))
	for i, word := range words {
		if i < len(words)-1 {
			out[i] = word + " "
		} else {
			out[i] = word
		}
	}
	return out
}

func processingStatus(tag domain.AgentTag) string {
	name := strings.ToUpper(string(tag[:1])) + string(tag[1:])
	return fmt.Sprintf("%s agent is processing your request...", name)
}
