// Package orchestration sequences one voice turn of the ordering assistant:
// transcribe the caller's clip, ask the reasoning collaborator for a
// proposed order state and reply, validate and merge the proposal, persist
// the order once complete, and synthesize the reply.
//
// The orchestrator holds no conversation state. The order state is owned by
// the caller and round-trips through every turn as an opaque value, so any
// number of turns may be in flight concurrently with no coordination.
package orchestration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/koscakluka/barista-core/core/llms"
	"github.com/koscakluka/barista-core/core/orders"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Orchestrator struct {
	speechToText SpeechToTextClient
	reasoning    ReasoningClient
	textToSpeech TextToSpeechClient
	sink         OrderSink
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Turn is the outcome of one handled voice turn.
type Turn struct {
	Transcript string
	Reply      string
	AudioURL   string
	State      orders.State
}

// HandleTurn runs one turn: audio and the caller's prior serialized state
// in, transcript, reply, audio reference and the accepted new state out.
//
// Each collaborator is called at most once; there are no retries. Any
// collaborator failure discards the turn's state changes and the caller is
// expected to resubmit the same audio and state. A persistence failure is
// the one exception: the completed-order append is fire-and-continue and
// never fails an otherwise successful turn.
func (o *Orchestrator) HandleTurn(ctx context.Context, audio []byte, priorStateRaw []byte) (*Turn, error) {
	ctx, span := tracer.Start(ctx, "handle voice turn")
	defer span.End()

	turnID := uuid.NewString()
	span.SetAttributes(
		attribute.String("turn.id", turnID),
		attribute.Int("turn.audio_bytes", len(audio)),
	)

	if o.speechToText == nil || o.reasoning == nil || o.textToSpeech == nil {
		err := fmt.Errorf("orchestrator is missing a collaborator client")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	priorState := orders.DecodeState(priorStateRaw)

	transcript, err := o.speechToText.Transcribe(ctx, audio)
	if err != nil {
		err = fmt.Errorf("failed to transcribe audio: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if transcript == "" {
		span.SetAttributes(attribute.Bool("turn.no_speech", true))
		return nil, ErrNoSpeechDetected
	}
	logger.InfoContext(ctx, "transcribed user audio", "turn_id", turnID, "transcript", transcript)

	var proposal turnProposal
	if err := o.reasoning.PromptJSON(ctx,
		buildTurnPrompt(priorState, transcript),
		&proposal,
		llms.WithInstructions(baristaInstructions),
	); err != nil {
		err = fmt.Errorf("failed to generate order proposal: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	state := orders.Merge(priorState, proposal.UpdatedState)
	span.SetAttributes(attribute.Bool("turn.order_complete", state.IsComplete))

	if state.IsComplete && o.sink != nil {
		// Fire-and-continue: a failed append never fails the turn.
		if err := o.sink.Append(orders.NewCompletedOrder(state)); err != nil {
			span.RecordError(fmt.Errorf("failed to persist completed order: %w", err))
			logger.ErrorContext(ctx, "failed to persist completed order",
				"turn_id", turnID, "error", err)
		} else {
			logger.InfoContext(ctx, "completed order persisted", "turn_id", turnID)
		}
	}

	audioURL, err := o.textToSpeech.Synthesize(ctx, proposal.Reply)
	if err != nil {
		err = fmt.Errorf("failed to synthesize reply: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &Turn{
		Transcript: transcript,
		Reply:      proposal.Reply,
		AudioURL:   audioURL,
		State:      state,
	}, nil
}
