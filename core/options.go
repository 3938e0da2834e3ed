package orchestration

import (
	"context"

	"github.com/koscakluka/barista-core/core/llms"
	"github.com/koscakluka/barista-core/core/orders"
	"github.com/koscakluka/barista-core/core/speechtotext"
	"github.com/koscakluka/barista-core/core/texttospeech"
)

type OrchestratorOption func(*Orchestrator)

type SpeechToTextClient interface {
	Transcribe(ctx context.Context, audio []byte, opts ...speechtotext.TranscriptionOption) (string, error)
}

func WithSpeechToTextClient(client SpeechToTextClient) OrchestratorOption {
	return func(o *Orchestrator) {
		o.speechToText = client
	}
}

type ReasoningClient interface {
	PromptJSON(ctx context.Context, prompt string, output any, opts ...llms.StructuredPromptOption) error
}

func WithReasoningClient(client ReasoningClient) OrchestratorOption {
	return func(o *Orchestrator) {
		o.reasoning = client
	}
}

type TextToSpeechClient interface {
	Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (string, error)
}

func WithTextToSpeechClient(client TextToSpeechClient) OrchestratorOption {
	return func(o *Orchestrator) {
		o.textToSpeech = client
	}
}

type OrderSink interface {
	Append(entry orders.CompletedOrder) error
}

func WithOrderSink(sink OrderSink) OrchestratorOption {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}
