// Package server exposes the turn orchestrator over HTTP: one multipart
// endpoint per voice turn, a standalone synthesis endpoint for greetings,
// and a liveness probe.
package server

import (
	"context"
	"net/http"

	orchestration "github.com/koscakluka/barista-core/core"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TurnHandler is the orchestrator surface the transport depends on.
type TurnHandler interface {
	HandleTurn(ctx context.Context, audio []byte, priorStateRaw []byte) (*orchestration.Turn, error)
}

type Handler struct {
	Turns  TurnHandler
	Speech orchestration.TextToSpeechClient
}

func NewRouter(handler *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/server", handler.Speak)
	mux.HandleFunc("/chat-with-voice", handler.ChatWithVoice)

	return otelhttp.NewHandler(mux, "barista-server")
}
