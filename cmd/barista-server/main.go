package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	orchestration "github.com/koscakluka/barista-core/core"
	"github.com/koscakluka/barista-core/core/llms/gemini"
	"github.com/koscakluka/barista-core/core/llms/groq"
	"github.com/koscakluka/barista-core/core/orders"
	"github.com/koscakluka/barista-core/core/speechtotext/deepgram"
	"github.com/koscakluka/barista-core/core/texttospeech/murf"
	"github.com/koscakluka/barista-core/server"
)

const (
	defaultGroqModel   = "llama-3.3-70b-versatile"
	defaultGeminiModel = "gemini-2.0-flash"
)

func main() {
	addr := os.Getenv("BARISTA_LISTEN_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	ordersPath := os.Getenv("BARISTA_ORDERS_PATH")
	if ordersPath == "" {
		ordersPath = "completed_orders.json"
	}

	sink, err := orders.OpenSink(ordersPath)
	if err != nil {
		log.Fatalf("order sink error: %v", err)
	}
	defer sink.Close()

	speechToText := deepgram.NewTranscriptionClient(os.Getenv("DEEPGRAM_API_KEY"))
	textToSpeech := murf.NewClient(os.Getenv("MURF_AI_API_KEY"))

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithSpeechToTextClient(speechToText),
		orchestration.WithReasoningClient(newReasoningClient()),
		orchestration.WithTextToSpeechClient(textToSpeech),
		orchestration.WithOrderSink(sink),
	)

	srv := &http.Server{
		Addr: addr,
		Handler: server.NewRouter(&server.Handler{
			Turns:  orchestrator,
			Speech: textToSpeech,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("barista-server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newReasoningClient() orchestration.ReasoningClient {
	model := os.Getenv("BARISTA_REASONING_MODEL")

	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		if model == "" {
			model = defaultGroqModel
		}
		return groq.NewClient(apiKey, model)
	}

	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		if model == "" {
			model = defaultGeminiModel
		}
		client, err := gemini.NewClient(context.Background(), apiKey, model)
		if err != nil {
			log.Fatalf("gemini client error: %v", err)
		}
		return client
	}

	log.Fatal("no reasoning backend configured: set GROQ_API_KEY or GOOGLE_API_KEY")
	return nil
}
