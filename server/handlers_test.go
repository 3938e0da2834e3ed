package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	orchestration "github.com/koscakluka/barista-core/core"
	"github.com/koscakluka/barista-core/core/orders"
	"github.com/koscakluka/barista-core/core/texttospeech"
)

type fakeTurnHandler struct {
	turn *orchestration.Turn
	err  error

	lastAudio    []byte
	lastStateRaw []byte
}

func (f *fakeTurnHandler) HandleTurn(_ context.Context, audio []byte, priorStateRaw []byte) (*orchestration.Turn, error) {
	f.lastAudio = audio
	f.lastStateRaw = priorStateRaw
	if f.err != nil {
		return nil, f.err
	}
	return f.turn, nil
}

type fakeSpeech struct {
	audioURL string
	err      error
}

func (f *fakeSpeech) Synthesize(_ context.Context, _ string, _ ...texttospeech.SynthesisOption) (string, error) {
	return f.audioURL, f.err
}

func multipartTurnRequest(t *testing.T, audio []byte, state string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "turn.wav")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(audio); err != nil {
		t.Fatalf("failed to write audio: %v", err)
	}
	if state != "" {
		if err := writer.WriteField("current_state", state); err != nil {
			t.Fatalf("failed to write state field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat-with-voice", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthReturnsConfirmation(t *testing.T) {
	router := NewRouter(&Handler{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Barista Agent Running") {
		t.Fatalf("unexpected health body: %q", rec.Body.String())
	}
}

func TestChatWithVoiceReturnsTurn(t *testing.T) {
	drink := "latte"
	turns := &fakeTurnHandler{turn: &orchestration.Turn{
		Transcript: "large latte with oat milk",
		Reply:      "Great, can I get a name for the order?",
		AudioURL:   "https://cdn.example.com/reply.mp3",
		State:      orders.State{DrinkType: &drink, Extras: []string{}},
	}}
	router := NewRouter(&Handler{Turns: turns})

	state := `{"drinkType":null,"size":null,"milk":null,"extras":[],"name":null,"is_complete":false}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartTurnRequest(t, []byte("audio-bytes"), state))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		UserTranscript string       `json:"user_transcript"`
		AIText         string       `json:"ai_text"`
		AudioURL       string       `json:"audio_url"`
		UpdatedState   orders.State `json:"updated_state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserTranscript != "large latte with oat milk" {
		t.Fatalf("unexpected transcript: %q", resp.UserTranscript)
	}
	if resp.AIText == "" || resp.AudioURL == "" {
		t.Fatalf("expected reply and audio url, got %+v", resp)
	}
	if resp.UpdatedState.DrinkType == nil || *resp.UpdatedState.DrinkType != "latte" {
		t.Fatalf("expected updated state in response, got %+v", resp.UpdatedState)
	}

	if string(turns.lastAudio) != "audio-bytes" {
		t.Fatalf("expected audio forwarded to the orchestrator, got %q", turns.lastAudio)
	}
	if string(turns.lastStateRaw) != state {
		t.Fatalf("expected state forwarded verbatim, got %q", turns.lastStateRaw)
	}
}

func TestChatWithVoiceNoSpeechIsClientError(t *testing.T) {
	router := NewRouter(&Handler{Turns: &fakeTurnHandler{err: orchestration.ErrNoSpeechDetected}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartTurnRequest(t, []byte("silence"), ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No speech detected") {
		t.Fatalf("unexpected error body: %q", rec.Body.String())
	}
}

func TestChatWithVoiceCollaboratorFailureIsServerError(t *testing.T) {
	router := NewRouter(&Handler{Turns: &fakeTurnHandler{err: errors.New("upstream exploded")}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartTurnRequest(t, []byte("audio"), ""))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "upstream exploded") {
		t.Fatalf("expected the failure description, got %q", rec.Body.String())
	}
}

func TestChatWithVoiceMissingFileIsClientError(t *testing.T) {
	router := NewRouter(&Handler{Turns: &fakeTurnHandler{}})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("current_state", "{}")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/chat-with-voice", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatWithVoiceRejectsGet(t *testing.T) {
	router := NewRouter(&Handler{Turns: &fakeTurnHandler{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat-with-voice", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestSpeakReturnsAudioURL(t *testing.T) {
	router := NewRouter(&Handler{Speech: &fakeSpeech{audioURL: "https://cdn.example.com/greeting.mp3"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/server",
		strings.NewReader(`{"text":"Welcome in! What can I get started for you?"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp speakResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AudioURL != "https://cdn.example.com/greeting.mp3" {
		t.Fatalf("unexpected audio url: %q", resp.AudioURL)
	}
}

func TestSpeakMissingTextIsClientError(t *testing.T) {
	router := NewRouter(&Handler{Speech: &fakeSpeech{audioURL: "unused"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/server", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSpeakSynthesisFailureIsServerError(t *testing.T) {
	router := NewRouter(&Handler{Speech: &fakeSpeech{err: errors.New("voice down")}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/server", strings.NewReader(`{"text":"hi"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
