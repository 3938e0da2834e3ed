package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	orchestration "github.com/koscakluka/barista-core/core"
	"github.com/koscakluka/barista-core/core/orders"
)

// maxTurnBytes bounds one multipart turn submission (audio + state).
const maxTurnBytes = 25 << 20

type turnResponse struct {
	UserTranscript string       `json:"user_transcript"`
	AIText         string       `json:"ai_text"`
	AudioURL       string       `json:"audio_url"`
	UpdatedState   orders.State `json:"updated_state"`
}

type speakRequest struct {
	Text string `json:"text"`
}

type speakResponse struct {
	AudioURL string `json:"audioUrl"`
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<h1>Barista Agent Running ☕</h1>")
}

// ChatWithVoice handles one voice turn: multipart audio file plus the
// caller's serialized order state in, transcript, reply, audio reference and
// the new state out.
func (h *Handler) ChatWithVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxTurnBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}

	priorStateRaw := []byte(r.FormValue("current_state"))

	turn, err := h.Turns.HandleTurn(r.Context(), audio, priorStateRaw)
	if err != nil {
		if errors.Is(err, orchestration.ErrNoSpeechDetected) {
			writeError(w, http.StatusBadRequest, "No speech detected")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		UserTranscript: turn.Transcript,
		AIText:         turn.Reply,
		AudioURL:       turn.AudioURL,
		UpdatedState:   turn.State,
	})
}

// Speak synthesizes arbitrary text, used by clients to voice the opening
// greeting before any turn has happened.
func (h *Handler) Speak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "missing text")
		return
	}

	audioURL, err := h.Speech.Synthesize(r.Context(), req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, speakResponse{AudioURL: audioURL})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
