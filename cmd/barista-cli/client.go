package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/koscakluka/barista-core/core/orders"
)

// turnResult mirrors the server's turn response. The updated state is kept
// raw: the client owns it only as an opaque value to round-trip.
type turnResult struct {
	UserTranscript string          `json:"user_transcript"`
	AIText         string          `json:"ai_text"`
	AudioURL       string          `json:"audio_url"`
	UpdatedState   json.RawMessage `json:"updated_state"`
}

type turnClient struct {
	serverURL  string
	httpClient *http.Client
}

func (c *turnClient) submitTurn(wav []byte, state json.RawMessage) (*turnResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "turn.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return nil, fmt.Errorf("failed to write audio: %w", err)
	}
	if len(state) > 0 {
		if err := writer.WriteField("current_state", string(state)); err != nil {
			return nil, fmt.Errorf("failed to write state field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	resp, err := c.httpClient.Post(c.serverURL+"/chat-with-voice", writer.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to submit turn: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &failure); err == nil && failure.Error != "" {
			return nil, fmt.Errorf("%s", failure.Error)
		}
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var result turnResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode turn response: %w", err)
	}
	return &result, nil
}

func decodeSlots(state json.RawMessage) orders.State {
	return orders.DecodeState(state)
}
