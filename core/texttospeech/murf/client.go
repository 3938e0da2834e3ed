// Package murf synthesizes speech through Murf's generate API, which hosts
// the result and returns a URL to the audio file.
package murf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/koscakluka/barista-core/core/texttospeech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultURL = "https://api.murf.ai/v1/speech/generate"

type Client struct {
	apiKey string
	url    string

	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		url:    defaultURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Synthesize converts text to speech and returns the URL of the hosted
// audio file.
func (c *Client) Synthesize(ctx context.Context, text string, opts ...texttospeech.SynthesisOption) (string, error) {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	options := texttospeech.DefaultSynthesisOptions()
	for _, opt := range opts {
		opt(&options)
	}

	span.SetAttributes(
		attribute.String("request.voice_id", options.VoiceID),
		attribute.Int("request.text_length", len(text)),
	)

	requestBodyBytes, err := json.Marshal(generateRequestBody{
		Text:              text,
		VoiceID:           options.VoiceID,
		Style:             options.Style,
		MultiNativeLocale: options.Locale,
	})
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}

		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	var responseBody generateResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&responseBody); err != nil {
		err = fmt.Errorf("error unmarshalling response: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	if responseBody.AudioFile == "" {
		err := fmt.Errorf("no audio file in response")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	logger.DebugContext(ctx, "synthesized speech", "voice_id", options.VoiceID)
	return responseBody.AudioFile, nil
}

type generateRequestBody struct {
	Text              string `json:"text"`
	VoiceID           string `json:"voice_id"`
	Style             string `json:"style,omitempty"`
	MultiNativeLocale string `json:"multiNativeLocale,omitempty"`
}

type generateResponseBody struct {
	AudioFile string `json:"audioFile"`
}
