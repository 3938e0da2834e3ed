// Package deepgram transcribes prerecorded audio clips through Deepgram's
// REST API.
package deepgram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"
	"github.com/koscakluka/barista-core/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type TranscriptionClient struct {
	client *api.Client
}

// NewTranscriptionClient creates a prerecorded transcription client. An
// empty apiKey falls back to the DEEPGRAM_API_KEY environment variable.
func NewTranscriptionClient(apiKey string) *TranscriptionClient {
	restClient := listen.NewREST(apiKey, &interfaces.ClientOptions{})
	return &TranscriptionClient{client: api.New(restClient)}
}

// Transcribe sends one audio clip and returns its transcript. The clip's
// container format is detected by the API. An empty transcript (no speech
// detected) is returned as "" with a nil error.
func (c *TranscriptionClient) Transcribe(ctx context.Context, audio []byte, opts ...speechtotext.TranscriptionOption) (string, error) {
	ctx, span := tracer.Start(ctx, "transcribe audio clip")
	defer span.End()

	options := speechtotext.DefaultTranscriptionOptions()
	for _, opt := range opts {
		opt(&options)
	}

	span.SetAttributes(
		attribute.String("request.model", options.Model),
		attribute.Int("request.audio_bytes", len(audio)),
	)

	response, err := c.client.FromStream(ctx, bytes.NewReader(audio), &interfaces.PreRecordedTranscriptionOptions{
		Model:       options.Model,
		Language:    options.Language,
		SmartFormat: options.SmartFormat,
	})
	if err != nil {
		err = fmt.Errorf("failed to transcribe audio: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if len(response.Results.Channels) == 0 ||
		len(response.Results.Channels[0].Alternatives) == 0 {
		logger.WarnContext(ctx, "transcription response carried no alternatives")
		return "", nil
	}

	transcript := strings.TrimSpace(response.Results.Channels[0].Alternatives[0].Transcript)
	span.SetAttributes(attribute.Int("response.transcript_length", len(transcript)))
	return transcript, nil
}
