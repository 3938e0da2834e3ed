// Package gemini implements a reasoning backend on the Gemini API using JSON
// response mode. Unlike the groq backend it does not enforce a reflected
// schema server-side, so the expected shape must be spelled out in the
// instructions.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/koscakluka/barista-core/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey string, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// PromptJSON sends a single generation request in JSON response mode and
// unmarshals the returned document into output. The call is made exactly
// once: a malformed response is returned as an error, not repaired.
func (c *Client) PromptJSON(ctx context.Context, prompt string, output any, opts ...llms.StructuredPromptOption) error {
	ctx, span := tracer.Start(ctx, "prompt llm structured")
	defer span.End()

	options := llms.StructuredPromptOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if options.Instructions != "" {
		config.SystemInstruction = genai.NewContentFromText(options.Instructions, genai.RoleUser)
	}
	if options.Temperature != nil {
		temperature := float32(*options.Temperature)
		config.Temperature = &temperature
	}

	span.SetAttributes(attribute.String("request.model", c.model))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		err = fmt.Errorf("error generating content: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	content := resp.Text()
	if content == "" {
		err := fmt.Errorf("empty response content")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if split := strings.Split(content, "```"); len(split) > 1 {
		content = strings.TrimPrefix(split[1], "json")
	}

	if err := json.Unmarshal([]byte(content), output); err != nil {
		err = fmt.Errorf("error unmarshalling response content: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	logger.DebugContext(ctx, "structured prompt completed", "model", c.model)
	return nil
}
