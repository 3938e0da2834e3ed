package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/koscakluka/barista-core/core/llms"
)

type testOutput struct {
	Answer string `json:"answer"`
}

func newTestClient(serverURL string) *Client {
	client := NewClient("test-key", "test-model")
	client.url = serverURL
	return client
}

func TestPromptJSONSendsSchemaConstrainedRequest(t *testing.T) {
	var captured schemaRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"answer\":\"42\"}"}}]}`))
	}))
	defer server.Close()

	var output testOutput
	err := newTestClient(server.URL).PromptJSON(context.Background(), "the question", &output,
		llms.WithInstructions("be brief"),
	)
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}

	if output.Answer != "42" {
		t.Fatalf("expected decoded answer, got %+v", output)
	}
	if captured.Model != "test-model" {
		t.Fatalf("expected model in request, got %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != messageRoleSystem {
		t.Fatalf("expected system+user messages, got %+v", captured.Messages)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected json_schema response format, got %+v", captured.ResponseFormat)
	}
	if captured.ResponseFormat.JSONSchema.Name != "testOutput" {
		t.Fatalf("expected schema named after output type, got %q", captured.ResponseFormat.JSONSchema.Name)
	}
}

func TestPromptJSONUnwrapsFencedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{\"choices\":[{\"message\":{\"content\":\"```{\\\"answer\\\":\\\"fenced\\\"}```\"}}]}"))
	}))
	defer server.Close()

	var output testOutput
	if err := newTestClient(server.URL).PromptJSON(context.Background(), "q", &output); err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if output.Answer != "fenced" {
		t.Fatalf("expected fenced content decoded, got %+v", output)
	}
}

func TestPromptJSONFailsOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer server.Close()

	var output testOutput
	if err := newTestClient(server.URL).PromptJSON(context.Background(), "q", &output); err == nil {
		t.Fatal("expected an error for a non-OK status")
	}
}

func TestPromptJSONFailsOnMalformedContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"not json"}}]}`))
	}))
	defer server.Close()

	var output testOutput
	if err := newTestClient(server.URL).PromptJSON(context.Background(), "q", &output); err == nil {
		t.Fatal("expected an error for unparseable content")
	}
}

func TestPromptJSONRejectsNonPointerOutput(t *testing.T) {
	if err := NewClient("k", "m").PromptJSON(context.Background(), "q", testOutput{}); err == nil {
		t.Fatal("expected an error for a non-pointer output")
	}
}
