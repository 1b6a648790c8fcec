package dmx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model", "http://example.com"); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("key", "", "http://example.com"); err == nil {
		t.Fatalf("expected error for missing model")
	}
	if _, err := NewClient("key", "model", ""); err == nil {
		t.Fatalf("expected error for missing url")
	}
}

func TestStructureResumeSendsPromptAndReturnsJSON(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"full_name":"Jane Doe"}`}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	raw, err := client.StructureResume(context.Background(), "resume text here")
	if err != nil {
		t.Fatalf("StructureResume: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Fatalf("expected model in request, got %q", gotReq.Model)
	}
	if gotReq.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format, got %q", gotReq.ResponseFormat.Type)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("expected system + user messages, got %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[1].Content, "resume text here") {
		t.Fatalf("expected resume text in user message")
	}

	var parsed struct {
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if parsed.FullName != "Jane Doe" {
		t.Fatalf("unexpected result %+v", parsed)
	}
}

func TestStructureResumeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.StructureResume(context.Background(), "text")
	if err == nil || !strings.Contains(err.Error(), "LLM processing failed (429)") {
		t.Fatalf("expected upstream failure error, got %v", err)
	}
}

func TestStructureResumeRejectsNonJSONContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Sure! Here is the JSON you asked for"}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.StructureResume(context.Background(), "text"); err == nil {
		t.Fatalf("expected error for non-JSON content")
	}
}
