package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPClientSendsBase64Document(t *testing.T) {
	var gotReq extractRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"markdown": "# Jane Doe\nBackend Engineer"},
		})
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	document := []byte("%PDF-1.4 fake")
	text, err := client.Extract(context.Background(), document)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") {
		t.Fatalf("unexpected text %q", text)
	}
	if gotReq.Input != base64.StdEncoding.EncodeToString(document) {
		t.Fatalf("expected base64 document in request")
	}
	if gotReq.Model != "test-model" || gotReq.ParseMode != "auto" {
		t.Fatalf("unexpected request fields %+v", gotReq)
	}
}

func TestHTTPClientFallsBackToContentField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": "plain content"})
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	text, err := client.Extract(context.Background(), []byte("doc"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "plain content" {
		t.Fatalf("expected content fallback, got %q", text)
	}
}

func TestHTTPClientUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad document", http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient("test-key", "test-model", srv.URL)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	_, err = client.Extract(context.Background(), []byte("doc"))
	if err == nil || !strings.Contains(err.Error(), "PDF parsing failed (422)") {
		t.Fatalf("expected upstream failure error, got %v", err)
	}
}
