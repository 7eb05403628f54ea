package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
)

func TestWebhookSink_PostsDigestAsContent(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	sink := NewWebhookSink(WebhookConfig{URL: srv.URL, Timeout: 2 * time.Second}, nil)
	if err := sink.Publish(context.Background(), "AAA added Sidney Crosby, Pit C from Waivers"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if gotContentType != "application/json" {
		t.Fatalf("unexpected content type: %s", gotContentType)
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := sonic.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Content != "AAA added Sidney Crosby, Pit C from Waivers" {
		t.Fatalf("unexpected content: %q", payload.Content)
	}
}

func TestWebhookSink_NonSuccessStatusFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": "invalid payload"}`))
	}))
	t.Cleanup(srv.Close)

	sink := NewWebhookSink(WebhookConfig{URL: srv.URL, Timeout: 2 * time.Second}, nil)
	if err := sink.Publish(context.Background(), "digest"); err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestWebhookSink_CancelledContext(t *testing.T) {
	t.Parallel()

	sink := NewWebhookSink(WebhookConfig{URL: "http://127.0.0.1:0/hook"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sink.Publish(ctx, "digest"); err == nil {
		t.Fatal("expected context error")
	}
}
