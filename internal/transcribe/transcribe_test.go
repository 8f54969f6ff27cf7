package transcribe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/edgard/healthbot/internal/config"
	"github.com/edgard/healthbot/internal/transcribe"
)

func newTestClient(t *testing.T, handler http.Handler) *transcribe.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return transcribe.NewClient(config.OpenAIConfig{
		BaseURL: srv.URL,
		Token:   "test-token",
		Model:   "whisper-1",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestClient_Transcribe(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("auth header = %q", got)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected a multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected a file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "voice.ogg" {
			t.Errorf("filename = %q", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "Trained legs today, slept poorly."}`))
	}))

	text, err := client.Transcribe(context.Background(), strings.NewReader("fake-ogg-bytes"), "voice.ogg")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Trained legs today, slept poorly." {
		t.Errorf("text = %q", text)
	}
}

func TestClient_TranscribeAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "file too large"}}`, http.StatusBadRequest)
	}))

	_, err := client.Transcribe(context.Background(), strings.NewReader("x"), "voice.ogg")
	if err == nil {
		t.Fatal("expected an error on 400")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should carry the status code, got %v", err)
	}
}
