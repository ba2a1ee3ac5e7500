package ai

import (
	"AdStudio/internal/gemini"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestGeminiTextClient_SendRequest(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotTemp float64
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotTemp = gjson.GetBytes(b, "generationConfig.temperature").Float()
		gotPrompt = gjson.GetBytes(b, "contents.0.parts.0.text").String()
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  Nouveau spot !  "}]}}]}`))
	}))
	defer srv.Close()

	api := gemini.NewTransport(srv.URL, "k", nil).WithHTTPClient(srv.Client())
	c := NewGeminiTextClient(api, "")
	out, err := c.SendRequest(context.Background(), "réécris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "  Nouveau spot !  " {
		t.Errorf("out = %q", out)
	}
	if gotPath != "/models/"+DefaultGeminiModel+":generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotTemp != 1 {
		t.Errorf("temperature = %v, want 1", gotTemp)
	}
	if gotPrompt != "réécris" {
		t.Errorf("prompt = %q", gotPrompt)
	}
}

func TestGeminiTextClient_Blocked(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewGeminiTextClient(gemini.NewTransport(srv.URL, "k", nil).WithHTTPClient(srv.Client()), "m")
	_, err := c.SendRequest(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Errorf("err = %v, want block reason", err)
	}
}

func TestStubClient_EchoesSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"source", "CONSIGNES\nTexte source: \"Achetez \"maintenant\"\"\nRenvoie UNIQUEMENT le texte.", "Achetez \"maintenant\""},
		{"no marker", "bonjour", "запрос получен"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewStubClient().SendRequest(context.Background(), tt.prompt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

var _ Client = (*GeminiTextClient)(nil)
var _ Client = (*TextClient)(nil)
var _ Client = (*StubClient)(nil)
