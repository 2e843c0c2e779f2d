package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTranslateSkipsShortPhrases(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	tests := []struct {
		name string
		in   string
	}{
		{"single word", "hello"},
		{"empty", ""},
		{"whitespace only", "   "},
		{"padded single word", "  yes  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Translate(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("translate: %v", err)
			}
			if got != tt.in {
				t.Errorf("expected %q unchanged, got %q", tt.in, got)
			}
		})
	}
	if calls != 0 {
		t.Errorf("expected no network calls for short phrases, got %d", calls)
	}
}

func TestTranslateImprovesSentences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/improve" {
			t.Errorf("expected /improve, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "hello thank you" {
			t.Errorf("unexpected request text %q", req.Text)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "Hello, thank you!"})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	got, err := client.Translate(context.Background(), "hello thank you")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Hello, thank you!" {
		t.Errorf("expected the improved sentence, got %q", got)
	}
}

func TestTranslateStripsQuotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": `"Please help me."`})
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	got, err := client.Translate(context.Background(), "please help")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Please help me." {
		t.Errorf("expected quotes stripped, got %q", got)
	}
}

func TestTranslateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.Translate(context.Background(), "hello thank you")
	if err == nil {
		t.Fatal("expected an error for a 503")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("expected the response body in the error, got %v", err)
	}
}

func TestTranslateMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{broken"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	if _, err := client.Translate(context.Background(), "hello thank you"); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestTranslateUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	client := New(srv.URL, time.Second)
	if _, err := client.Translate(context.Background(), "hello thank you"); err == nil {
		t.Fatal("expected a connection error")
	}
}

func TestTranslateContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body) // consume the body so the server can observe the disconnect
		<-r.Context().Done()        // hold the response until the caller gives up
	}))
	defer srv.Close()

	client := New(srv.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Translate(ctx, "hello thank you"); err == nil {
		t.Fatal("expected a context deadline error")
	}
}
