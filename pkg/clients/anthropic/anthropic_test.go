package anthropic

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string, retries int) Client {
	return NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		MaxRetries: retries,
		RetryWait:  time.Millisecond,
		Timeout:    5 * time.Second,
	})
}

func TestExtractJSONRetriesOverload(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if r.Header.Get("x-api-key") != "test-key" || r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected request %s key=%q", r.URL.Path, r.Header.Get("x-api-key"))
		}
		if n < 3 {
			w.WriteHeader(statusOverloaded)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
			return
		}

		var req messageRequest
		var raw struct {
			Messages []struct {
				Role    string          `json:"role"`
				Content json.RawMessage `json:"content"`
			} `json:"messages"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		_ = json.Unmarshal(body, &raw)
		if req.Model != "test-model" || len(raw.Messages) != 2 || string(raw.Messages[1].Content) != `"{"` {
			t.Errorf("unexpected body: %s", body)
		}
		if !strings.Contains(string(raw.Messages[0].Content), base64.StdEncoding.EncodeToString([]byte("%PDF"))) {
			t.Errorf("document not sent as base64: %s", raw.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"\"date\":\"2026-10-16\"}"}]}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL, 3).ExtractJSON(context.Background(), "read it", Document{MediaType: "application/pdf", Data: []byte("%PDF")})
	if err != nil {
		t.Fatalf("ExtractJSON: %v", err)
	}
	if string(out) != `{"date":"2026-10-16"}` {
		t.Fatalf("unexpected output %s", out)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestExtractJSONErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retries   int
		wantCalls int32
	}{
		{name: "retries exhausted", status: http.StatusServiceUnavailable, retries: 2, wantCalls: 3},
		{name: "rate limited", status: http.StatusTooManyRequests, retries: 1, wantCalls: 2},
		{name: "bad request is terminal", status: http.StatusBadRequest, retries: 3, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"x","message":"nope"}}`))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, tt.retries).ExtractJSON(context.Background(), "read", Document{MediaType: "image/png", Data: []byte{1}})
			if !errors.Is(err, ErrAPI) || !strings.Contains(err.Error(), "nope") {
				t.Fatalf("expected api error, got %v", err)
			}
			if calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                  `{"a":1}`,
		"{```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":      `{"a":1}`,
	}
	for in, want := range tests {
		if got := cleanJSON(in); got != want {
			t.Errorf("cleanJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
