package vision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hammamikhairi/nutriplan/internal/logger"
)

func newTestServer(t *testing.T, status int, body string, inspect func(r *http.Request, p payload)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var p payload
		if err := json.Unmarshal(raw, &p); err != nil {
			t.Errorf("request body is not a chat payload: %v", err)
		}
		if inspect != nil {
			inspect(r, p)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestClientChatSendsImage(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, chatReply("hello"), func(r *http.Request, p payload) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if p.Model != DefaultModel {
			t.Errorf("model = %q, want %q", p.Model, DefaultModel)
		}
		if len(p.Messages) != 1 || len(p.Messages[0].Content) != 2 {
			t.Errorf("unexpected messages: %+v", p.Messages)
			return
		}
		img := p.Messages[0].Content[1]
		if img.Type != "image_url" || img.ImageURL == nil || img.ImageURL.URL != "data:image/png;base64,AAAA" {
			t.Errorf("image block = %+v", img)
		}
	})

	c := NewClient("sk-test", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL))
	reply, err := c.Chat(context.Background(), []Message{ImageMessage("what is this", "data:image/png;base64,AAAA")})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q", reply)
	}
}

func TestClientAzureHeader(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, chatReply("ok"), func(r *http.Request, p payload) {
		if got := r.Header.Get("api-key"); got != "azure-key" {
			t.Errorf("api-key = %q", got)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("bearer header should not be set")
		}
		if p.Model != "" {
			t.Errorf("model = %q, want omitted", p.Model)
		}
	})
	c := NewClient("azure-key", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL), WithAPIKeyHeader(), WithModel(""))
	if _, err := c.Chat(context.Background(), []Message{TextMessage(RoleUser, "hi")}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestClientErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantCode string
	}{
		{"unauthorized", 401, `{"error":{"message":"bad key","code":"invalid_api_key"}}`, KindAuth, "invalid_api_key"},
		{"rate limit", 429, `{"error":{"message":"slow down","code":"rate_limit_exceeded"}}`, KindRateLimited, "rate_limit_exceeded"},
		{"quota", 429, `{"error":{"message":"no credits","type":"insufficient_quota","code":"insufficient_quota"}}`, KindRateLimited, "insufficient_quota"},
		{"server error", 503, `oops`, KindNetwork, ""},
		{"bad request", 400, `{"error":{"message":"bad","type":"invalid_request_error"}}`, KindUnknown, "invalid_request_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			c := NewClient("k", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL))
			_, err := c.Chat(context.Background(), []Message{TextMessage(RoleUser, "hi")})
			if got := KindOf(err); got != tt.wantKind {
				t.Fatalf("kind = %s, want %s (err %v)", got, tt.wantKind, err)
			}
			ve := err.(*Error)
			if ve.Status != tt.status || ve.Code != tt.wantCode {
				t.Errorf("status/code = %d/%q, want %d/%q", ve.Status, ve.Code, tt.status, tt.wantCode)
			}
		})
	}
}

func TestClientEmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"choices":[]}`, nil)
	c := NewClient("k", logger.New(logger.LevelOff, nil), WithEndpoint(srv.URL))
	_, err := c.Chat(context.Background(), []Message{TextMessage(RoleUser, "hi")})
	if KindOf(err) != KindMalformedResponse {
		t.Fatalf("expected malformed response, got %v", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient("k", logger.New(logger.LevelOff, nil), WithEndpoint(url))
	_, err := c.Chat(context.Background(), []Message{TextMessage(RoleUser, "hi")})
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}
