package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"chatterbox/pkg/chat"
	"chatterbox/pkg/history"
	"chatterbox/pkg/models"
	"chatterbox/pkg/openai"
	"chatterbox/pkg/prompt"
)

type stubCompleter struct {
	configured bool
	reply      string
	err        error
}

func (s *stubCompleter) Send(context.Context, []openai.ChatMessage) (string, error) {
	return s.reply, s.err
}

func (s *stubCompleter) IsConfigured() bool { return s.configured }

func newRouter(t *testing.T, c chat.Completer) (*mux.Router, *history.Store) {
	t.Helper()
	store := history.New(t.TempDir())
	svc := chat.NewService(store, c, prompt.NewBuilder(10))
	r := mux.NewRouter()
	RegisterChat(r.PathPrefix("/v1").Subrouter(), Deps{Service: svc, Store: store, MaxMsgLen: 2000})
	return r, store
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSendMessageHappyPath(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: true, reply: "Hej! Hur kan jag hjälpa dig?"})

	rr := doJSON(t, r, http.MethodPost, "/v1/chat/send", `{"message":"Hej"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success     bool             `json:"success"`
		UserMessage string           `json:"userMessage"`
		AIResponse  string           `json:"aiResponse"`
		ChatHistory []models.Message `json:"chatHistory"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.UserMessage != "Hej" || resp.AIResponse != "Hej! Hur kan jag hjälpa dig?" {
		t.Fatalf("response = %+v", resp)
	}
	if len(resp.ChatHistory) != 2 || resp.ChatHistory[0].Role != models.RoleAssistant {
		t.Fatalf("history in response must be newest-first: %+v", resp.ChatHistory)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d messages", store.Len())
	}
}

func TestSendMessageSanitizes(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: true, reply: "ok"})
	rr := doJSON(t, r, http.MethodPost, "/v1/chat/send", `{"message":"<b>hej</b>"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	asc := store.Ascending()
	if asc[0].Content != "&lt;b&gt;hej&lt;/b&gt;" {
		t.Fatalf("recorded message not sanitized: %q", asc[0].Content)
	}
}

func TestSendMessageValidation(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: true, reply: "ok"})

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `not json`, `{"message":"` + strings.Repeat("x", 2001) + `"}`} {
		rr := doJSON(t, r, http.MethodPost, "/v1/chat/send", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %.20q: status = %d", body, rr.Code)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("rejected requests must not touch the session")
	}
}

func TestSendMessageNotConfigured(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: false})
	rr := doJSON(t, r, http.MethodPost, "/v1/chat/send", `{"message":"Hej"}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("unconfigured send must not record messages")
	}
}

func TestSendMessageUpstreamFailure(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: true, err: &openai.RequestError{Status: 500, Body: "x"}})
	rr := doJSON(t, r, http.MethodPost, "/v1/chat/send", `{"message":"Hej"}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
	// the user message stays recorded even when the reply fails
	if store.Len() != 1 {
		t.Fatalf("store has %d messages, want 1", store.Len())
	}
}

func TestGetHistory(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: true})
	store.AddMessage(models.RoleUser, "a")
	store.AddMessage(models.RoleAssistant, "b")

	rr := doJSON(t, r, http.MethodGet, "/v1/chat/history", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Messages []models.Message `json:"messages"`
		Count    int              `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Messages[0].Content != "b" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestClearHistory(t *testing.T) {
	r, store := newRouter(t, &stubCompleter{configured: true})
	store.AddMessage(models.RoleUser, "a")

	rr := doJSON(t, r, http.MethodPost, "/v1/chat/clear", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if store.Len() != 0 {
		t.Fatalf("session not cleared")
	}
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t, &stubCompleter{configured: false})
	rr := doJSON(t, r, http.MethodGet, "/v1/chat/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Status     string `json:"status"`
		Configured bool   `json:"configured"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" || resp.Configured {
		t.Fatalf("response = %+v", resp)
	}
}

func TestListFilesEmpty(t *testing.T) {
	r, _ := newRouter(t, &stubCompleter{configured: true})
	rr := doJSON(t, r, http.MethodGet, "/v1/chat/files", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Files []string `json:"files"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Files == nil || len(resp.Files) != 0 {
		t.Fatalf("expected empty array, got %v", resp.Files)
	}
}
