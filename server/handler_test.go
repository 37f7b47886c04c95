package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SaiNageswarS/shop-assist/assistant"
	"github.com/SaiNageswarS/shop-assist/catalog"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeAssistant struct {
	result    *assistant.ChatResult
	err       error
	known     map[string]bool
	gotQuery  string
	gotID     string
	callCount int
}

func (f *fakeAssistant) HandleQuery(_ context.Context, query, sessionID string) (*assistant.ChatResult, error) {
	f.callCount++
	f.gotQuery, f.gotID = query, sessionID
	return f.result, f.err
}

func (f *fakeAssistant) ResetSession(sessionID string) bool { return f.known[sessionID] }

func (f *fakeAssistant) Stats() assistant.Stats {
	return assistant.Stats{ActiveSessions: len(f.known), Domain: catalog.Gaming}
}

func do(t *testing.T, asst Assistant, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := New(asst)
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestChat(t *testing.T) {
	game := catalog.NewGamingProduct("Portal 2", "$9.99", "img", "https://store.steampowered.com/app/620",
		catalog.GamingAttrs{Genres: "Puzzle", Developers: "Valve", Publishers: "Valve", ReleaseDate: "Apr 18, 2011", MetacriticScore: "95"})
	asst := &fakeAssistant{result: &assistant.ChatResult{
		Response:  "Try Portal 2.",
		Products:  []catalog.Product{game},
		SessionID: "s-1",
	}}

	rec := do(t, asst, http.MethodPost, "/api/chat", `{"query":"co-op puzzle games","session_id":"s-0"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "co-op puzzle games", asst.gotQuery)
	assert.Equal(t, "s-0", asst.gotID)

	body := decode(t, rec)
	assert.Equal(t, "Try Portal 2.", body["response"])
	assert.Equal(t, "s-1", body["session_id"])
	products := body["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, map[string]any{
		"name":             "Portal 2",
		"price":            "$9.99",
		"image_url":        "img",
		"product_link":     "https://store.steampowered.com/app/620",
		"genres":           "Puzzle",
		"developers":       "Valve",
		"publishers":       "Valve",
		"release_date":     "Apr 18, 2011",
		"metacritic_score": "95",
	}, products[0])
}

func TestChatEmptyProductsIsArray(t *testing.T) {
	asst := &fakeAssistant{result: &assistant.ChatResult{Response: "Nothing matched.", Products: []catalog.Product{}, SessionID: "s"}}

	rec := do(t, asst, http.MethodPost, "/api/chat", `{"query":"a spacesuit"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":[]`)
}

func TestChatBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{"session_id":"s"}`},
		{"blank query", `{"query":"   "}`},
		{"malformed json", `{"query":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asst := &fakeAssistant{}
			rec := do(t, asst, http.MethodPost, "/api/chat", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
			assert.Equal(t, 0, asst.callCount)
		})
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid argument", status.Error(codes.InvalidArgument, "query is required"), http.StatusBadRequest, "query is required"},
		{"upstream unavailable", status.Error(codes.Unavailable, "language model unavailable"), http.StatusInternalServerError, "language model unavailable"},
		{"plain error hides detail", errors.New("dial tcp 10.0.0.1:11434: refused"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, &fakeAssistant{err: tt.err}, http.MethodPost, "/api/chat", `{"query":"shirts"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec)["error"])
		})
	}
}

func TestReset(t *testing.T) {
	asst := &fakeAssistant{known: map[string]bool{"s-1": true}}

	rec := do(t, asst, http.MethodPost, "/api/reset", `{"session_id":"s-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "session_id": "s-1"}, decode(t, rec))

	rec = do(t, asst, http.MethodPost, "/api/reset", `{"session_id":"nope"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = do(t, asst, http.MethodPost, "/api/reset", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndStatus(t *testing.T) {
	asst := &fakeAssistant{known: map[string]bool{"a": true, "b": true}}

	rec := do(t, asst, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decode(t, rec))

	rec = do(t, asst, http.MethodGet, "/api/session/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"active_sessions": float64(2), "domain": "gaming"}, decode(t, rec))
}
