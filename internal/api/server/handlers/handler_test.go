package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bz888/saturday/internal/api/server/client"
	"github.com/bz888/saturday/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOllamaClient struct {
	mock.Mock
}

func (m *MockOllamaClient) GetModels(ctx context.Context) ([]client.OllamaModel, error) {
	args := m.Called(ctx)
	models, _ := args.Get(0).([]client.OllamaModel)
	return models, args.Error(1)
}

func (m *MockOllamaClient) ChatStream(ctx context.Context, req *client.OllamaChatRequest) (io.ReadCloser, error) {
	args := m.Called(ctx, req)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

func postChat(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.RelayHandler(rec, req)
	return rec
}

func TestRelayForwardsConversationAndStreamsBodyUnmodified(t *testing.T) {
	upstream := `{"message":{"content":"Hi"}}` + "\n" + `{"message":{"content":"!"},"done":true}`
	m := new(MockOllamaClient)
	m.On("ChatStream", mock.Anything, mock.MatchedBy(func(req *client.OllamaChatRequest) bool {
		return req.Model == "gpt-oss:20b" &&
			req.Stream &&
			len(req.Messages) == 2 &&
			req.Messages[1].Role == client.RoleUser &&
			req.Messages[1].Content == "and you?" &&
			string(req.Options) == `{"temperature":0.3}`
	})).Return(io.NopCloser(strings.NewReader(upstream)), nil)

	h := NewHandler(m, "gpt-oss:20b")
	rec := postChat(t, h, `{"messages":[{"role":"assistant","content":"hello"},{"role":"user","content":"and you?"}],"options":{"temperature":0.3}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, upstream, rec.Body.String())
	assert.True(t, rec.Flushed)
	m.AssertExpectations(t)
}

func TestRelayOmitsOptionsWhenAbsent(t *testing.T) {
	m := new(MockOllamaClient)
	m.On("ChatStream", mock.Anything, mock.MatchedBy(func(req *client.OllamaChatRequest) bool {
		return req.Options == nil && len(req.Messages) == 1
	})).Return(io.NopCloser(strings.NewReader("")), nil)

	rec := postChat(t, NewHandler(m, "m"), `{"messages":[{"role":"user","content":"q"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	m.AssertExpectations(t)
}

func TestRelayUpstreamFailure(t *testing.T) {
	m := new(MockOllamaClient)
	m.On("ChatStream", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: chat: 404 Not Found", client.ErrUpstream))

	rec := postChat(t, NewHandler(m, "m"), `{"messages":[]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Ollama request failed", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRelayUndecodableBodyFailsLikeUpstream(t *testing.T) {
	m := new(MockOllamaClient)
	rec := postChat(t, NewHandler(m, "m"), `{"messages":`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Ollama request failed", rec.Body.String())
	m.AssertNotCalled(t, "ChatStream", mock.Anything, mock.Anything)
}

func TestModelHandler(t *testing.T) {
	m := new(MockOllamaClient)
	m.On("GetModels", mock.Anything).Return([]client.OllamaModel{{Name: "llama3.1:8b"}, {Name: "gpt-oss:20b"}}, nil)

	rec := httptest.NewRecorder()
	NewHandler(m, "m").ModelHandler(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.ElementsMatch(t, []string{"llama3.1:8b", "gpt-oss:20b"}, names)
}

func TestModelHandlerUpstreamDown(t *testing.T) {
	m := new(MockOllamaClient)
	m.On("GetModels", mock.Anything).Return(nil, client.ErrUpstream)

	rec := httptest.NewRecorder()
	NewHandler(m, "m").ModelHandler(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCatalogHandlers(t *testing.T) {
	h := NewHandler(new(MockOllamaClient), "m")

	rec := httptest.NewRecorder()
	h.ToolsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/tools?kind=LOCAL", nil))
	var tools []catalog.Tool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tools))
	require.Len(t, tools, 2)
	assert.Equal(t, "calculator", tools[0].ID)

	rec = httptest.NewRecorder()
	h.HistoryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/history?sort=old", nil))
	var sessions []catalog.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 3)
	assert.Equal(t, "s-001", sessions[0].ID)

	rec = httptest.NewRecorder()
	h.HistoryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/history?sort=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.GalleryHandler(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/models", nil))
	var models []catalog.Model
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	assert.Len(t, models, 5)
}

func TestWorkflowHandlerFiltersTimeline(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(new(MockOllamaClient), "m").WorkflowHandler(rec,
		httptest.NewRequest(http.MethodGet, "/api/catalog/workflow?level=warn", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view WorkflowView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Runs, 3)
	assert.Len(t, view.Nodes, 10)
	assert.Len(t, view.Edges, 9)
	require.Len(t, view.Events, 1)
	assert.Equal(t, "n6", view.Events[0].NodeID)
}

func TestStatusHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(nil, "m").StatusHandler(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.JSONEq(t, `{"port_working":true,"server_working":true}`, rec.Body.String())
}
