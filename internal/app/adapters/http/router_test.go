package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	router "selfchat/internal/app/adapters/http"
	"selfchat/internal/app/domain/chat"
	"selfchat/internal/app/domain/message"
	"selfchat/internal/app/infrastructure/config"
	"selfchat/internal/app/infrastructure/storage"
	"selfchat/pkg/logger"
)

func testConfig() *config.Config {
	cfg := (&config.Manager{}).GetDefault()
	cfg.Store.Driver = config.DriverMemory
	cfg.Limiter = config.Limiter{}
	cfg.Messages.TTLSeconds = 1800
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := config.NewStatic(cfg)
	require.NoError(t, err)

	log := logger.Discard()
	store, err := storage.NewMemoryStore(log, "")
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background(), cfg.TTL()))
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return router.NewRouter(log, manager, chat.New(log, store)).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestMessagesScenario(t *testing.T) {
	h := newTestRouter(t, testConfig())

	w := do(t, h, http.MethodPost, "/api/messages", map[string]string{
		"sender":        "A",
		"textPrimary":   "Hi",
		"textSecondary": "こんにちは",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[message.Message](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, message.SenderA, created.Sender)

	w = do(t, h, http.MethodGet, "/api/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]message.Message](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Hi", list[0].TextPrimary)
	assert.Equal(t, "こんにちは", list[0].TextSecondary)

	w = do(t, h, http.MethodPut, "/api/messages/"+created.ID, map[string]string{
		"textPrimary":   "Hello",
		"textSecondary": "やっほー",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[message.Message](t, w)
	assert.Equal(t, "Hello", updated.TextPrimary)
	assert.Equal(t, "やっほー", updated.TextSecondary)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	w = do(t, h, http.MethodDelete, "/api/messages/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted successfully", decode[map[string]string](t, w)["message"])

	w = do(t, h, http.MethodGet, "/api/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodPut, "/api/messages/"+created.ID, map[string]string{
		"textPrimary":   "Hello",
		"textSecondary": "やっほー",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Message not found", decode[map[string]string](t, w)["error"])

	w = do(t, h, http.MethodDelete, "/api/messages/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMessage_BadRequests(t *testing.T) {
	h := newTestRouter(t, testConfig())

	tests := []struct {
		name string
		body any
	}{
		{name: "missing_sender", body: map[string]string{"textPrimary": "Hi", "textSecondary": "こんにちは"}},
		{name: "unknown_sender", body: map[string]string{"sender": "C", "textPrimary": "Hi", "textSecondary": "こんにちは"}},
		{name: "missing_primary", body: map[string]string{"sender": "A", "textSecondary": "こんにちは"}},
		{name: "missing_secondary", body: map[string]string{"sender": "B", "textPrimary": "Hi"}},
		{name: "malformed_json", body: `{"sender":`},
		{name: "empty_body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/messages", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}

	w := do(t, h, http.MethodGet, "/api/messages", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateMessage_EmptyText(t *testing.T) {
	h := newTestRouter(t, testConfig())

	w := do(t, h, http.MethodPost, "/api/messages", map[string]string{"sender": "B", "textPrimary": "Hi", "textSecondary": "こんにちは"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[message.Message](t, w)

	w = do(t, h, http.MethodPut, "/api/messages/"+created.ID, map[string]string{"textPrimary": "", "textSecondary": "やっほー"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPut, "/api/messages/not-an-id", map[string]string{"textPrimary": "Hello", "textSecondary": "やっほー"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListMessages_Ordered(t *testing.T) {
	h := newTestRouter(t, testConfig())

	for _, text := range []string{"one", "two", "three"} {
		w := do(t, h, http.MethodPost, "/api/messages", map[string]string{"sender": "A", "textPrimary": text, "textSecondary": text})
		require.Equal(t, http.StatusCreated, w.Code)
		time.Sleep(2 * time.Millisecond)
	}

	list := decode[[]message.Message](t, do(t, h, http.MethodGet, "/api/messages", nil))
	require.Len(t, list, 3)
	assert.Equal(t, []string{"one", "two", "three"}, []string{list[0].TextPrimary, list[1].TextPrimary, list[2].TextPrimary})
}

type failingChat struct{}

func (failingChat) List(context.Context) ([]message.Message, error) {
	return nil, errors.New("connection reset")
}

func (failingChat) Create(context.Context, message.Sender, string, string) (*message.Message, error) {
	return nil, errors.New("connection reset")
}

func (failingChat) Update(context.Context, string, string, string) (*message.Message, error) {
	return nil, errors.New("connection reset")
}

func (failingChat) Delete(context.Context, string) error {
	return errors.New("connection reset")
}

func TestStoreFailuresMapTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager, err := config.NewStatic(testConfig())
	require.NoError(t, err)
	h := router.NewRouter(logger.Discard(), manager, failingChat{}).Handler()

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/messages", nil},
		{http.MethodPost, "/api/messages", map[string]string{"sender": "A", "textPrimary": "Hi", "textSecondary": "こんにちは"}},
		{http.MethodPut, "/api/messages/abc", map[string]string{"textPrimary": "Hi", "textSecondary": "こんにちは"}},
		{http.MethodDelete, "/api/messages/abc", nil},
	}

	for _, r := range requests {
		t.Run(r.method, func(t *testing.T) {
			w := do(t, h, r.method, r.path, r.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Server error", decode[map[string]string](t, w)["error"])
		})
	}
}

func TestConfigAndIndex(t *testing.T) {
	h := newTestRouter(t, testConfig())

	w := do(t, h, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ttlSeconds":1800,"pollIntervalSeconds":3}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "const TTL_SECONDS =")
	assert.Contains(t, w.Body.String(), "1800")

	w = do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsRequireToken(t *testing.T) {
	cfg := testConfig()
	h := newTestRouter(t, cfg)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/metrics", nil).Code)

	cfg = testConfig()
	cfg.App.AuthToken = "secret"
	h = newTestRouter(t, cfg)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/metrics", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chat_message_ttl_seconds")
}
