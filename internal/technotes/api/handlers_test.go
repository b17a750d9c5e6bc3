package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueplan/technotes-go/internal/technotes/config"
	"github.com/blueplan/technotes-go/internal/technotes/limiter"
	logx "github.com/blueplan/technotes-go/internal/technotes/log"
	"github.com/blueplan/technotes-go/internal/technotes/notes"
	"github.com/blueplan/technotes-go/internal/technotes/users"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	handler   http.Handler
	store     *notes.InmemStore
	directory *users.InmemDirectory
}

func newTestEnv(t *testing.T, rateLimiter limiter.Limiter) testEnv {
	t.Helper()

	logger, err := logx.NewWithWriter("error", io.Discard)
	require.NoError(t, err)

	staticDir := t.TempDir()
	viewsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "hello.txt"), []byte("hello static"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(viewsDir, "404.html"), []byte("<h1>404</h1>"), 0o644))

	cfg := &config.Config{
		App: config.AppConfig{Name: "technotes", Version: "test", LogLevel: "error", Environment: "test"},
		API: config.APIConfig{
			CORSOrigins:    []string{"*"},
			MaxRequestSize: 1 << 20,
			StaticDir:      staticDir,
			ViewsDir:       viewsDir,
		},
	}
	if rateLimiter != nil {
		cfg.Security.EnableRateLimit = true
	}

	store := notes.NewInmem()
	directory := users.NewInmem()
	service := notes.NewService(store, directory, logger)
	router := NewRouter(cfg, logger, service, directory, rateLimiter)

	return testEnv{handler: router.Handler(), store: store, directory: directory}
}

func (e testEnv) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestGetNotesEmpty(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/notes", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No notes found", message(t, rec))
}

func TestCreateAndListNotes(t *testing.T) {
	env := newTestEnv(t, nil)
	env.directory.Put(users.User{ID: "user:dan", Username: "dan"})

	rec := env.do(http.MethodPost, "/notes", `{"user":"user:dan","title":"Shopping","text":"milk"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "New note created", message(t, rec))

	rec = env.do(http.MethodGet, "/notes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []notes.EnrichedNote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Shopping", listed[0].Title)
	assert.Equal(t, "dan", listed[0].Username)
	assert.False(t, listed[0].Completed)
}

func TestCreateNoteMissingFields(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/notes", `{"user":"user:dan","title":"Shopping"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", message(t, rec))
}

func TestCreateNoteDuplicateTitle(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/notes", `{"user":"user:dan","title":"Shopping","text":"milk"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPost, "/notes", `{"user":"user:dan","title":"SHOPPING","text":"eggs"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Duplicate note title", message(t, rec))
}

func TestUpdateNote(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/notes", `{"user":"user:dan","title":"Todo","text":"one"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	created, err := env.store.GetByTitle(t.Context(), "Todo")
	require.NoError(t, err)

	body, err := json.Marshal(map[string]interface{}{
		"id": created.ID, "user": "user:dan", "title": "Todo", "text": "two", "completed": true,
	})
	require.NoError(t, err)

	rec = env.do(http.MethodPatch, "/notes", string(body), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var confirmation string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, "'Todo' updated", confirmation)
}

func TestUpdateNoteNonBooleanCompleted(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{"id":"note:x","user":"user:dan","title":"Todo","text":"two","completed":"true"}`
	rec := env.do(http.MethodPatch, "/notes", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", message(t, rec))
}

func TestUpdateNoteMissingCompleted(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{"id":"note:x","user":"user:dan","title":"Todo","text":"two"}`
	rec := env.do(http.MethodPatch, "/notes", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", message(t, rec))
}

func TestUpdateNoteNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	body := `{"id":"note:absent","user":"user:dan","title":"Todo","text":"two","completed":false}`
	rec := env.do(http.MethodPatch, "/notes", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Note not found", message(t, rec))
}

func TestDeleteNote(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodPost, "/notes", `{"user":"user:dan","title":"Gone","text":"soon"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	created, err := env.store.GetByTitle(t.Context(), "Gone")
	require.NoError(t, err)

	rec = env.do(http.MethodDelete, "/notes", `{"id":"`+created.ID+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var confirmation string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, "Note 'Gone' with ID "+created.ID+" deleted", confirmation)
}

func TestDeleteNoteMissingID(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodDelete, "/notes", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Note ID required", message(t, rec))
}

func TestDeleteNoteNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodDelete, "/notes", `{"id":"note:absent"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Note not found", message(t, rec))
}

type listFailingStore struct {
	*notes.InmemStore
}

func (listFailingStore) List(context.Context) ([]notes.Note, error) {
	return nil, errors.New("connection reset")
}

func TestGetNotesStoreFailure(t *testing.T) {
	logger, err := logx.NewWithWriter("error", io.Discard)
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{Name: "technotes", Version: "test", LogLevel: "error", Environment: "test"},
		API: config.APIConfig{MaxRequestSize: 1 << 20},
	}
	directory := users.NewInmem()
	service := notes.NewService(listFailingStore{notes.NewInmem()}, directory, logger)
	router := NewRouter(cfg, logger, service, directory, nil)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	rec := httptest.NewRecorder()
	router.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", message(t, rec))
}

func TestGetUsers(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No users found", message(t, rec))

	env.directory.Put(users.User{ID: "user:dan", Username: "dan"})
	rec = env.do(http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "dan", listed[0].Username)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundNegotiation(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/nope", "", http.Header{"Accept": []string{"application/json"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 Not Found", message(t, rec))

	rec = env.do(http.MethodGet, "/nope", "", http.Header{"Accept": []string{"text/html"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>404</h1>")

	rec = env.do(http.MethodGet, "/nope", "", http.Header{"Accept": []string{"text/plain"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 Not Found", rec.Body.String())
}

func TestStaticFileServing(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/hello.txt", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello static", rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodOptions, "/notes", "", http.Header{"Origin": []string{"http://example.com"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, limiter.NewInmem(1))

	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", message(t, rec))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
