package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"agora/internal/config"
	"agora/internal/repository"
	"agora/internal/session"
	"agora/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:       "0",
		Env:        "test",
		BcryptCost: bcrypt.MinCost,
	}
}

// newTestApp builds the full application over SQLite and in-memory sessions.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := repository.NewGormStore(testutil.NewSQLiteDB(t), "sqlite")
	return newTestServer(testConfig(), Deps{Store: store, Sessions: session.NewMemoryStore(0)}).App()
}

func newTestServer(cfg *config.Config, deps Deps) *Server {
	if deps.Sessions == nil {
		deps.Sessions = session.NewMemoryStore(0)
	}
	return NewServer(cfg, deps)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	out := map[string]any{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 && resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

// signUp registers username and logs them in, returning the user id and token.
func signUp(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	id := body["user"].(map[string]any)["id"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	return id, body["token"].(string)
}
