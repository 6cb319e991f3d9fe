package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mesto/config"
	"mesto/database"
	"mesto/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer creates a server over an in-memory SQLite database.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:            "test",
		JWTSecret:      "test-secret-key",
		AllowedOrigins: "http://localhost:3000",
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	return srv, srv.App()
}

// doJSON performs a JSON request against the test app.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response, dest any) {
	t.Helper()
	defer func() { _ = res.Body.Close() }()
	require.NoError(t, json.NewDecoder(res.Body).Decode(dest))
}

// signupUser registers a user through the API and returns the created record.
func signupUser(t *testing.T, app *fiber.App, email string) models.User {
	t.Helper()

	res := doJSON(t, app, http.MethodPost, "/signup", "", map[string]string{
		"name":     "Jacques",
		"about":    "Explorer",
		"avatar":   "https://example.com/avatar.png",
		"email":    email,
		"password": "secret-password-1",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var user models.User
	decodeBody(t, res, &user)
	require.NotZero(t, user.ID)
	return user
}

// tokenFor issues a valid token for the given user.
func tokenFor(t *testing.T, srv *Server, userID uint) string {
	t.Helper()
	token, err := srv.tokens.Issue(userID)
	require.NoError(t, err)
	return token
}
