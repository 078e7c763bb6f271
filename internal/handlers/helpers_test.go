package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/config"
	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
	"github.com/impactly/impactly-api/internal/routes"
)

// setupTestApp wires a fresh in-memory database and a Fiber app with the
// full route table.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL: "file:" + uuid.New().String() + "?mode=memory&cache=shared",
		Environment: "test",
	}
	require.NoError(t, database.Connect(cfg))
	require.NoError(t, database.Migrate())

	app := fiber.New()
	routes.Setup(app)
	return app
}

// createTestUser inserts a user and returns it with a valid bearer token.
func createTestUser(t *testing.T, email, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Email: email,
		Name:  email,
		Role:  role,
	}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return user, token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
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
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// createProjectWithBoard is a shortcut used by task tests.
func createProjectWithBoard(t *testing.T, app *fiber.App, token, name, visibility string) (models.Project, models.Board) {
	t.Helper()

	resp := doRequest(t, app, "POST", "/api/projects/", token, models.CreateProjectRequest{
		Name:       name,
		Visibility: visibility,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var project models.Project
	decodeBody(t, resp, &project)
	require.Len(t, project.Boards, 1)
	return project, project.Boards[0]
}
