package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	app := setupTestApp(t)

	resp := doRequest(t, app, "POST", "/api/auth/register", "", models.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter22",
		Name:     "New User",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var auth models.AuthResponse
	decodeBody(t, resp, &auth)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "new@example.com", auth.User.Email)
	assert.Equal(t, models.RoleMember, auth.User.Role)
	assert.Equal(t, 0, auth.User.Points)
	assert.Equal(t, 1, auth.User.Level)

	// Duplicate email is rejected.
	resp = doRequest(t, app, "POST", "/api/auth/register", "", models.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/auth/login", "", models.LoginRequest{
		Email:    "new@example.com",
		Password: "hunter22",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &auth)
	require.NotEmpty(t, auth.Token)

	resp = doRequest(t, app, "POST", "/api/auth/login", "", models.LoginRequest{
		Email:    "new@example.com",
		Password: "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/me", auth.Token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me models.User
	decodeBody(t, resp, &me)
	assert.Equal(t, "new@example.com", me.Email)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := setupTestApp(t)

	resp := doRequest(t, app, "GET", "/api/projects/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/me", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleUpdateIsAdminGated(t *testing.T) {
	app := setupTestApp(t)
	_, adminToken := createTestUser(t, "admin@example.com", models.RoleAdmin)
	target, memberToken := createTestUser(t, "member@example.com", models.RoleMember)

	resp := doRequest(t, app, "PUT", "/api/users/"+target.ID.String()+"/role", memberToken, models.UpdateRoleRequest{
		Role: models.RoleProjectManager,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "PUT", "/api/users/"+target.ID.String()+"/role", adminToken, models.UpdateRoleRequest{
		Role: models.RoleProjectManager,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var updated models.User
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.RoleProjectManager, updated.Role)

	// Unknown roles are rejected.
	resp = doRequest(t, app, "PUT", "/api/users/"+target.ID.String()+"/role", adminToken, models.UpdateRoleRequest{
		Role: "wizard",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
