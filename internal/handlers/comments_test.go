package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/models"
)

func TestCommentThread(t *testing.T) {
	app := setupTestApp(t)
	author, authorToken := createTestUser(t, "author@example.com", models.RoleMember)
	_, otherToken := createTestUser(t, "other@example.com", models.RoleMember)

	_, board := createProjectWithBoard(t, app, authorToken, "Discussion", "private")

	resp := doRequest(t, app, "POST", "/api/tasks/", authorToken, models.CreateTaskRequest{
		BoardID: board.ID,
		Title:   "Talk about me",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var task models.Task
	decodeBody(t, resp, &task)

	resp = doRequest(t, app, "POST", "/api/tasks/"+task.ID.String()+"/comments", authorToken, models.CreateCommentRequest{
		Content: "first",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var comment models.TaskComment
	decodeBody(t, resp, &comment)
	assert.Equal(t, author.ID, comment.UserID)

	resp = doRequest(t, app, "POST", "/api/tasks/"+task.ID.String()+"/comments", otherToken, models.CreateCommentRequest{
		Content: "second",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Oldest first.
	resp = doRequest(t, app, "GET", "/api/tasks/"+task.ID.String()+"/comments", authorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var comments []models.TaskComment
	decodeBody(t, resp, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestCommentEditIsAuthorOnly(t *testing.T) {
	app := setupTestApp(t)
	_, authorToken := createTestUser(t, "author@example.com", models.RoleMember)
	_, otherToken := createTestUser(t, "other@example.com", models.RoleMember)

	_, board := createProjectWithBoard(t, app, authorToken, "Ownership", "private")

	resp := doRequest(t, app, "POST", "/api/tasks/", authorToken, models.CreateTaskRequest{
		BoardID: board.ID,
		Title:   "Guarded",
	})
	var task models.Task
	decodeBody(t, resp, &task)

	resp = doRequest(t, app, "POST", "/api/tasks/"+task.ID.String()+"/comments", authorToken, models.CreateCommentRequest{
		Content: "mine",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var comment models.TaskComment
	decodeBody(t, resp, &comment)

	commentPath := "/api/tasks/" + task.ID.String() + "/comments/" + comment.ID.String()

	resp = doRequest(t, app, "PUT", commentPath, otherToken, models.UpdateCommentRequest{
		Content: "hijacked",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "DELETE", commentPath, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "PUT", commentPath, authorToken, models.UpdateCommentRequest{
		Content: "edited",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &comment)
	assert.Equal(t, "edited", comment.Content)

	resp = doRequest(t, app, "DELETE", commentPath, authorToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
