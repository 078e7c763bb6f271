package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/models"
)

func TestProjectActivityFeed(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)

	project, board := createProjectWithBoard(t, app, token, "Audited", "private")

	resp := doRequest(t, app, "POST", "/api/tasks/", token, models.CreateTaskRequest{
		BoardID: board.ID,
		Title:   "tracked",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/projects/"+project.ID.String()+"/activity", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed struct {
		Activities []models.Activity `json:"activities"`
		Total      int64             `json:"total"`
	}
	decodeBody(t, resp, &feed)
	require.GreaterOrEqual(t, len(feed.Activities), 2)

	types := map[string]bool{}
	for _, a := range feed.Activities {
		types[a.Type] = true
	}
	assert.True(t, types[models.EventProjectCreated])
	assert.True(t, types[models.EventTaskCreated])

	// Newest first.
	assert.Equal(t, models.EventTaskCreated, feed.Activities[0].Type)
}

func TestTaskActivityRecordsCompletion(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)
	assignee, _ := createTestUser(t, "worker@example.com", models.RoleMember)

	_, board := createProjectWithBoard(t, app, token, "Trail", "private")

	resp := doRequest(t, app, "POST", "/api/tasks/", token, models.CreateTaskRequest{
		BoardID:    board.ID,
		Title:      "finish me",
		AssigneeID: &assignee.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var task models.Task
	decodeBody(t, resp, &task)

	resp = doRequest(t, app, "POST", "/api/tasks/"+task.ID.String()+"/transition", token, models.TransitionTaskRequest{
		Status: models.StatusInProgress,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/tasks/"+task.ID.String()+"/transition", token, models.TransitionTaskRequest{
		Status: models.StatusDone,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/tasks/"+task.ID.String()+"/activity", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed struct {
		Activities []models.Activity `json:"activities"`
	}
	decodeBody(t, resp, &feed)

	var statusChanges, completions int
	for _, a := range feed.Activities {
		switch a.Type {
		case models.EventStatusChanged:
			statusChanges++
		case models.EventTaskCompleted:
			completions++
		}
	}
	// One entry per transition: the move into done is logged as a
	// completion, not a second status change.
	assert.Equal(t, 1, statusChanges)
	assert.Equal(t, 1, completions)
}
