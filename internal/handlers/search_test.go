package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/models"
)

type searchResult struct {
	Tasks  []models.Task `json:"tasks"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func TestSearchTasksScopedToProject(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)

	projectA, boardA := createProjectWithBoard(t, app, token, "Alpha", "private")
	_, boardB := createProjectWithBoard(t, app, token, "Beta", "private")

	for _, tc := range []struct {
		boardID string
		title   string
	}{
		{boardA.ID.String(), "Alpha fix login"},
		{boardA.ID.String(), "Alpha write docs"},
		{boardB.ID.String(), "Beta fix login"},
	} {
		resp := doRequest(t, app, "POST", "/api/tasks/", token, fiber.Map{
			"boardId": tc.boardID,
			"title":   tc.title,
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, app, "GET", "/api/tasks/?projectId="+projectA.ID.String(), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result searchResult
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 2, result.Total)
	for _, task := range result.Tasks {
		assert.Equal(t, boardA.ID, task.BoardID)
	}

	// Text filter combines conjunctively with the project scope.
	resp = doRequest(t, app, "GET", "/api/tasks/?projectId="+projectA.ID.String()+"&q=FIX", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, "Alpha fix login", result.Tasks[0].Title)
}

func TestSearchTasksFiltersCombine(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)
	assignee, _ := createTestUser(t, "worker@example.com", models.RoleMember)

	_, board := createProjectWithBoard(t, app, token, "Filters", "private")

	resp := doRequest(t, app, "POST", "/api/tasks/", token, models.CreateTaskRequest{
		BoardID:    board.ID,
		Title:      "urgent bug",
		Type:       models.TypeBug,
		Priority:   models.PriorityHigh,
		AssigneeID: &assignee.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "POST", "/api/tasks/", token, models.CreateTaskRequest{
		BoardID:  board.ID,
		Title:    "low priority bug",
		Type:     models.TypeBug,
		Priority: models.PriorityLow,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result searchResult

	resp = doRequest(t, app, "GET", "/api/tasks/?type=bug", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 2, result.Total)

	resp = doRequest(t, app, "GET", "/api/tasks/?type=bug&priority=high", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, "urgent bug", result.Tasks[0].Title)

	resp = doRequest(t, app, "GET", "/api/tasks/?assigneeId="+assignee.ID.String(), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	require.EqualValues(t, 1, result.Total)
	assert.Equal(t, "urgent bug", result.Tasks[0].Title)

	// Unknown enum values are rejected, not silently ignored.
	resp = doRequest(t, app, "GET", "/api/tasks/?status=nonsense", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSearchTasksPagination(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)
	_, board := createProjectWithBoard(t, app, token, "Paged", "private")

	for i := 0; i < 5; i++ {
		resp := doRequest(t, app, "POST", "/api/tasks/", token, fiber.Map{
			"boardId": board.ID.String(),
			"title":   "task " + string(rune('a'+i)),
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, app, "GET", "/api/tasks/?limit=2&offset=0", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var result searchResult
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 5, result.Total)
	assert.Len(t, result.Tasks, 2)
	assert.Equal(t, 2, result.Limit)

	resp = doRequest(t, app, "GET", "/api/tasks/?limit=2&offset=4", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &result)
	assert.EqualValues(t, 5, result.Total)
	assert.Len(t, result.Tasks, 1)
}
