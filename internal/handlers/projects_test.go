package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/models"
)

func TestCreateProjectProvisionsDefaultBoard(t *testing.T) {
	app := setupTestApp(t)
	owner, token := createTestUser(t, "owner@example.com", models.RoleMember)

	resp := doRequest(t, app, "POST", "/api/projects/", token, models.CreateProjectRequest{
		Name:       "Greenfield",
		Visibility: "private",
		SDGTags:    []int{7, 13},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var project models.Project
	decodeBody(t, resp, &project)
	assert.Equal(t, owner.ID, project.OwnerID)
	assert.Equal(t, []int{7, 13}, project.SDGTags)

	require.Len(t, project.Boards, 1)
	board := project.Boards[0]
	assert.Equal(t, "Main Board", board.Name)
	require.Len(t, board.Columns, 4)
	names := make([]string, 0, len(board.Columns))
	for _, col := range board.Columns {
		names = append(names, col.ID)
	}
	assert.Equal(t, []string{
		models.StatusTodo,
		models.StatusInProgress,
		models.StatusReview,
		models.StatusDone,
	}, names)

	// The owner is enrolled as a member of their own project.
	var member models.ProjectMember
	err := database.DB.Where("project_id = ? AND user_id = ?", project.ID, owner.ID).First(&member).Error
	require.NoError(t, err)
}

func TestProjectListIsOwnedOrPublic(t *testing.T) {
	app := setupTestApp(t)
	_, tokenA := createTestUser(t, "a@example.com", models.RoleMember)
	_, tokenB := createTestUser(t, "b@example.com", models.RoleMember)

	createProjectWithBoard(t, app, tokenA, "A private", "private")
	createProjectWithBoard(t, app, tokenA, "A public", "public")
	createProjectWithBoard(t, app, tokenB, "B private", "private")

	resp := doRequest(t, app, "GET", "/api/projects/", tokenB, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var projects []models.Project
	decodeBody(t, resp, &projects)
	require.Len(t, projects, 2)
	seen := map[string]bool{}
	for _, p := range projects {
		seen[p.Name] = true
	}
	assert.True(t, seen["B private"])
	assert.True(t, seen["A public"])
	assert.False(t, seen["A private"])
}

func TestProjectListOrderedByRecentActivity(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)

	first, _ := createProjectWithBoard(t, app, token, "older", "private")
	createProjectWithBoard(t, app, token, "newer", "private")

	// Touching the older project moves it back to the top.
	desc := "refreshed"
	resp := doRequest(t, app, "PUT", "/api/projects/"+first.ID.String(), token, models.UpdateProjectRequest{
		Description: &desc,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/projects/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var projects []models.Project
	decodeBody(t, resp, &projects)
	require.Len(t, projects, 2)
	assert.Equal(t, "older", projects[0].Name)
	assert.Equal(t, "newer", projects[1].Name)
}

func TestPrivateProjectHiddenFromStrangers(t *testing.T) {
	app := setupTestApp(t)
	_, tokenA := createTestUser(t, "a@example.com", models.RoleMember)
	_, tokenB := createTestUser(t, "b@example.com", models.RoleMember)

	project, _ := createProjectWithBoard(t, app, tokenA, "Secret", "private")

	resp := doRequest(t, app, "GET", "/api/projects/"+project.ID.String(), tokenB, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Membership opens it up.
	memberB, tokenB2 := createTestUser(t, "b2@example.com", models.RoleMember)
	resp = doRequest(t, app, "POST", "/api/projects/"+project.ID.String()+"/members", tokenA, models.AddMemberRequest{
		UserID: memberB.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, "GET", "/api/projects/"+project.ID.String(), tokenB2, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteProjectCascades(t *testing.T) {
	app := setupTestApp(t)
	_, token := createTestUser(t, "owner@example.com", models.RoleMember)

	project, board := createProjectWithBoard(t, app, token, "Doomed", "private")

	resp := doRequest(t, app, "POST", "/api/tasks/", token, models.CreateTaskRequest{
		BoardID: board.ID,
		Title:   "Goes down with the ship",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var task models.Task
	decodeBody(t, resp, &task)

	resp = doRequest(t, app, "DELETE", "/api/projects/"+project.ID.String(), token, nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	database.DB.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	database.DB.Model(&models.Board{}).Where("project_id = ?", project.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
