package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
)

// GetProjects returns the union of projects the user owns and all public
// projects, most recently updated first.
func GetProjects(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var projects []models.Project
	if err := database.DB.
		Where("owner_id = ? OR visibility = ?", userID, models.VisibilityPublic).
		Order("updated_at DESC").
		Find(&projects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch projects",
		})
	}

	return c.JSON(projects)
}

func GetProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var project models.Project
	if err := database.DB.Preload("Boards").First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if !canAccessProject(&project, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	return c.JSON(project)
}

// CreateProject creates a project owned by the caller. A default board
// with the four-stage column layout always comes with it.
func CreateProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	visibility := req.Visibility
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		visibility = models.VisibilityPrivate
	}

	project := models.Project{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		SDGTags:     req.SDGTags,
	}

	if err := database.DB.Create(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create project",
		})
	}

	board := models.Board{
		ProjectID: project.ID,
		Name:      "Main Board",
		Columns:   models.DefaultColumns(),
	}
	if err := database.DB.Create(&board).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create default board",
		})
	}

	member := models.ProjectMember{
		ProjectID: project.ID,
		UserID:    userID,
		Role:      "owner",
	}
	database.DB.Create(&member)

	LogActivity(userID, models.EventProjectCreated,
		"created project \""+project.Name+"\"",
		nil, &project.ID, nil)

	project.Boards = []models.Board{board}
	return c.Status(fiber.StatusCreated).JSON(project)
}

func UpdateProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if project.OwnerID != userID && !isGlobalAdmin(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can update the project",
		})
	}

	var req models.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Visibility != nil {
		if *req.Visibility != models.VisibilityPublic && *req.Visibility != models.VisibilityPrivate {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Visibility must be public or private",
			})
		}
		project.Visibility = *req.Visibility
	}
	if req.SDGTags != nil {
		project.SDGTags = *req.SDGTags
	}

	if err := database.DB.Save(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update project",
		})
	}

	return c.JSON(project)
}

// DeleteProject removes a project and cascades to its boards, tasks,
// dependencies and comments. Activities referencing the project are kept;
// they are independent audit facts.
func DeleteProject(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if project.OwnerID != userID && !isGlobalAdmin(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner or an admin can delete the project",
		})
	}

	var boardIDs []uuid.UUID
	database.DB.Model(&models.Board{}).Where("project_id = ?", projectID).Pluck("id", &boardIDs)

	if len(boardIDs) > 0 {
		var taskIDs []uuid.UUID
		database.DB.Model(&models.Task{}).Where("board_id IN ?", boardIDs).Pluck("id", &taskIDs)

		if len(taskIDs) > 0 {
			database.DB.Where("task_id IN ? OR depends_on_task_id IN ?", taskIDs, taskIDs).Delete(&models.TaskDependency{})
			database.DB.Where("task_id IN ?", taskIDs).Delete(&models.TaskComment{})
			database.DB.Where("board_id IN ?", boardIDs).Delete(&models.Task{})
		}
		database.DB.Where("project_id = ?", projectID).Delete(&models.Board{})
	}

	database.DB.Where("project_id = ?", projectID).Delete(&models.ProjectMember{})

	if err := database.DB.Delete(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete project",
		})
	}

	LogActivity(userID, models.EventProjectDeleted,
		"deleted project \""+project.Name+"\"",
		nil, &projectID, nil)

	return c.SendStatus(fiber.StatusNoContent)
}

// AddProjectMember adds a user to a project with a project-scoped role.
func AddProjectMember(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if project.OwnerID != userID && !isGlobalAdmin(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can add members",
		})
	}

	var req models.AddMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	var target models.User
	if err := database.DB.First(&target, req.UserID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User does not exist",
		})
	}

	var existing models.ProjectMember
	if err := database.DB.Where("project_id = ? AND user_id = ?", projectID, req.UserID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "User is already a member of this project",
		})
	}

	role := req.Role
	if role == "" {
		role = "member"
	}

	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      role,
	}
	if err := database.DB.Create(&member).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add member",
		})
	}

	LogActivity(userID, models.EventMemberAdded,
		"added "+target.Name+" to \""+project.Name+"\"",
		models.MemberMeta{MemberID: req.UserID, Role: role}, &projectID, nil)

	return c.Status(fiber.StatusCreated).JSON(member)
}

// GetProjectMembers lists all members of a project.
func GetProjectMembers(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if !canAccessProject(&project, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var members []models.ProjectMember
	database.DB.Where("project_id = ?", projectID).
		Preload("User").
		Find(&members)

	result := make([]models.MemberInfo, 0, len(members))
	for _, m := range members {
		result = append(result, models.MemberInfo{
			ID:          m.UserID,
			Name:        m.User.Name,
			DisplayName: m.User.DisplayName,
			AvatarURL:   m.User.AvatarURL,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}

	return c.JSON(result)
}

// RemoveProjectMember removes a member from a project (owner only).
func RemoveProjectMember(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	targetUserID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	if project.OwnerID != userID && !isGlobalAdmin(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can remove members",
		})
	}

	if targetUserID == project.OwnerID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Owner cannot be removed from the project",
		})
	}

	result := database.DB.Where("project_id = ? AND user_id = ?", projectID, targetUserID).Delete(&models.ProjectMember{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Member not found",
		})
	}

	LogActivity(userID, models.EventMemberRemoved, "removed a member from \""+project.Name+"\"",
		models.MemberMeta{MemberID: targetUserID}, &projectID, nil)

	return c.SendStatus(fiber.StatusNoContent)
}

// canAccessProject checks read access: owner, public visibility, or membership.
func canAccessProject(project *models.Project, userID uuid.UUID) bool {
	if project.OwnerID == userID || project.Visibility == models.VisibilityPublic {
		return true
	}
	var member models.ProjectMember
	return database.DB.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&member).Error == nil
}

func isGlobalAdmin(userID uuid.UUID) bool {
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsAdmin()
}
