package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
)

// GetProjectBoards lists boards under a project.
func GetProjectBoards(c *fiber.Ctx) error {
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

	var boards []models.Board
	database.DB.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&boards)

	return c.JSON(boards)
}

// CreateBoard adds a board to an existing project. A missing project is a
// referential-integrity failure, not a silent orphan.
func CreateBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project ID",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, projectID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Project does not exist",
		})
	}

	if project.OwnerID != userID && !canAccessProject(&project, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req models.CreateBoardRequest
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

	board := models.Board{
		ProjectID:   projectID,
		Name:        req.Name,
		Description: req.Description,
		Columns:     req.Columns,
	}

	if err := database.DB.Create(&board).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create board",
		})
	}

	LogActivity(userID, models.EventBoardCreated,
		"created board \""+board.Name+"\" in \""+project.Name+"\"",
		nil, &projectID, nil)

	return c.Status(fiber.StatusCreated).JSON(board)
}

func GetBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("updated_at DESC")
		}).
		Preload("Tasks.Assignee").
		First(&board, boardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, board.ProjectID).Error; err != nil || !canAccessProject(&project, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	return c.JSON(board)
}

func UpdateBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.First(&board, boardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, board.ProjectID).Error; err != nil || !canAccessProject(&project, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var req models.UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.Columns != nil {
		if len(*req.Columns) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Board must have at least one column",
			})
		}
		board.Columns = *req.Columns
	}

	if err := database.DB.Save(&board).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update board",
		})
	}

	return c.JSON(board)
}

func DeleteBoard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	boardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid board ID",
		})
	}

	var board models.Board
	if err := database.DB.First(&board, boardID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, board.ProjectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	if project.OwnerID != userID && !isGlobalAdmin(userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the project owner can delete boards",
		})
	}

	var taskIDs []uuid.UUID
	database.DB.Model(&models.Task{}).Where("board_id = ?", boardID).Pluck("id", &taskIDs)
	if len(taskIDs) > 0 {
		database.DB.Where("task_id IN ? OR depends_on_task_id IN ?", taskIDs, taskIDs).Delete(&models.TaskDependency{})
		database.DB.Where("task_id IN ?", taskIDs).Delete(&models.TaskComment{})
		database.DB.Where("board_id = ?", boardID).Delete(&models.Task{})
	}

	if err := database.DB.Delete(&board).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete board",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
