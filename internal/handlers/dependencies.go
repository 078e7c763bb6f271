package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
)

// CreateTaskDependency records that a task depends on another. Both
// endpoints must exist, but the edge itself is stored as given: cycles,
// self-references and cross-project edges are not rejected here.
func CreateTaskDependency(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req models.CreateDependencyRequest
	if err := c.BodyParser(&req); err != nil || req.DependsOnTaskID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "dependsOnTaskId is required",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var dependsOn models.Task
	if err := database.DB.First(&dependsOn, req.DependsOnTaskID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dependency task does not exist",
		})
	}

	var existing models.TaskDependency
	if err := database.DB.Where("task_id = ? AND depends_on_task_id = ?", taskID, req.DependsOnTaskID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Dependency already exists",
		})
	}

	dep := models.TaskDependency{
		TaskID:          taskID,
		DependsOnTaskID: req.DependsOnTaskID,
	}
	if err := database.DB.Create(&dep).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create dependency",
		})
	}

	LogActivity(userID, models.EventDependencyAdded,
		"made \""+task.Title+"\" depend on \""+dependsOn.Title+"\"",
		models.DependencyMeta{DependsOnTaskID: req.DependsOnTaskID}, taskProjectID(&task), &taskID)

	return c.Status(fiber.StatusCreated).JSON(dep)
}

// GetTaskDependencies lists the tasks this task depends on.
func GetTaskDependencies(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var deps []models.TaskDependency
	database.DB.Where("task_id = ?", taskID).Find(&deps)

	return c.JSON(deps)
}

// DeleteTaskDependency removes a dependency edge.
func DeleteTaskDependency(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	depID, err := uuid.Parse(c.Params("dependencyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid dependency ID",
		})
	}

	result := database.DB.Where("id = ? AND task_id = ?", depID, taskID).Delete(&models.TaskDependency{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Dependency not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
