package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/models"
)

const (
	searchDefaultLimit = 50
	searchMaxLimit     = 200
)

// SearchTasks builds a conjunctive filtered view over tasks. Free text
// matches title or description as a case-insensitive substring; projectId
// scoping joins through the board since tasks carry no direct project
// reference. Results come back most recently updated first.
func SearchTasks(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Task{})

	if text := strings.TrimSpace(c.Query("q")); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		q = q.Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ?", pattern, pattern)
	}

	if v := c.Query("assigneeId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid assigneeId",
			})
		}
		q = q.Where("tasks.assignee_id = ?", id)
	}

	if v := c.Query("reporterId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid reporterId",
			})
		}
		q = q.Where("tasks.reporter_id = ?", id)
	}

	if v := c.Query("status"); v != "" {
		if !models.ValidStatuses[v] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status",
			})
		}
		q = q.Where("tasks.status = ?", v)
	}

	if v := c.Query("priority"); v != "" {
		if !models.ValidPriorities[v] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid priority",
			})
		}
		q = q.Where("tasks.priority = ?", v)
	}

	if v := c.Query("type"); v != "" {
		if !models.ValidTaskTypes[v] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid type",
			})
		}
		q = q.Where("tasks.type = ?", v)
	}

	if v := c.Query("projectId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid projectId",
			})
		}
		q = q.Joins("JOIN boards ON boards.id = tasks.board_id").
			Where("boards.project_id = ?", id)
	}

	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(searchDefaultLimit)))
	if limit < 1 || limit > searchMaxLimit {
		limit = searchDefaultLimit
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var total int64
	q.Count(&total)

	var tasks []models.Task
	if err := q.
		Preload("Assignee").
		Order("tasks.updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search tasks",
		})
	}

	return c.JSON(fiber.Map{
		"tasks":  tasks,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
