package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
)

// LogActivity appends one audit record for a domain event. The write is
// best-effort: a failure here never rolls back the mutation that
// triggered it, it is logged and swallowed.
func LogActivity(actorID uuid.UUID, eventType, description string, metadata interface{}, projectID, taskID *uuid.UUID) {
	activity := models.Activity{
		UserID:      actorID,
		Type:        eventType,
		Description: description,
		ProjectID:   projectID,
		TaskID:      taskID,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			activity.Metadata = &s
		}
	}

	if err := database.DB.Create(&activity).Error; err != nil {
		logrus.WithError(err).WithField("type", eventType).Warn("failed to record activity")
	}
}

func activityPagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

func listActivities(c *fiber.Ctx, scope *activityScope) error {
	page, limit, offset := activityPagination(c)

	q := database.DB.Model(&models.Activity{})
	if scope != nil {
		q = q.Where(scope.query, scope.args...)
	}

	var total int64
	q.Count(&total)

	var activities []models.Activity
	q.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities)

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

type activityScope struct {
	query string
	args  []interface{}
}

// GetActivityFeed returns the global activity feed, newest first.
func GetActivityFeed(c *fiber.Ctx) error {
	return listActivities(c, nil)
}

// GetUserActivity returns activity for one actor.
func GetUserActivity(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}
	return listActivities(c, &activityScope{query: "user_id = ?", args: []interface{}{userID}})
}

// GetProjectActivity returns activity scoped to a project.
func GetProjectActivity(c *fiber.Ctx) error {
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

	return listActivities(c, &activityScope{query: "project_id = ?", args: []interface{}{projectID}})
}

// GetTaskActivity returns activity scoped to a task.
func GetTaskActivity(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}
	return listActivities(c, &activityScope{query: "task_id = ?", args: []interface{}{taskID}})
}

// GetMyActivity returns the authenticated user's own activity.
func GetMyActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	return listActivities(c, &activityScope{query: "user_id = ?", args: []interface{}{userID}})
}
