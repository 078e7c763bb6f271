package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
)

// AddComment adds a comment to a task.
func AddComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Comment content is required",
		})
	}

	var task models.Task
	if err := database.DB.First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	comment := models.TaskComment{
		TaskID:  taskID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add comment",
		})
	}

	// Preload user for response
	database.DB.Preload("User").First(&comment, comment.ID)

	LogActivity(userID, models.EventCommentAdded,
		"commented on \""+task.Title+"\"",
		models.CommentMeta{CommentID: comment.ID}, taskProjectID(&task), &taskID)

	if task.AssigneeID != nil && *task.AssigneeID != userID {
		var commenter models.User
		database.DB.First(&commenter, userID)
		name := commenter.DisplayName
		if name == "" {
			name = commenter.Name
		}
		CreateNotification(*task.AssigneeID, "comment_added",
			"New comment",
			name+" commented on \""+task.Title+"\"",
			map[string]interface{}{"taskId": taskID.String(), "boardId": task.BoardID.String()},
		)
	}

	WS.Broadcast(task.BoardID, userID, WSEvent{
		Type:    EventCommentAddedWS,
		BoardID: task.BoardID.String(),
		UserID:  userID.String(),
		Data: map[string]interface{}{
			"taskId":    taskID.String(),
			"commentId": comment.ID.String(),
		},
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetTaskComments returns all comments for a task, oldest first.
func GetTaskComments(c *fiber.Ctx) error {
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

	var comments []models.TaskComment
	database.DB.Where("task_id = ?", taskID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments)

	return c.JSON(comments)
}

// UpdateComment edits a comment. Only the author may edit.
func UpdateComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	var comment models.TaskComment
	if err := database.DB.First(&comment, commentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Comment not found",
		})
	}

	if comment.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only edit your own comments",
		})
	}

	var req models.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Comment content is required",
		})
	}

	comment.Content = req.Content
	if err := database.DB.Save(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update comment",
		})
	}

	return c.JSON(comment)
}

// DeleteComment deletes a comment. Only the author may delete.
func DeleteComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	var comment models.TaskComment
	if err := database.DB.First(&comment, commentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Comment not found",
		})
	}

	if comment.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own comments",
		})
	}

	database.DB.Delete(&comment)

	return c.SendStatus(fiber.StatusNoContent)
}
