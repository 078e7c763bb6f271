package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/impactly/impactly-api/internal/database"
	"github.com/impactly/impactly-api/internal/middleware"
	"github.com/impactly/impactly-api/internal/models"
	"github.com/impactly/impactly-api/internal/services"
)

const defaultRewardPoints = 100

// CreateTask creates a task on a board. The reporter is the caller and
// never changes; reward points are fixed here and paid out once on
// completion.
func CreateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	var board models.Board
	if err := database.DB.First(&board, req.BoardID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Board does not exist",
		})
	}

	var project models.Project
	if err := database.DB.First(&project, board.ProjectID).Error; err != nil || !canAccessProject(&project, userID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Board not found",
		})
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.ValidStatuses[status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}
	if req.Type != "" && !models.ValidTaskTypes[req.Type] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task type",
		})
	}
	if req.Priority != "" && !models.ValidPriorities[req.Priority] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid priority",
		})
	}

	if req.AssigneeID != nil {
		var assignee models.User
		if err := database.DB.First(&assignee, *req.AssigneeID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Assignee does not exist",
			})
		}
	}

	rewardPoints := defaultRewardPoints
	if req.RewardPoints != nil && *req.RewardPoints >= 0 {
		rewardPoints = *req.RewardPoints
	}

	task := models.Task{
		BoardID:         req.BoardID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		Priority:        req.Priority,
		Status:          status,
		AssigneeID:      req.AssigneeID,
		ReporterID:      userID,
		Labels:          req.Labels,
		EstimationHours: req.EstimationHours,
		RewardPoints:    rewardPoints,
		DueDate:         req.DueDate,
		SDGLink:         req.SDGLink,
	}

	if err := database.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	LogActivity(userID, models.EventTaskCreated,
		"created task \""+task.Title+"\"",
		nil, &board.ProjectID, &task.ID)

	WS.Broadcast(task.BoardID, userID, WSEvent{
		Type:    EventTaskCreatedWS,
		BoardID: task.BoardID.String(),
		UserID:  userID.String(),
		Data:    task,
	})

	return c.Status(fiber.StatusCreated).JSON(task)
}

func GetTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := database.DB.
		Preload("Assignee").
		Preload("Reporter").
		First(&task, taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	return c.JSON(task)
}

// UpdateTask applies partial updates. A status change here goes through
// the same transition path as the dedicated transition endpoint, so the
// point-award rule cannot be bypassed or doubled.
func UpdateTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
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

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		if *req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Title cannot be empty",
			})
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Type != nil {
		if !models.ValidTaskTypes[*req.Type] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid task type",
			})
		}
		task.Type = *req.Type
	}
	if req.Priority != nil {
		if !models.ValidPriorities[*req.Priority] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid priority",
			})
		}
		task.Priority = *req.Priority
	}
	if req.Labels != nil {
		task.Labels = *req.Labels
	}
	if req.EstimationHours != nil {
		task.EstimationHours = req.EstimationHours
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.SDGLink != nil {
		task.SDGLink = req.SDGLink
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Progress must be between 0 and 100",
			})
		}
		task.Progress = *req.Progress
	}
	if req.AssigneeID != nil {
		var assignee models.User
		if err := database.DB.First(&assignee, *req.AssigneeID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Assignee does not exist",
			})
		}
		task.AssigneeID = req.AssigneeID
	}

	oldStatus := task.Status
	statusChanged := false
	if req.Status != nil && *req.Status != task.Status {
		if !models.IsValidTransition(task.Status, *req.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status",
			})
		}
		task.Status = *req.Status
		statusChanged = true
	}

	if err := saveStatusAware(&task, oldStatus, statusChanged); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	if statusChanged {
		afterStatusChange(&task, oldStatus, userID, "")
	} else {
		LogActivity(userID, models.EventTaskUpdated,
			"updated task \""+task.Title+"\"",
			nil, taskProjectID(&task), &task.ID)
	}

	WS.Broadcast(task.BoardID, userID, WSEvent{
		Type:    EventTaskUpdatedWS,
		BoardID: task.BoardID.String(),
		UserID:  userID.String(),
		Data:    task,
	})

	return c.JSON(task)
}

// TransitionTask is the dedicated status-transition endpoint.
func TransitionTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
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

	var req models.TransitionTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !models.IsValidTransition(task.Status, req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	oldStatus := task.Status
	if req.Status == oldStatus {
		// No-op transition: nothing changes, nothing is awarded.
		return c.JSON(task)
	}

	task.Status = req.Status
	if err := saveStatusAware(&task, oldStatus, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to transition task",
		})
	}

	afterStatusChange(&task, oldStatus, userID, req.Comment)

	WS.Broadcast(task.BoardID, userID, WSEvent{
		Type:    EventTaskUpdatedWS,
		BoardID: task.BoardID.String(),
		UserID:  userID.String(),
		Data:    task,
	})

	return c.JSON(task)
}

// AssignTask sets or clears the assignee.
func AssignTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
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

	var req struct {
		AssigneeID *uuid.UUID `json:"assigneeId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.AssigneeID != nil {
		var assignee models.User
		if err := database.DB.First(&assignee, *req.AssigneeID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Assignee does not exist",
			})
		}
	}

	task.AssigneeID = req.AssigneeID
	if err := database.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to assign task",
		})
	}

	LogActivity(userID, models.EventTaskAssigned,
		"assigned task \""+task.Title+"\"",
		models.TaskAssignedMeta{AssigneeID: req.AssigneeID}, taskProjectID(&task), &task.ID)

	if req.AssigneeID != nil && *req.AssigneeID != userID {
		CreateNotification(*req.AssigneeID, "task_assigned",
			"Task assigned to you",
			"You were assigned \""+task.Title+"\"",
			map[string]interface{}{"taskId": task.ID.String(), "boardId": task.BoardID.String()},
		)
	}

	return c.JSON(task)
}

func DeleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
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

	projectID := taskProjectID(&task)

	database.DB.Where("task_id = ? OR depends_on_task_id = ?", taskID, taskID).Delete(&models.TaskDependency{})
	database.DB.Where("task_id = ?", taskID).Delete(&models.TaskComment{})

	if err := database.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	LogActivity(userID, models.EventTaskDeleted,
		"deleted task \""+task.Title+"\"",
		nil, projectID, &taskID)

	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyTasks returns tasks assigned to the caller.
func GetMyTasks(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var tasks []models.Task
	if err := database.DB.
		Where("assignee_id = ?", userID).
		Order("updated_at DESC").
		Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	return c.JSON(tasks)
}

// saveStatusAware persists the task, stamping CompletedAt on a move into
// done and clearing it on a move out.
func saveStatusAware(task *models.Task, oldStatus string, statusChanged bool) error {
	if statusChanged {
		if task.Status == models.StatusDone && oldStatus != models.StatusDone {
			now := time.Now()
			task.CompletedAt = &now
			task.Progress = 100
		} else if task.Status != models.StatusDone {
			task.CompletedAt = nil
		}
	}
	return database.DB.Save(task).Error
}

// afterStatusChange runs the shared post-transition side effects: the
// gamification rule and exactly one activity record. Called only when the
// status actually changed.
func afterStatusChange(task *models.Task, oldStatus string, actorID uuid.UUID, comment string) {
	awarded, err := services.HandleStatusChange(task, oldStatus)
	if err != nil {
		logrus.WithError(err).WithField("taskId", task.ID).Error("failed to award points")
	}

	projectID := taskProjectID(task)

	if task.Status == models.StatusDone && oldStatus != models.StatusDone {
		LogActivity(actorID, models.EventTaskCompleted,
			"completed task \""+task.Title+"\"",
			models.TaskCompletedMeta{
				OldStatus:     oldStatus,
				RewardPoints:  task.RewardPoints,
				AssigneeID:    task.AssigneeID,
				PointsAwarded: awarded,
			}, projectID, &task.ID)

		WS.Broadcast(task.BoardID, actorID, WSEvent{
			Type:    EventTaskCompletedWS,
			BoardID: task.BoardID.String(),
			UserID:  actorID.String(),
			Data: map[string]interface{}{
				"taskId":       task.ID.String(),
				"title":        task.Title,
				"rewardPoints": task.RewardPoints,
			},
		})
	} else {
		LogActivity(actorID, models.EventStatusChanged,
			"moved task \""+task.Title+"\" from "+oldStatus+" to "+task.Status,
			models.StatusChangeMeta{
				OldStatus: oldStatus,
				NewStatus: task.Status,
				Comment:   comment,
			}, projectID, &task.ID)
	}
}

// taskProjectID resolves the owning project through the board. Nil when
// the board is already gone; activities tolerate dangling references.
func taskProjectID(task *models.Task) *uuid.UUID {
	var board models.Board
	if err := database.DB.Select("project_id").First(&board, task.BoardID).Error; err != nil {
		return nil
	}
	return &board.ProjectID
}
