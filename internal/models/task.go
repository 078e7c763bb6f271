package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task statuses. Any status may move to any other status; the board's
// columns only group tasks for display.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

const (
	TypeTask      = "task"
	TypeBug       = "bug"
	TypeFeature   = "feature"
	TypeChallenge = "challenge"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var ValidStatuses = map[string]bool{
	StatusTodo:       true,
	StatusInProgress: true,
	StatusReview:     true,
	StatusDone:       true,
}

var ValidTaskTypes = map[string]bool{
	TypeTask:      true,
	TypeBug:       true,
	TypeFeature:   true,
	TypeChallenge: true,
}

var ValidPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
	PriorityUrgent: true,
}

// IsValidTransition reports whether a status move is allowed. The
// transition system is deliberately free: any status can move to any
// other, including backward. Kept as a separate function so a stricter
// graph can be dropped in without touching the point-award rule.
func IsValidTransition(from, to string) bool {
	return ValidStatuses[to]
}

type Task struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID         uuid.UUID      `json:"boardId" gorm:"type:uuid;index;not null"`
	Title           string         `json:"title" gorm:"not null"`
	Description     string         `json:"description" gorm:"type:text"`
	Type            string         `json:"type" gorm:"not null;default:'task'"`
	Priority        string         `json:"priority" gorm:"not null;default:'medium'"`
	Status          string         `json:"status" gorm:"not null;default:'todo'"`
	AssigneeID      *uuid.UUID     `json:"assigneeId" gorm:"type:uuid;index"`
	ReporterID      uuid.UUID      `json:"reporterId" gorm:"type:uuid;not null"` // set at creation, immutable
	Labels          []string       `json:"labels" gorm:"serializer:json"`
	EstimationHours *float64       `json:"estimationHours"`
	RewardPoints    int            `json:"rewardPoints" gorm:"not null;default:100"` // fixed at creation, paid out once
	DueDate         *time.Time     `json:"dueDate"`
	SDGLink         *int           `json:"sdgLink"`
	Progress        int            `json:"progress" gorm:"default:0"` // 0-100
	CompletedAt     *time.Time     `json:"completedAt"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	Assignee *User `json:"assignee,omitempty" gorm:"foreignKey:AssigneeID"`
	Reporter User  `json:"reporter,omitempty" gorm:"foreignKey:ReporterID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Type == "" {
		t.Type = TypeTask
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}

// TaskDependency is a directed edge: Task depends on DependsOnTask.
// Edges are recorded as-is; cycles and self-references are not rejected.
type TaskDependency struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	TaskID          uuid.UUID      `json:"taskId" gorm:"type:uuid;not null;uniqueIndex:idx_task_depends"`
	DependsOnTaskID uuid.UUID      `json:"dependsOnTaskId" gorm:"type:uuid;not null;uniqueIndex:idx_task_depends"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

func (td *TaskDependency) BeforeCreate(tx *gorm.DB) error {
	if td.ID == uuid.Nil {
		td.ID = uuid.New()
	}
	return nil
}

// Task DTOs
type CreateTaskRequest struct {
	BoardID         uuid.UUID  `json:"boardId" validate:"required"`
	Title           string     `json:"title" validate:"required"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	AssigneeID      *uuid.UUID `json:"assigneeId"`
	Labels          []string   `json:"labels"`
	EstimationHours *float64   `json:"estimationHours"`
	RewardPoints    *int       `json:"rewardPoints"`
	DueDate         *time.Time `json:"dueDate"`
	SDGLink         *int       `json:"sdgLink"`
}

type UpdateTaskRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Type            *string    `json:"type"`
	Priority        *string    `json:"priority"`
	Status          *string    `json:"status"`
	AssigneeID      *uuid.UUID `json:"assigneeId"`
	Labels          *[]string  `json:"labels"`
	EstimationHours *float64   `json:"estimationHours"`
	DueDate         *time.Time `json:"dueDate"`
	SDGLink         *int       `json:"sdgLink"`
	Progress        *int       `json:"progress"`
}

type TransitionTaskRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

type CreateDependencyRequest struct {
	DependsOnTaskID uuid.UUID `json:"dependsOnTaskId" validate:"required"`
}
