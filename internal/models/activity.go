package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity event types.
const (
	EventProjectCreated  = "project_created"
	EventProjectDeleted  = "project_deleted"
	EventBoardCreated    = "board_created"
	EventTaskCreated     = "task_created"
	EventTaskUpdated     = "task_updated"
	EventTaskAssigned    = "task_assigned"
	EventTaskDeleted     = "task_deleted"
	EventStatusChanged   = "status_changed"
	EventTaskCompleted   = "task_completed"
	EventDependencyAdded = "dependency_added"
	EventCommentAdded    = "comment_added"
	EventBadgeEarned     = "badge_earned"
	EventMemberAdded     = "member_added"
	EventMemberRemoved   = "member_removed"
)

// Activity is an append-only audit record of a domain event. It is a
// side channel, not the source of truth: entity tables hold current
// state, and referenced tasks or projects may be deleted later without
// touching their activities.
type Activity struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	Type        string     `json:"type" gorm:"not null;index"`
	Description string     `json:"description" gorm:"not null"`
	Metadata    *string    `json:"metadata"` // JSON-encoded payload, shape keyed by Type
	ProjectID   *uuid.UUID `json:"projectId" gorm:"type:uuid;index"`
	TaskID      *uuid.UUID `json:"taskId" gorm:"type:uuid;index"`
	CreatedAt   time.Time  `json:"createdAt"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Typed metadata payloads, one per event type that carries structure.

type StatusChangeMeta struct {
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	Comment   string `json:"comment,omitempty"`
}

type TaskCompletedMeta struct {
	OldStatus     string     `json:"oldStatus"`
	RewardPoints  int        `json:"rewardPoints"`
	AssigneeID    *uuid.UUID `json:"assigneeId,omitempty"`
	PointsAwarded bool       `json:"pointsAwarded"`
}

type TaskAssignedMeta struct {
	AssigneeID *uuid.UUID `json:"assigneeId"`
}

type CommentMeta struct {
	CommentID uuid.UUID `json:"commentId"`
}

type DependencyMeta struct {
	DependsOnTaskID uuid.UUID `json:"dependsOnTaskId"`
}

type BadgeEarnedMeta struct {
	BadgeID   uuid.UUID `json:"badgeId"`
	BadgeName string    `json:"badgeName"`
	AwardedBy uuid.UUID `json:"awardedBy"`
}

type MemberMeta struct {
	MemberID uuid.UUID `json:"memberId"`
	Role     string    `json:"role,omitempty"`
}
