package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Badge is an achievement that admins award explicitly. Criteria and
// PointsRequired are descriptive metadata only; nothing in the core
// evaluates them. Badges are never hard-deleted — "delete" clears
// IsActive and leaves the row and all existing awards intact.
type Badge struct {
	ID             uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string                 `json:"name" gorm:"not null"`
	Description    string                 `json:"description"`
	Icon           string                 `json:"icon"`
	Criteria       map[string]interface{} `json:"criteria" gorm:"serializer:json"`
	PointsRequired *int                   `json:"pointsRequired"`
	IsActive       bool                   `json:"isActive" gorm:"not null;default:true"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt         `json:"-" gorm:"index"`
}

func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type UserBadge struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_badge"`
	BadgeID   uuid.UUID      `json:"badgeId" gorm:"type:uuid;not null;uniqueIndex:idx_user_badge"`
	EarnedAt  time.Time      `json:"earnedAt"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Badge Badge `json:"badge,omitempty" gorm:"foreignKey:BadgeID"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (ub *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if ub.ID == uuid.Nil {
		ub.ID = uuid.New()
	}
	if ub.EarnedAt.IsZero() {
		ub.EarnedAt = time.Now()
	}
	return nil
}

// Badge DTOs
type CreateBadgeRequest struct {
	Name           string                 `json:"name" validate:"required"`
	Description    string                 `json:"description"`
	Icon           string                 `json:"icon"`
	Criteria       map[string]interface{} `json:"criteria"`
	PointsRequired *int                   `json:"pointsRequired"`
}

type UpdateBadgeRequest struct {
	Name           *string                 `json:"name"`
	Description    *string                 `json:"description"`
	Icon           *string                 `json:"icon"`
	Criteria       *map[string]interface{} `json:"criteria"`
	PointsRequired *int                    `json:"pointsRequired"`
}

type AwardBadgeRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}
