package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type Project struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     uuid.UUID      `json:"ownerId" gorm:"type:uuid;index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Visibility  string         `json:"visibility" gorm:"not null;default:'private'"` // public, private
	SDGTags     []int          `json:"sdgTags" gorm:"serializer:json"`               // UN SDG numbers 1-17, opaque to the core
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Owner  User    `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Boards []Board `json:"boards,omitempty" gorm:"foreignKey:ProjectID"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Visibility == "" {
		p.Visibility = VisibilityPrivate
	}
	return nil
}

// ProjectMember records membership with a project-scoped role,
// independent of the user's global role.
type ProjectMember struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID      `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_project_user"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_project_user"`
	Role      string         `json:"role" gorm:"not null;default:'member'"` // owner, member
	JoinedAt  time.Time      `json:"joinedAt"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (pm *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if pm.ID == uuid.Nil {
		pm.ID = uuid.New()
	}
	if pm.JoinedAt.IsZero() {
		pm.JoinedAt = time.Now()
	}
	return nil
}

// Project DTOs
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	SDGTags     []int  `json:"sdgTags"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Visibility  *string `json:"visibility"`
	SDGTags     *[]int  `json:"sdgTags"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   string    `json:"role"`
}

type MemberInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}
