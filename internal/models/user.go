package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Global user roles, ordered from most to least privileged.
const (
	RoleSuperAdmin     = "super_admin"
	RoleAdmin          = "admin"
	RoleProjectManager = "project_manager"
	RoleMember         = "member"
	RoleGuest          = "guest"
)

var ValidRoles = map[string]bool{
	RoleSuperAdmin:     true,
	RoleAdmin:          true,
	RoleProjectManager: true,
	RoleMember:         true,
	RoleGuest:          true,
}

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	Password     string         `json:"-"`
	AuthProvider string         `json:"authProvider" gorm:"default:email"`
	Name         string         `json:"name"`
	DisplayName  string         `json:"displayName"`
	AvatarURL    string         `json:"avatarUrl"`
	Bio          string         `json:"bio"`
	Role         string         `json:"role" gorm:"not null;default:'member'"`
	Points       int            `json:"points" gorm:"not null;default:0"`
	Level        int            `json:"level" gorm:"not null;default:1"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Projects     []Project      `json:"projects,omitempty" gorm:"foreignKey:OwnerID"`
}

// LevelForPoints is the single source of the leveling rule.
func LevelForPoints(points int) int {
	return points/100 + 1
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleMember
	}
	if u.Level == 0 {
		u.Level = LevelForPoints(u.Points)
	}
	return nil
}

// Auth DTOs
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleAuthRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	Bio         *string `json:"bio"`
	Name        *string `json:"name"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
