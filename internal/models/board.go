package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoardColumn is one status bucket on a Kanban board. Columns are a UI
// grouping taxonomy; tasks carry their status directly.
type BoardColumn struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type Board struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID      `json:"projectId" gorm:"type:uuid;index;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Columns     []BoardColumn  `json:"columns" gorm:"serializer:json"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:BoardID"`
}

// DefaultColumns is the four-stage layout every new board starts with.
func DefaultColumns() []BoardColumn {
	return []BoardColumn{
		{ID: StatusTodo, Name: "To Do", Order: 0},
		{ID: StatusInProgress, Name: "In Progress", Order: 1},
		{ID: StatusReview, Name: "Review", Order: 2},
		{ID: StatusDone, Name: "Done", Order: 3},
	}
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if len(b.Columns) == 0 {
		b.Columns = DefaultColumns()
	}
	return nil
}

// Board DTOs
type CreateBoardRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description"`
	Columns     []BoardColumn `json:"columns"`
}

type UpdateBoardRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Columns     *[]BoardColumn `json:"columns"`
}
