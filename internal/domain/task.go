package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:varchar(1000);not null"`
	Completed   bool      `gorm:"not null;default:false;index:idx_tasks_completed_created_at,priority:1"`
	CreatedAt   time.Time `gorm:"not null;index:idx_tasks_completed_created_at,priority:2"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// BeforeCreate assigns a time-ordered UUID so that ids sort the same way as
// creation times.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}
