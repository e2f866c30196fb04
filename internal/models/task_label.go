package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskLabel is the association row between a task and a label.
// Neither side owns it; both reach it through a foreign key lookup.
type TaskLabel struct {
	TaskID    uint64         `gorm:"primarykey" json:"task_id"`
	LabelID   uint64         `gorm:"primarykey" json:"label_id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task  Task  `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Label Label `gorm:"foreignKey:LabelID" json:"label,omitempty"`
}
