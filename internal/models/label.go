package models

import (
	"time"

	"gorm.io/gorm"
)

type Label struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	TaskLabels []TaskLabel `gorm:"foreignKey:LabelID" json:"-"`
}
