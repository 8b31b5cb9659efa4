package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending   = "pending"
	OutboxStatusPublished = "published"
	OutboxStatusFailed    = "failed"
)

const (
	EventProjectStatusChanged = "project.status_changed"
	EventProjectROILinked     = "project.roi_linked"
)

// ProjectEvent is an outbox row written in the same transaction as the
// project change it describes.
type ProjectEvent struct {
	EventID     string    `gorm:"type:varchar(36);primaryKey"`
	ProjectID   string    `gorm:"type:varchar(36);not null;index"`
	EventType   string    `gorm:"not null"`
	Payload     JSONB     `gorm:"not null"`
	Status      string    `gorm:"not null;default:'pending';index"`
	CreatedAt   time.Time `gorm:"autoCreateTime;not null"`
	PublishedAt *time.Time
}

func (ProjectEvent) TableName() string {
	return "project_events"
}

func (e *ProjectEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	return nil
}
