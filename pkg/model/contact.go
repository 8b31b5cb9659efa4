package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	default:
		return false
	}
}

type ContactSubmission struct {
	ID            string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string        `gorm:"not null" json:"name"`
	Email         string        `gorm:"not null" json:"email"`
	Department    string        `json:"department"`
	Subject       string        `gorm:"not null" json:"subject"`
	Message       string        `gorm:"type:text;not null" json:"message"`
	SubmittedDate time.Time     `gorm:"not null;index" json:"submittedDate"`
	Status        ContactStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	AdminNotes    string        `json:"adminNotes,omitempty"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ContactPatch is deliberately narrow: only moderation fields change.
type ContactPatch struct {
	Status     *ContactStatus `json:"status"`
	AdminNotes *string        `json:"adminNotes"`
}

func (patch ContactPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if patch.Status != nil {
		cols["status"] = *patch.Status
	}
	putString(cols, "admin_notes", patch.AdminNotes)
	return cols
}
