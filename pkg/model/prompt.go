package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromptStatus string

const (
	PromptPending  PromptStatus = "pending"
	PromptApproved PromptStatus = "approved"
	PromptRejected PromptStatus = "rejected"
)

func (s PromptStatus) Valid() bool {
	switch s {
	case PromptPending, PromptApproved, PromptRejected:
		return true
	default:
		return false
	}
}

type PromptSubmission struct {
	ID             string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title          string       `gorm:"not null" json:"title"`
	Category       string       `gorm:"not null;index" json:"category"`
	Description    string       `gorm:"not null" json:"description"`
	Template       string       `gorm:"type:text;not null" json:"template"`
	Tags           StringList   `json:"tags"`
	SubmitterName  string       `json:"submitterName"`
	SubmitterEmail string       `json:"submitterEmail"`
	SubmittedDate  time.Time    `gorm:"not null;index" json:"submittedDate"`
	Status         PromptStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes     string       `json:"adminNotes,omitempty"`
	ReviewedBy     *string      `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time   `json:"reviewedAt,omitempty"`
}

func (PromptSubmission) TableName() string {
	return "prompt_submissions"
}

func (p *PromptSubmission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type PromptPatch struct {
	Title       *string       `json:"title"`
	Category    *string       `json:"category"`
	Description *string       `json:"description"`
	Template    *string       `json:"template"`
	Tags        *[]string     `json:"tags"`
	Status      *PromptStatus `json:"status"`
	AdminNotes  *string       `json:"adminNotes"`
}

// Columns maps content fields and status. Blank content fields are skipped
// since create requires them. Review metadata is set by the store.
func (patch PromptPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	putNonBlank(cols, "title", patch.Title)
	putNonBlank(cols, "category", patch.Category)
	putNonBlank(cols, "description", patch.Description)
	putNonBlank(cols, "template", patch.Template)
	if patch.Tags != nil {
		cols["tags"] = StringList(*patch.Tags)
	}
	if patch.Status != nil {
		cols["status"] = *patch.Status
	}
	putString(cols, "admin_notes", patch.AdminNotes)
	return cols
}
