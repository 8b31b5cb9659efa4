package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ROICalculation is a saved calculator run. ProjectID is a weak back-reference
// to the project the run was started from; LinkedAt is set iff ProjectID was
// present at creation.
type ROICalculation struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectName   string     `json:"projectName"`
	Department    string     `gorm:"index" json:"department"`
	Inputs        JSONB      `gorm:"not null" json:"inputs"`
	Results       JSONB      `gorm:"not null" json:"results"`
	SubmittedDate time.Time  `gorm:"not null;index" json:"submittedDate"`
	ProjectID     *string    `gorm:"type:varchar(36);index" json:"projectId"`
	LinkedAt      *time.Time `json:"linkedAt"`
}

func (ROICalculation) TableName() string {
	return "roi_calculations"
}

func (c *ROICalculation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type ROIPatch struct {
	ProjectName *string                 `json:"projectName"`
	Department  *string                 `json:"department"`
	Inputs      *map[string]interface{} `json:"inputs"`
	ProjectID   *string                 `json:"projectId"`
	// Results is derived from Inputs and never read from a request body.
	Results *map[string]interface{} `json:"-"`
}

func (patch ROIPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	putString(cols, "project_name", patch.ProjectName)
	putString(cols, "department", patch.Department)
	if patch.Inputs != nil {
		cols["inputs"] = JSONB(*patch.Inputs)
	}
	if patch.Results != nil {
		cols["results"] = JSONB(*patch.Results)
	}
	if patch.ProjectID != nil {
		if id := strings.TrimSpace(*patch.ProjectID); id != "" {
			cols["project_id"] = id
		} else {
			cols["project_id"] = nil
		}
	}
	return cols
}
