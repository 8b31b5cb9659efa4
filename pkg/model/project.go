package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectApproved   ProjectStatus = "approved"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
	ProjectRejected   ProjectStatus = "rejected"
)

// Any status may move to any other; only the recording of transitions is enforced.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPending, ProjectApproved, ProjectInProgress, ProjectCompleted, ProjectOnHold, ProjectRejected:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Project is an AI adoption proposal. ProjectName, Department, ProjectLead and
// ContactEmail are fixed at submission.
type Project struct {
	ID                 string               `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectName        string               `gorm:"not null" json:"projectName"`
	Department         string               `gorm:"not null;index" json:"department"`
	ProjectLead        string               `gorm:"not null" json:"projectLead"`
	ContactEmail       string               `gorm:"not null" json:"contactEmail"`
	Description        string               `json:"description"`
	Problem            string               `json:"problem"`
	Solution           string               `json:"solution"`
	ExpectedOutcomes   string               `json:"expectedOutcomes"`
	Status             ProjectStatus        `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Priority           Priority             `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Progress           int                  `gorm:"not null;default:0" json:"progress"`
	Timeline           string               `json:"timeline"`
	Budget             string               `json:"budget"`
	AITypes            StringList           `gorm:"column:ai_types" json:"aiTypes"`
	AffectedStaff      float64              `json:"affectedStaff"`
	HoursPerWeek       float64              `json:"hoursPerWeek"`
	EfficiencyGain     float64              `json:"efficiencyGain"`
	EstimatedROI       float64              `gorm:"column:estimated_roi" json:"estimatedROI"`
	AnnualSavings      float64              `json:"annualSavings"`
	ImplementationCost float64              `json:"implementationCost"`
	Source             string               `json:"source"`
	ROICalculationID   *string              `gorm:"column:roi_calculation_id;type:varchar(36)" json:"roiCalculationId,omitempty"`
	AdminNotes         string               `json:"adminNotes,omitempty"`
	SubmittedDate      time.Time            `gorm:"not null;index" json:"submittedDate"`
	LastUpdated        time.Time            `gorm:"not null" json:"lastUpdated"`
	StatusHistory      []StatusHistoryEntry `gorm:"foreignKey:ProjectID" json:"statusHistory"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// StatusHistoryEntry is one append-only audit row. Seq orders entries of a
// project; rows are inserted and never updated.
type StatusHistoryEntry struct {
	Seq       uint64        `gorm:"primaryKey;autoIncrement" json:"-"`
	ProjectID string        `gorm:"type:varchar(36);not null;index" json:"-"`
	Status    ProjectStatus `gorm:"type:varchar(20);not null" json:"status"`
	ChangedAt time.Time     `gorm:"not null" json:"changedAt"`
	ChangedBy string        `gorm:"not null" json:"changedBy"`
}

func (StatusHistoryEntry) TableName() string {
	return "project_status_history"
}

// ProjectPatch is the subset of a project an update may change. Identity
// fields, ID, SubmittedDate and StatusHistory have no representation here.
type ProjectPatch struct {
	Description        *string        `json:"description"`
	Problem            *string        `json:"problem"`
	Solution           *string        `json:"solution"`
	ExpectedOutcomes   *string        `json:"expectedOutcomes"`
	Status             *ProjectStatus `json:"status"`
	Priority           *Priority      `json:"priority"`
	Progress           *int           `json:"progress"`
	Timeline           *string        `json:"timeline"`
	Budget             *string        `json:"budget"`
	AITypes            *[]string      `json:"aiTypes"`
	AffectedStaff      *float64       `json:"affectedStaff"`
	HoursPerWeek       *float64       `json:"hoursPerWeek"`
	EfficiencyGain     *float64       `json:"efficiencyGain"`
	EstimatedROI       *float64       `json:"estimatedROI"`
	AnnualSavings      *float64       `json:"annualSavings"`
	ImplementationCost *float64       `json:"implementationCost"`
	ROICalculationID   *string        `json:"roiCalculationId"`
	AdminNotes         *string        `json:"adminNotes"`
}

// Columns maps the set fields of patch to column updates. Only set fields are
// written, so concurrent updates of different fields do not clobber each other.
func (patch ProjectPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	putString(cols, "description", patch.Description)
	putString(cols, "problem", patch.Problem)
	putString(cols, "solution", patch.Solution)
	putString(cols, "expected_outcomes", patch.ExpectedOutcomes)
	if patch.Status != nil {
		cols["status"] = *patch.Status
	}
	if patch.Priority != nil {
		cols["priority"] = *patch.Priority
	}
	if patch.Progress != nil {
		cols["progress"] = *patch.Progress
	}
	putString(cols, "timeline", patch.Timeline)
	putString(cols, "budget", patch.Budget)
	if patch.AITypes != nil {
		cols["ai_types"] = StringList(*patch.AITypes)
	}
	putFloat(cols, "affected_staff", patch.AffectedStaff)
	putFloat(cols, "hours_per_week", patch.HoursPerWeek)
	putFloat(cols, "efficiency_gain", patch.EfficiencyGain)
	putFloat(cols, "estimated_roi", patch.EstimatedROI)
	putFloat(cols, "annual_savings", patch.AnnualSavings)
	putFloat(cols, "implementation_cost", patch.ImplementationCost)
	putString(cols, "roi_calculation_id", patch.ROICalculationID)
	putString(cols, "admin_notes", patch.AdminNotes)
	return cols
}

func putString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

func putNonBlank(cols map[string]interface{}, column string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		cols[column] = *v
	}
}

func putFloat(cols map[string]interface{}, column string, v *float64) {
	if v != nil {
		cols[column] = *v
	}
}
