package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists project, stamping SubmittedDate when the caller left it zero.
// A new project has an empty status history.
func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if project.SubmittedDate.IsZero() {
		project.SubmittedDate = now()
	}
	project.LastUpdated = project.SubmittedDate
	project.StatusHistory = nil
	if project.AITypes == nil {
		project.AITypes = model.StringList{}
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error; err != nil {
		return err
	}
	project.StatusHistory = []model.StatusHistoryEntry{}
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *ProjectRepository) get(db *gorm.DB, id string) (*model.Project, error) {
	var project model.Project
	err := db.
		Preload("StatusHistory", func(q *gorm.DB) *gorm.DB { return q.Order("seq ASC") }).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, mapErr(err)
	}
	if project.StatusHistory == nil {
		project.StatusHistory = []model.StatusHistoryEntry{}
	}
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context, filter store.ProjectFilter) ([]model.Project, error) {
	query := r.db.WithContext(ctx).
		Preload("StatusHistory", func(q *gorm.DB) *gorm.DB { return q.Order("seq ASC") })

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	var projects []model.Project
	err := applyPage(query.Order("submitted_date DESC, id ASC"), filter.Page).Find(&projects).Error
	for i := range projects {
		if projects[i].StatusHistory == nil {
			projects[i].StatusHistory = []model.StatusHistoryEntry{}
		}
	}
	return projects, err
}

// Update merges patch into the stored project in one transaction. A status
// that differs from the stored one appends a history entry and an outbox event
// in the same transaction, so readers never see one without the other.
func (r *ProjectRepository) Update(ctx context.Context, id string, patch model.ProjectPatch, actor string) (*model.Project, error) {
	var updated *model.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Project
		query := tx
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&existing, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}

		changedAt := now()
		columns := patch.Columns()
		columns["last_updated"] = changedAt
		if err := tx.Model(&model.Project{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return err
		}

		if patch.Status != nil && *patch.Status != existing.Status {
			if err := appendStatus(tx, &existing, *patch.Status, actor, changedAt); err != nil {
				return err
			}
		}

		if patch.ROICalculationID != nil && (existing.ROICalculationID == nil || *existing.ROICalculationID != *patch.ROICalculationID) {
			event := &model.ProjectEvent{
				ProjectID: id,
				EventType: model.EventProjectROILinked,
				Payload: model.JSONB{
					"projectId":        id,
					"roiCalculationId": *patch.ROICalculationID,
					"linkedAt":         changedAt,
				},
				Status: model.OutboxStatusPending,
			}
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}

		project, err := r.get(tx, id)
		if err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func appendStatus(tx *gorm.DB, existing *model.Project, status model.ProjectStatus, actor string, changedAt time.Time) error {
	entry := &model.StatusHistoryEntry{
		ProjectID: existing.ID,
		Status:    status,
		ChangedAt: changedAt,
		ChangedBy: actor,
	}
	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	event := &model.ProjectEvent{
		ProjectID: existing.ID,
		EventType: model.EventProjectStatusChanged,
		Payload: model.JSONB{
			"projectId": existing.ID,
			"from":      string(existing.Status),
			"to":        string(status),
			"changedBy": actor,
			"changedAt": changedAt,
		},
		Status: model.OutboxStatusPending,
	}
	return tx.Create(event).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.StatusHistoryEntry{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}
