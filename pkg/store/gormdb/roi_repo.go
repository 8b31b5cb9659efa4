package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
)

type ROIRepository struct {
	db *gorm.DB
}

func NewROIRepository(db *gorm.DB) *ROIRepository {
	return &ROIRepository{db: db}
}

// Create persists calc. LinkedAt equals SubmittedDate when a project id is
// present and is nil otherwise, whatever the caller supplied.
func (r *ROIRepository) Create(ctx context.Context, calc *model.ROICalculation) error {
	if calc.SubmittedDate.IsZero() {
		calc.SubmittedDate = now()
	}
	if calc.ProjectID != nil && *calc.ProjectID == "" {
		calc.ProjectID = nil
	}
	calc.LinkedAt = nil
	if calc.ProjectID != nil {
		linkedAt := calc.SubmittedDate
		calc.LinkedAt = &linkedAt
	}
	if calc.Inputs == nil {
		calc.Inputs = model.JSONB{}
	}
	if calc.Results == nil {
		calc.Results = model.JSONB{}
	}
	return r.db.WithContext(ctx).Create(calc).Error
}

func (r *ROIRepository) GetByID(ctx context.Context, id string) (*model.ROICalculation, error) {
	var calc model.ROICalculation
	if err := r.db.WithContext(ctx).First(&calc, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &calc, nil
}

func (r *ROIRepository) List(ctx context.Context, filter store.ROIFilter) ([]model.ROICalculation, error) {
	query := r.db.WithContext(ctx).Model(&model.ROICalculation{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}

	var calcs []model.ROICalculation
	err := applyPage(query.Order("submitted_date DESC, id ASC"), filter.Page).Find(&calcs).Error
	return calcs, err
}

func (r *ROIRepository) Update(ctx context.Context, id string, patch model.ROIPatch) (*model.ROICalculation, error) {
	var updated model.ROICalculation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		columns := patch.Columns()
		if len(columns) > 0 {
			if err := tx.Model(&model.ROICalculation{}).Where("id = ?", id).Updates(columns).Error; err != nil {
				return err
			}
		}
		return tx.First(&updated, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ROIRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ROICalculation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
