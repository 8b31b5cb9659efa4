package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
)

type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) Create(ctx context.Context, prompt *model.PromptSubmission) error {
	if prompt.SubmittedDate.IsZero() {
		prompt.SubmittedDate = now()
	}
	if prompt.Status == "" {
		prompt.Status = model.PromptPending
	}
	if prompt.Tags == nil {
		prompt.Tags = model.StringList{}
	}
	return r.db.WithContext(ctx).Create(prompt).Error
}

func (r *PromptRepository) GetByID(ctx context.Context, id string) (*model.PromptSubmission, error) {
	var prompt model.PromptSubmission
	if err := r.db.WithContext(ctx).First(&prompt, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &prompt, nil
}

func (r *PromptRepository) List(ctx context.Context, filter store.PromptFilter) ([]model.PromptSubmission, error) {
	query := r.db.WithContext(ctx).Model(&model.PromptSubmission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var prompts []model.PromptSubmission
	err := applyPage(query.Order("submitted_date DESC, id ASC"), filter.Page).Find(&prompts).Error
	return prompts, err
}

// Update merges patch. The first transition away from pending records the
// reviewer and review time; later transitions leave them untouched.
func (r *PromptRepository) Update(ctx context.Context, id string, patch model.PromptPatch, actor string) (*model.PromptSubmission, error) {
	var updated model.PromptSubmission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.PromptSubmission
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}

		columns := patch.Columns()
		if patch.Status != nil && *patch.Status != model.PromptPending &&
			existing.Status == model.PromptPending && existing.ReviewedAt == nil {
			columns["reviewed_by"] = actor
			columns["reviewed_at"] = now()
		}
		if len(columns) > 0 {
			if err := tx.Model(&model.PromptSubmission{}).Where("id = ?", id).Updates(columns).Error; err != nil {
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

func (r *PromptRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PromptSubmission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
