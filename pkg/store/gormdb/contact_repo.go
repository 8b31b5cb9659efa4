package gormdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/countyai/cop-portal/pkg/model"
	"github.com/countyai/cop-portal/pkg/store"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *model.ContactSubmission) error {
	if contact.SubmittedDate.IsZero() {
		contact.SubmittedDate = now()
	}
	if contact.Status == "" {
		contact.Status = model.ContactNew
	}
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (*model.ContactSubmission, error) {
	var contact model.ContactSubmission
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &contact, nil
}

func (r *ContactRepository) List(ctx context.Context, filter store.ContactFilter) ([]model.ContactSubmission, error) {
	query := r.db.WithContext(ctx).Model(&model.ContactSubmission{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var contacts []model.ContactSubmission
	err := applyPage(query.Order("submitted_date DESC, id ASC"), filter.Page).Find(&contacts).Error
	return contacts, err
}

func (r *ContactRepository) Update(ctx context.Context, id string, patch model.ContactPatch) (*model.ContactSubmission, error) {
	var updated model.ContactSubmission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "id = ?", id).Error; err != nil {
			return mapErr(err)
		}
		columns := patch.Columns()
		if len(columns) > 0 {
			if err := tx.Model(&model.ContactSubmission{}).Where("id = ?", id).Updates(columns).Error; err != nil {
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

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ContactSubmission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
