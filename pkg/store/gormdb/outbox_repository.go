package gormdb

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/countyai/cop-portal/pkg/model"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]model.ProjectEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []model.ProjectEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", model.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, eventID string, publishedAt time.Time) error {
	updates := map[string]interface{}{
		"status":       model.OutboxStatusPublished,
		"published_at": publishedAt,
	}
	return r.db.WithContext(ctx).
		Model(&model.ProjectEvent{}).
		Where("event_id = ?", eventID).
		Updates(updates).Error
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectEvent{}).
		Where("event_id = ?", eventID).
		Update("status", model.OutboxStatusFailed).Error
}
