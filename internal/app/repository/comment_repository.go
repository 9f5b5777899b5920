package repository

import (
	"context"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByDeal(ctx context.Context, dealID string) ([]model.Comment, error)
	CountByDeal(ctx context.Context, dealID string) (int64, error)
	CountByPostedBy(ctx context.Context, userID string) (int64, error)
	DeleteByDeal(ctx context.Context, dealID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"deal_id":   comment.DealID,
		"posted_by": comment.PostedBy,
	})

	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"deal_id": comment.DealID,
		})
		return err
	}
	return nil
}

// FindByDeal returns a deal's comments oldest first. UUIDv7 ids break
// ties between comments created in the same instant.
func (r *commentRepository) FindByDeal(ctx context.Context, dealID string) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to list comments in database", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByDeal(ctx context.Context, dealID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("deal_id = ?", dealID).Count(&count).Error
	return count, err
}

func (r *commentRepository) CountByPostedBy(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("posted_by = ?", userID).Count(&count).Error
	return count, err
}

// DeleteByDeal removes every comment under a deal and reports how many
// rows went away.
func (r *commentRepository) DeleteByDeal(ctx context.Context, dealID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).Delete(&model.Comment{})
	if result.Error != nil {
		logger.Error("Failed to delete deal comments in database", result.Error, map[string]interface{}{
			"deal_id": dealID,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
