package service

import (
	"context"
	"errors"
	"strings"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrInvalidMessage = errors.New("comment message must be 1 to 500 characters")

type CommentService interface {
	PostComment(ctx context.Context, dealID, userID, message string) (*model.Comment, error)
	ListComments(ctx context.Context, dealID string) ([]model.Comment, error)
	CountByDeal(ctx context.Context, dealID string) (int64, error)
	CountByPostedBy(ctx context.Context, userID string) (int64, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	dealRepo    repository.DealRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	dealRepo repository.DealRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		dealRepo:    dealRepo,
		userRepo:    userRepo,
	}
}

// PostComment adds a comment under a deal. A removed deal behaves like a
// missing one.
func (s *commentService) PostComment(ctx context.Context, dealID, userID, message string) (*model.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > model.MaxCommentLength {
		return nil, ErrInvalidMessage
	}

	deal, err := s.resolveDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to resolve comment author", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	comment := &model.Comment{
		DealID:   deal.ID,
		PostedBy: userID,
		Message:  message,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	logger.Info("Comment posted", map[string]interface{}{
		"comment_id": comment.ID,
		"deal_id":    deal.ID,
		"posted_by":  userID,
	})
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, dealID string) ([]model.Comment, error) {
	if _, err := s.resolveDeal(ctx, dealID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByDeal(ctx, dealID)
}

func (s *commentService) CountByDeal(ctx context.Context, dealID string) (int64, error) {
	return s.commentRepo.CountByDeal(ctx, dealID)
}

func (s *commentService) CountByPostedBy(ctx context.Context, userID string) (int64, error) {
	return s.commentRepo.CountByPostedBy(ctx, userID)
}

func (s *commentService) resolveDeal(ctx context.Context, dealID string) (*model.Deal, error) {
	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		logger.Error("Failed to resolve deal for comment", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}
	if deal.Status == model.DealStatusRemoved {
		return nil, ErrDealNotFound
	}
	return deal, nil
}
