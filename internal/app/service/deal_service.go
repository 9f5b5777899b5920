package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/pkg/keylock"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"github.com/halildurmus/hotdeals-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrDealNotFound      = errors.New("deal not found")
	ErrInvalidPrice      = errors.New("price must be non-negative")
	ErrInvalidVote       = errors.New("invalid vote direction")
	ErrIllegalTransition = errors.New("illegal deal status transition")
	ErrModeratorOnly     = errors.New("transition requires the moderator role")
	ErrDealAccessDenied  = errors.New("deal access denied")
	ErrLockTimeout       = errors.New("deal is busy, try again") // retryable
	ErrInvalidCursor     = errors.New("invalid pagination cursor")
)

// ReferenceError reports a dangling cross-entity reference detected while
// validating a write. The whole write is aborted; nothing is persisted.
type ReferenceError struct {
	Kind string // "user", "store" or "category"
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s reference %q does not exist", e.Kind, e.ID)
}

type PostDealInput struct {
	PostedBy      string
	StoreID       string
	Category      string
	Title         string
	Description   string
	OriginalPrice float64
	Price         float64
	CoverPhoto    string
	DealURL       string
	Photos        []string
	Tags          []string
	Location      string
}

type UpdateDealInput struct {
	Title         *string
	Description   *string
	OriginalPrice *float64
	Price         *float64
	CoverPhoto    *string
	DealURL       *string
	Photos        *[]string
	Tags          *[]string
	Location      *string
}

type ListDealsOptions struct {
	Status    *model.DealStatus
	SortBy    string // "score", "createdAt" or "price"
	Ascending bool
	Cursor    string // opaque, from a previous page
	Limit     int
}

// DealPage is one page of a listing plus the cursor for the next one.
// NextCursor is empty on the last page.
type DealPage struct {
	Deals      []model.Deal
	NextCursor string
}

type DealService interface {
	PostDeal(ctx context.Context, input PostDealInput) (*model.Deal, error)
	GetDeal(ctx context.Context, id string) (*model.Deal, error)
	Vote(ctx context.Context, dealID, userID string, direction model.VoteDirection) (*model.Deal, error)
	RecordView(ctx context.Context, dealID string)
	SetStatus(ctx context.Context, dealID string, status model.DealStatus, actorRole model.UserRole) (*model.Deal, error)
	UpdateDeal(ctx context.Context, userID, dealID string, input UpdateDealInput) (*model.Deal, error)
	ListByCategory(ctx context.Context, categoryPath string, opts ListDealsOptions) (*DealPage, error)
	ListByStore(ctx context.Context, storeID string, opts ListDealsOptions) (*DealPage, error)
	CountByPostedBy(ctx context.Context, userID string) (int64, error)
	CountByStore(ctx context.Context, storeID string) (int64, error)
}

type dealService struct {
	dealRepo    repository.DealRepository
	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	commentRepo repository.CommentRepository
	categories  CategoryService
	locks       *keylock.KeyLock
	lockTimeout time.Duration
}

func NewDealService(
	dealRepo repository.DealRepository,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	commentRepo repository.CommentRepository,
	categories CategoryService,
	lockTimeout time.Duration,
) DealService {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &dealService{
		dealRepo:    dealRepo,
		userRepo:    userRepo,
		storeRepo:   storeRepo,
		commentRepo: commentRepo,
		categories:  categories,
		locks:       keylock.New(),
		lockTimeout: lockTimeout,
	}
}

// lockDeal serializes mutations of a single deal. Waiters are bounded by the
// configured lock timeout on top of the caller's own deadline.
func (s *dealService) lockDeal(ctx context.Context, dealID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	if err := s.locks.Acquire(lockCtx, dealID); err != nil {
		if errors.Is(err, keylock.ErrTimeout) && ctx.Err() == nil {
			logger.Warn("Deal lock acquisition timed out", map[string]interface{}{
				"deal_id": dealID,
				"timeout": s.lockTimeout.String(),
			})
			return nil, ErrLockTimeout
		}
		return nil, err
	}
	return func() { s.locks.Release(dealID) }, nil
}

// resolveReferences validates postedBy, store and category before a deal
// write commits. Any dangling reference aborts the whole write.
func (s *dealService) resolveReferences(postedBy, storeID, categoryPath string) error {
	if _, err := s.userRepo.FindByID(postedBy); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ReferenceError{Kind: "user", ID: postedBy}
		}
		return err
	}

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ReferenceError{Kind: "store", ID: storeID}
		}
		return err
	}

	if _, err := s.categories.GetByPath(categoryPath); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return &ReferenceError{Kind: "category", ID: categoryPath}
		}
		return err
	}

	return nil
}

// ensureTags resolves every tag path, auto-creating missing promotional
// tags, and returns the normalized paths.
func (s *dealService) ensureTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	validated := make([]string, 0, len(tags))
	for _, tagPath := range tags {
		tag, err := s.categories.EnsureTag(tagPath)
		if err != nil {
			return nil, err
		}
		validated = append(validated, tag.Path)
	}
	return validated, nil
}

func (s *dealService) PostDeal(ctx context.Context, input PostDealInput) (*model.Deal, error) {
	logger.Info("Posting deal", map[string]interface{}{
		"posted_by": input.PostedBy,
		"store_id":  input.StoreID,
		"category":  input.Category,
		"title":     input.Title,
	})

	if input.Price < 0 || input.OriginalPrice < 0 {
		logger.Warn("Rejected deal with negative price", map[string]interface{}{
			"price":          input.Price,
			"original_price": input.OriginalPrice,
		})
		return nil, ErrInvalidPrice
	}
	if input.Price > input.OriginalPrice && input.OriginalPrice > 0 {
		// Tolerated: some legitimate listings carry stale original prices.
		logger.Warn("Deal price exceeds original price", map[string]interface{}{
			"price":          input.Price,
			"original_price": input.OriginalPrice,
			"title":          input.Title,
		})
	}

	category := model.NormalizePath(input.Category)
	if err := s.resolveReferences(input.PostedBy, input.StoreID, category); err != nil {
		logger.Warn("Deal reference resolution failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	tags, err := s.ensureTags(input.Tags)
	if err != nil {
		logger.Error("Failed to validate deal tags", err, map[string]interface{}{
			"tags": input.Tags,
		})
		return nil, err
	}

	coverPhoto := input.CoverPhoto
	if coverPhoto == "" && len(input.Photos) > 0 {
		coverPhoto = input.Photos[0]
	}

	deal := &model.Deal{
		PostedBy:      input.PostedBy,
		StoreID:       input.StoreID,
		Category:      category,
		Title:         input.Title,
		Description:   input.Description,
		OriginalPrice: input.OriginalPrice,
		Price:         input.Price,
		DealScore:     0,
		Upvoters:      model.StringArray{},
		Downvoters:    model.StringArray{},
		Status:        model.DealStatusActive,
		CoverPhoto:    coverPhoto,
		DealURL:       input.DealURL,
		Photos:        model.StringArray(input.Photos),
		Tags:          model.StringArray(tags),
		Location:      input.Location,
		Views:         0,
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		logger.Error("Failed to create deal", err, map[string]interface{}{
			"title": input.Title,
		})
		return nil, err
	}

	logger.Info("Deal posted successfully", map[string]interface{}{
		"deal_id": deal.ID,
		"title":   deal.Title,
	})
	return deal, nil
}

func (s *dealService) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	deal, err := s.dealRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		logger.Error("Failed to fetch deal", err, map[string]interface{}{
			"deal_id": id,
		})
		return nil, err
	}

	// Fetching a deal counts as a view, best effort.
	s.RecordView(ctx, id)
	return deal, nil
}

func (s *dealService) Vote(ctx context.Context, dealID, userID string, direction model.VoteDirection) (*model.Deal, error) {
	switch direction {
	case model.VoteUp, model.VoteDown, model.VoteRetract:
	default:
		return nil, ErrInvalidVote
	}

	logger.Debug("Processing vote", map[string]interface{}{
		"deal_id":   dealID,
		"user_id":   userID,
		"direction": direction,
	})

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Kind: "user", ID: userID}
		}
		return nil, err
	}

	unlock, err := s.lockDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		logger.Error("Failed to fetch deal for vote", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}
	if deal.Status == model.DealStatusRemoved {
		return nil, ErrDealNotFound
	}

	// ApplyVote keeps the voter sets disjoint and recomputes the score from
	// them. Repeating the same direction changes nothing, so the write is
	// skipped and the call stays idempotent.
	if changed := deal.ApplyVote(userID, direction); !changed {
		logger.Debug("Vote is a no-op", map[string]interface{}{
			"deal_id":   dealID,
			"user_id":   userID,
			"direction": direction,
		})
		return deal, nil
	}

	if err := s.dealRepo.UpdateVoteFields(ctx, deal); err != nil {
		logger.Error("Failed to persist vote", err, map[string]interface{}{
			"deal_id": dealID,
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Vote recorded", map[string]interface{}{
		"deal_id":    dealID,
		"user_id":    userID,
		"direction":  direction,
		"deal_score": deal.DealScore,
	})
	return deal, nil
}

// RecordView counts a view, best effort: failures are swallowed after a
// warning and a missing deal is a no-op. When redis is available views are
// buffered there and drained to the database by the scheduler.
func (s *dealService) RecordView(ctx context.Context, dealID string) {
	if redis.Available() {
		if err := redis.IncrementDealViews(ctx, dealID); err == nil {
			return
		} else {
			logger.Warn("Redis view increment failed, falling back to database", map[string]interface{}{
				"deal_id": dealID,
				"error":   err.Error(),
			})
		}
	}

	if err := s.dealRepo.IncrementViews(ctx, dealID); err != nil {
		logger.Warn("Failed to record deal view", map[string]interface{}{
			"deal_id": dealID,
			"error":   err.Error(),
		})
	}
}

func (s *dealService) SetStatus(ctx context.Context, dealID string, status model.DealStatus, actorRole model.UserRole) (*model.Deal, error) {
	logger.Info("Updating deal status", map[string]interface{}{
		"deal_id": dealID,
		"status":  status,
		"actor":   actorRole,
	})

	switch status {
	case model.DealStatusActive, model.DealStatusExpired, model.DealStatusRemoved:
	default:
		return nil, ErrIllegalTransition
	}

	// The expiry scan bypasses this path through the repository; every
	// caller-initiated transition needs the moderator role.
	if actorRole != model.RoleModerator {
		logger.Warn("Status transition denied", map[string]interface{}{
			"deal_id": dealID,
			"status":  status,
			"actor":   actorRole,
		})
		return nil, ErrModeratorOnly
	}

	unlock, err := s.lockDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		logger.Error("Failed to fetch deal for status update", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}

	if deal.Status == status {
		return deal, nil
	}
	if !deal.Status.CanTransitionTo(status) {
		logger.Warn("Illegal deal status transition", map[string]interface{}{
			"deal_id": dealID,
			"from":    deal.Status,
			"to":      status,
		})
		return nil, ErrIllegalTransition
	}

	if err := s.dealRepo.UpdateStatus(ctx, dealID, status); err != nil {
		logger.Error("Failed to update deal status", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}
	deal.Status = status

	// Removing a deal retires its comments with it.
	if status == model.DealStatusRemoved {
		purged, err := s.commentRepo.DeleteByDeal(ctx, dealID)
		if err != nil {
			logger.Error("Failed to purge comments of removed deal", err, map[string]interface{}{
				"deal_id": dealID,
			})
		} else if purged > 0 {
			logger.Info("Purged comments of removed deal", map[string]interface{}{
				"deal_id": dealID,
				"count":   purged,
			})
		}
	}

	logger.Info("Deal status updated", map[string]interface{}{
		"deal_id": dealID,
		"status":  status,
	})
	return deal, nil
}

func (s *dealService) UpdateDeal(ctx context.Context, userID, dealID string, input UpdateDealInput) (*model.Deal, error) {
	unlock, err := s.lockDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	deal, err := s.dealRepo.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		logger.Error("Failed to fetch deal for update", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}
	if deal.Status == model.DealStatusRemoved {
		return nil, ErrDealNotFound
	}

	if deal.PostedBy != userID {
		logger.Warn("Deal update forbidden", map[string]interface{}{
			"deal_id":   dealID,
			"user_id":   userID,
			"posted_by": deal.PostedBy,
		})
		return nil, ErrDealAccessDenied
	}

	if input.Title != nil {
		deal.Title = *input.Title
	}
	if input.Description != nil {
		deal.Description = *input.Description
	}
	if input.OriginalPrice != nil {
		if *input.OriginalPrice < 0 {
			return nil, ErrInvalidPrice
		}
		deal.OriginalPrice = *input.OriginalPrice
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		deal.Price = *input.Price
	}
	if input.CoverPhoto != nil {
		deal.CoverPhoto = *input.CoverPhoto
	}
	if input.DealURL != nil {
		deal.DealURL = *input.DealURL
	}
	if input.Photos != nil {
		deal.Photos = model.StringArray(*input.Photos)
	}
	if input.Tags != nil {
		tags, err := s.ensureTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		deal.Tags = model.StringArray(tags)
	}
	if input.Location != nil {
		deal.Location = *input.Location
	}

	if deal.Price > deal.OriginalPrice && deal.OriginalPrice > 0 {
		logger.Warn("Deal price exceeds original price", map[string]interface{}{
			"deal_id":        dealID,
			"price":          deal.Price,
			"original_price": deal.OriginalPrice,
		})
	}

	if err := s.dealRepo.Save(ctx, deal); err != nil {
		logger.Error("Failed to update deal", err, map[string]interface{}{
			"deal_id": dealID,
		})
		return nil, err
	}

	logger.Info("Deal updated successfully", map[string]interface{}{
		"deal_id": dealID,
	})
	return deal, nil
}

func (s *dealService) ListByCategory(ctx context.Context, categoryPath string, opts ListDealsOptions) (*DealPage, error) {
	filter, err := buildDealFilter(opts)
	if err != nil {
		return nil, err
	}
	filter.CategoryPath = model.NormalizePath(categoryPath)
	return s.listPage(ctx, filter)
}

func (s *dealService) ListByStore(ctx context.Context, storeID string, opts ListDealsOptions) (*DealPage, error) {
	filter, err := buildDealFilter(opts)
	if err != nil {
		return nil, err
	}
	filter.StoreID = storeID
	return s.listPage(ctx, filter)
}

func (s *dealService) listPage(ctx context.Context, filter repository.DealFilter) (*DealPage, error) {
	deals, err := s.dealRepo.ListWithFilter(ctx, filter)
	if err != nil {
		// Either the whole page or nothing: a cancelled listing returns the
		// context error, never partial results.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Error("Failed to list deals", err, map[string]interface{}{
			"category": filter.CategoryPath,
			"store_id": filter.StoreID,
		})
		return nil, err
	}

	page := &DealPage{Deals: deals}
	if filter.Limit > 0 && len(deals) == filter.Limit {
		last := &deals[len(deals)-1]
		page.NextCursor = encodeCursor(repository.DealCursor{
			Value: repository.CursorValueOf(last, filter.SortBy),
			ID:    last.ID,
		})
	}
	return page, nil
}

func (s *dealService) CountByPostedBy(ctx context.Context, userID string) (int64, error) {
	return s.dealRepo.CountByPostedBy(ctx, userID)
}

func (s *dealService) CountByStore(ctx context.Context, storeID string) (int64, error) {
	return s.dealRepo.CountByStore(ctx, storeID)
}

const defaultPageSize = 20

func buildDealFilter(opts ListDealsOptions) (repository.DealFilter, error) {
	filter := repository.DealFilter{
		Status:    opts.Status,
		Ascending: opts.Ascending,
		Limit:     opts.Limit,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	switch opts.SortBy {
	case "", "score":
		filter.SortBy = repository.DealSortScore
	case "createdAt", "created_at":
		filter.SortBy = repository.DealSortCreatedAt
	case "price":
		filter.SortBy = repository.DealSortPrice
	default:
		return filter, fmt.Errorf("%w: unknown sort %q", ErrInvalidCursor, opts.SortBy)
	}

	if opts.Cursor != "" {
		cursor, err := decodeCursor(opts.Cursor)
		if err != nil {
			return filter, ErrInvalidCursor
		}
		if _, err := filter.SortBy.CursorValue(cursor.Value); err != nil {
			return filter, ErrInvalidCursor
		}
		filter.Cursor = cursor
	}
	return filter, nil
}

// Cursors are opaque to clients: base64url over the JSON form.

func encodeCursor(cursor repository.DealCursor) string {
	raw, _ := json.Marshal(cursor)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(encoded string) (*repository.DealCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	var cursor repository.DealCursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, err
	}
	if cursor.ID == "" {
		return nil, errors.New("cursor missing id")
	}
	return &cursor, nil
}
