package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

type DealSort string

const (
	DealSortScore     DealSort = "score"
	DealSortCreatedAt DealSort = "created_at"
	DealSortPrice     DealSort = "price"
)

// DealCursor marks the position after the last row of a page. Value holds
// the sort key of that row rendered as a string (integer score, decimal
// price, or RFC3339Nano timestamp); ID breaks ties so ordering stays stable
// even when scores change between pages.
type DealCursor struct {
	Value string `json:"v"`
	ID    string `json:"id"`
}

type DealFilter struct {
	CategoryPath string // matches the category and its whole subtree
	StoreID      string
	PostedBy     string
	Status       *model.DealStatus
	SortBy       DealSort
	Ascending    bool
	Limit        int
	Cursor       *DealCursor
}

type DealRepository interface {
	Create(ctx context.Context, deal *model.Deal) error
	FindByID(ctx context.Context, id string) (*model.Deal, error)
	Save(ctx context.Context, deal *model.Deal) error
	UpdateVoteFields(ctx context.Context, deal *model.Deal) error
	UpdateStatus(ctx context.Context, id string, status model.DealStatus) error
	IncrementViews(ctx context.Context, id string) error
	AddViews(ctx context.Context, id string, n int) error
	ListWithFilter(ctx context.Context, filter DealFilter) ([]model.Deal, error)
	CountByPostedBy(ctx context.Context, userID string) (int64, error)
	CountByStore(ctx context.Context, storeID string) (int64, error)
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type dealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(ctx context.Context, deal *model.Deal) error {
	logger.Debug("Creating deal in database", map[string]interface{}{
		"posted_by": deal.PostedBy,
		"store_id":  deal.StoreID,
		"category":  deal.Category,
	})

	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		logger.Error("Failed to create deal in database", err, map[string]interface{}{
			"posted_by": deal.PostedBy,
			"store_id":  deal.StoreID,
		})
		return err
	}

	logger.Debug("Deal created in database", map[string]interface{}{
		"deal_id": deal.ID,
		"title":   deal.Title,
	})
	return nil
}

func (r *dealRepository) FindByID(ctx context.Context, id string) (*model.Deal, error) {
	var deal model.Deal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *dealRepository) Save(ctx context.Context, deal *model.Deal) error {
	logger.Debug("Saving deal in database", map[string]interface{}{
		"deal_id": deal.ID,
	})

	if err := r.db.WithContext(ctx).Save(deal).Error; err != nil {
		logger.Error("Failed to save deal in database", err, map[string]interface{}{
			"deal_id": deal.ID,
		})
		return err
	}
	return nil
}

// UpdateVoteFields persists the voter sets, the derived score and the update
// timestamp in a single statement so a reader never observes a score without
// its matching voter sets.
func (r *dealRepository) UpdateVoteFields(ctx context.Context, deal *model.Deal) error {
	logger.Debug("Updating deal vote fields in database", map[string]interface{}{
		"deal_id":    deal.ID,
		"deal_score": deal.DealScore,
	})

	err := r.db.WithContext(ctx).Model(&model.Deal{}).Where("id = ?", deal.ID).
		Updates(map[string]interface{}{
			"upvoters":   deal.Upvoters,
			"downvoters": deal.Downvoters,
			"deal_score": deal.DealScore,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		logger.Error("Failed to update deal vote fields in database", err, map[string]interface{}{
			"deal_id": deal.ID,
		})
		return err
	}
	return nil
}

func (r *dealRepository) UpdateStatus(ctx context.Context, id string, status model.DealStatus) error {
	logger.Debug("Updating deal status in database", map[string]interface{}{
		"deal_id": id,
		"status":  status,
	})

	err := r.db.WithContext(ctx).Model(&model.Deal{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		logger.Error("Failed to update deal status in database", err, map[string]interface{}{
			"deal_id": id,
			"status":  status,
		})
		return err
	}
	return nil
}

func (r *dealRepository) IncrementViews(ctx context.Context, id string) error {
	return r.AddViews(ctx, id, 1)
}

func (r *dealRepository) AddViews(ctx context.Context, id string, n int) error {
	if n <= 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Model(&model.Deal{}).Where("id = ?", id).
		Update("views", gorm.Expr("views + ?", n)).Error
	if err != nil {
		logger.Error("Failed to increment deal views in database", err, map[string]interface{}{
			"deal_id": id,
			"views":   n,
		})
		return err
	}
	return nil
}

func (d DealSort) column() string {
	switch d {
	case DealSortPrice:
		return "price"
	case DealSortCreatedAt:
		return "created_at"
	default:
		return "deal_score"
	}
}

// CursorValue parses a cursor's sort key according to the active sort.
func (d DealSort) CursorValue(raw string) (interface{}, error) {
	switch d {
	case DealSortScore:
		return strconv.Atoi(raw)
	case DealSortPrice:
		return strconv.ParseFloat(raw, 64)
	case DealSortCreatedAt:
		return time.Parse(time.RFC3339Nano, raw)
	default:
		return nil, fmt.Errorf("unknown deal sort %q", d)
	}
}

// CursorValueOf renders the sort key of a deal for use in a cursor.
func CursorValueOf(deal *model.Deal, sortBy DealSort) string {
	switch sortBy {
	case DealSortPrice:
		return strconv.FormatFloat(deal.Price, 'f', -1, 64)
	case DealSortCreatedAt:
		return deal.CreatedAt.Format(time.RFC3339Nano)
	default:
		return strconv.Itoa(deal.DealScore)
	}
}

func (r *dealRepository) ListWithFilter(ctx context.Context, filter DealFilter) ([]model.Deal, error) {
	logger.Debug("Finding deals with filter", map[string]interface{}{
		"category":  filter.CategoryPath,
		"store_id":  filter.StoreID,
		"posted_by": filter.PostedBy,
		"status":    filter.Status,
		"sort_by":   filter.SortBy,
		"ascending": filter.Ascending,
		"limit":     filter.Limit,
	})

	query := r.db.WithContext(ctx).Model(&model.Deal{})

	if filter.CategoryPath != "" && filter.CategoryPath != model.RootPath {
		query = query.Where("category = ? OR category LIKE ?",
			filter.CategoryPath, filter.CategoryPath+"/%")
	}
	if filter.StoreID != "" {
		query = query.Where("store_id = ?", filter.StoreID)
	}
	if filter.PostedBy != "" {
		query = query.Where("posted_by = ?", filter.PostedBy)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = DealSortScore
	}
	column := sortBy.column()

	direction := "DESC"
	cmp := "<"
	if filter.Ascending {
		direction = "ASC"
		cmp = ">"
	}

	if filter.Cursor != nil {
		value, err := sortBy.CursorValue(filter.Cursor.Value)
		if err != nil {
			return nil, err
		}
		// Keyset predicate: rows strictly after the cursor position in
		// (sort key, id) order.
		query = query.Where(
			fmt.Sprintf("%s %s ? OR (%s = ? AND id %s ?)", column, cmp, column, cmp),
			value, value, filter.Cursor.ID,
		)
	}

	query = query.Order(fmt.Sprintf("%s %s", column, direction)).
		Order(fmt.Sprintf("id %s", direction))

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var deals []model.Deal
	if err := query.Find(&deals).Error; err != nil {
		logger.Error("Failed to find deals with filter", err, map[string]interface{}{
			"category": filter.CategoryPath,
			"sort_by":  sortBy,
		})
		return nil, err
	}

	logger.Debug("Deals found with filter", map[string]interface{}{
		"count": len(deals),
	})
	return deals, nil
}

func (r *dealRepository) CountByPostedBy(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("posted_by = ?", userID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count deals by poster in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, err
	}
	return count, nil
}

func (r *dealRepository) CountByStore(ctx context.Context, storeID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("store_id = ?", storeID).Count(&count).Error
	if err != nil {
		logger.Error("Failed to count deals by store in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return 0, err
	}
	return count, nil
}

// ExpireOlderThan marks ACTIVE deals created before cutoff as EXPIRED and
// returns the number of rows changed. Used by the expiry scan.
func (r *dealRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Deal{}).
		Where("status = ? AND created_at < ?", model.DealStatusActive, cutoff).
		Updates(map[string]interface{}{
			"status":     model.DealStatusExpired,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		logger.Error("Failed to expire deals in database", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.Info("Deals expired in database", map[string]interface{}{
			"count":  result.RowsAffected,
			"cutoff": cutoff,
		})
	}
	return result.RowsAffected, nil
}
