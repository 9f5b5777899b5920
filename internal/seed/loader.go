package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
)

// Fixture is the JSON seed document. Records reference each other by
// natural keys: deals point at stores by name, users by uid and
// categories by path, so a fixture file is self-contained.
type Fixture struct {
	Categories []CategoryRecord `json:"categories" validate:"dive"`
	Stores     []StoreRecord    `json:"stores" validate:"dive"`
	Users      []UserRecord     `json:"users" validate:"dive"`
	Deals      []DealRecord     `json:"deals" validate:"dive"`
}

type CategoryRecord struct {
	Path           string            `json:"path" validate:"required,startswith=/"`
	Parent         string            `json:"parent"`
	Names          map[string]string `json:"names" validate:"required,min=1"`
	IconLigature   string            `json:"iconLigature"`
	IconFontFamily string            `json:"iconFontFamily"`
}

type StoreRecord struct {
	Name string `json:"name" validate:"required"`
	Logo string `json:"logo" validate:"omitempty,url"`
}

type UserRecord struct {
	UID      string `json:"uid" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
	Role     string `json:"role" validate:"omitempty,oneof=user moderator"`
}

type DealRecord struct {
	PostedBy      string   `json:"postedBy" validate:"required"` // user uid
	Store         string   `json:"store" validate:"required"`    // store name
	Category      string   `json:"category" validate:"required,startswith=/"`
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description"`
	OriginalPrice float64  `json:"originalPrice" validate:"gte=0"`
	Price         float64  `json:"price" validate:"gte=0"`
	CoverPhoto    string   `json:"coverPhoto" validate:"omitempty,url"`
	DealURL       string   `json:"dealUrl" validate:"required,url"`
	Photos        []string `json:"photos" validate:"dive,url"`
	Tags          []string `json:"tags" validate:"dive,startswith=/"`
	Location      string   `json:"location"`
}

// Summary counts what a load actually did.
type Summary struct {
	CategoriesCreated int
	CategoriesSkipped int
	StoresCreated     int
	StoresSkipped     int
	UsersCreated      int
	UsersSkipped      int
	DealsCreated      int
}

type Loader struct {
	categories service.CategoryService
	stores     service.StoreService
	users      service.UserService
	deals      service.DealService
	validate   *validator.Validate
}

func NewLoader(
	categories service.CategoryService,
	stores service.StoreService,
	users service.UserService,
	deals service.DealService,
) *Loader {
	return &Loader{
		categories: categories,
		stores:     stores,
		users:      users,
		deals:      deals,
		validate:   validator.New(),
	}
}

// LoadFile reads, validates and applies a fixture file.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return l.Load(ctx, f)
}

// Load applies a fixture in dependency order: categories, stores, users,
// then deals. Re-running the same fixture is safe: existing categories
// and users are skipped, stores are matched by name. The first hard
// failure aborts the load.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Summary, error) {
	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := l.validate.Struct(&fixture); err != nil {
		return nil, fmt.Errorf("validate fixture: %w", err)
	}

	summary := &Summary{}

	if err := l.loadCategories(fixture.Categories, summary); err != nil {
		return summary, err
	}

	storeIDs, err := l.loadStores(fixture.Stores, summary)
	if err != nil {
		return summary, err
	}

	userIDs, err := l.loadUsers(fixture.Users, summary)
	if err != nil {
		return summary, err
	}

	if err := l.loadDeals(ctx, fixture.Deals, storeIDs, userIDs, summary); err != nil {
		return summary, err
	}

	logger.Info("Fixture loaded", map[string]interface{}{
		"categories_created": summary.CategoriesCreated,
		"categories_skipped": summary.CategoriesSkipped,
		"stores_created":     summary.StoresCreated,
		"stores_skipped":     summary.StoresSkipped,
		"users_created":      summary.UsersCreated,
		"users_skipped":      summary.UsersSkipped,
		"deals_created":      summary.DealsCreated,
	})
	return summary, nil
}

func (l *Loader) loadCategories(records []CategoryRecord, summary *Summary) error {
	for _, record := range records {
		_, err := l.categories.CreateCategory(service.CreateCategoryInput{
			Path:           record.Path,
			Parent:         record.Parent,
			Names:          record.Names,
			IconLigature:   record.IconLigature,
			IconFontFamily: record.IconFontFamily,
		})
		if err != nil {
			if errors.Is(err, service.ErrDuplicatePath) {
				logger.Debug("Category already exists, skipping", map[string]interface{}{
					"path": record.Path,
				})
				summary.CategoriesSkipped++
				continue
			}
			return fmt.Errorf("category %s: %w", record.Path, err)
		}
		summary.CategoriesCreated++
	}
	return nil
}

func (l *Loader) loadStores(records []StoreRecord, summary *Summary) (map[string]string, error) {
	ids := make(map[string]string, len(records))
	for _, record := range records {
		existing, err := l.stores.GetStoreByName(record.Name)
		if err == nil {
			logger.Debug("Store already exists, skipping", map[string]interface{}{
				"name": record.Name,
			})
			ids[record.Name] = existing.ID
			summary.StoresSkipped++
			continue
		}
		if !errors.Is(err, service.ErrStoreNotFound) {
			return nil, fmt.Errorf("store %s: %w", record.Name, err)
		}

		store, err := l.stores.CreateStore(record.Name, record.Logo)
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", record.Name, err)
		}
		ids[record.Name] = store.ID
		summary.StoresCreated++
	}
	return ids, nil
}

func (l *Loader) loadUsers(records []UserRecord, summary *Summary) (map[string]string, error) {
	ids := make(map[string]string, len(records))
	for _, record := range records {
		role := model.RoleUser
		if record.Role == "moderator" {
			role = model.RoleModerator
		}

		user, err := l.users.CreateUser(service.CreateUserInput{
			UID:      record.UID,
			Email:    record.Email,
			Nickname: record.Nickname,
			Avatar:   record.Avatar,
			Role:     role,
		})
		if err != nil {
			if errors.Is(err, service.ErrDuplicateIdentity) {
				logger.Debug("User already exists, skipping", map[string]interface{}{
					"uid": record.UID,
				})
				existing, err := l.users.FindByUID(record.UID)
				if err != nil {
					return nil, fmt.Errorf("user %s: %w", record.UID, err)
				}
				ids[record.UID] = existing.ID
				summary.UsersSkipped++
				continue
			}
			return nil, fmt.Errorf("user %s: %w", record.UID, err)
		}
		ids[record.UID] = user.ID
		summary.UsersCreated++
	}
	return ids, nil
}

func (l *Loader) loadDeals(ctx context.Context, records []DealRecord, storeIDs, userIDs map[string]string, summary *Summary) error {
	for _, record := range records {
		userID, ok := userIDs[record.PostedBy]
		if !ok {
			user, err := l.users.FindByUID(record.PostedBy)
			if err != nil {
				return fmt.Errorf("deal %q: unknown user %s", record.Title, record.PostedBy)
			}
			userID = user.ID
		}

		storeID, ok := storeIDs[record.Store]
		if !ok {
			store, err := l.stores.GetStoreByName(record.Store)
			if err != nil {
				return fmt.Errorf("deal %q: unknown store %s", record.Title, record.Store)
			}
			storeID = store.ID
		}

		_, err := l.deals.PostDeal(ctx, service.PostDealInput{
			PostedBy:      userID,
			StoreID:       storeID,
			Category:      record.Category,
			Title:         record.Title,
			Description:   record.Description,
			OriginalPrice: record.OriginalPrice,
			Price:         record.Price,
			CoverPhoto:    record.CoverPhoto,
			DealURL:       record.DealURL,
			Photos:        record.Photos,
			Tags:          record.Tags,
			Location:      record.Location,
		})
		if err != nil {
			return fmt.Errorf("deal %q: %w", record.Title, err)
		}
		summary.DealsCreated++
	}
	return nil
}
