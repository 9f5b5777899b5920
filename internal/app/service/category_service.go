package service

import (
	"errors"
	"strings"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrDuplicatePath    = errors.New("category path already exists")
	ErrMissingParent    = errors.New("parent category does not exist")
	ErrInvalidParent    = errors.New("parent path does not match the category path")
	ErrInvalidNames     = errors.New("category requires at least one locale name")
	ErrInvalidPath      = errors.New("invalid category path")
)

type CreateCategoryInput struct {
	Path           string
	Parent         string // optional, derived from Path when empty
	Names          map[string]string
	IconLigature   string
	IconFontFamily string
	IsTag          bool
}

type CategoryService interface {
	CreateCategory(input CreateCategoryInput) (*model.Category, error)
	GetByPath(path string) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	Children(path string) ([]model.Category, error)
	IsDescendant(path, ancestorPath string) bool
	EnsureTag(path string) (*model.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(input CreateCategoryInput) (*model.Category, error) {
	path := model.NormalizePath(input.Path)
	if path == model.RootPath {
		return nil, ErrInvalidPath
	}
	if len(input.Names) == 0 {
		return nil, ErrInvalidNames
	}

	// The parent is positional: it always equals the path minus its last
	// segment, which keeps the forest acyclic by construction.
	parent := model.ParentOf(path)
	if input.Parent != "" && model.NormalizePath(input.Parent) != parent {
		logger.Warn("Category parent mismatch", map[string]interface{}{
			"path":           path,
			"claimed_parent": input.Parent,
			"derived_parent": parent,
		})
		return nil, ErrInvalidParent
	}

	logger.Info("Creating category", map[string]interface{}{
		"path":   path,
		"parent": parent,
		"is_tag": input.IsTag,
	})

	if parent != model.RootPath {
		exists, err := s.categoryRepo.ExistsByPath(parent)
		if err != nil {
			logger.Error("Failed to check parent category", err, map[string]interface{}{
				"parent": parent,
			})
			return nil, err
		}
		if !exists {
			logger.Warn("Parent category missing", map[string]interface{}{
				"path":   path,
				"parent": parent,
			})
			return nil, ErrMissingParent
		}
	}

	exists, err := s.categoryRepo.ExistsByPath(path)
	if err != nil {
		logger.Error("Failed to check category existence", err, map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	if exists {
		logger.Warn("Duplicate category path", map[string]interface{}{
			"path": path,
		})
		return nil, ErrDuplicatePath
	}

	category := &model.Category{
		Path:           path,
		Parent:         parent,
		Names:          model.LocaleMap(input.Names),
		IconLigature:   input.IconLigature,
		IconFontFamily: input.IconFontFamily,
		IsTag:          input.IsTag,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"path": path,
		})
		return nil, err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"path":        category.Path,
	})
	return category, nil
}

func (s *categoryService) GetByPath(path string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByPath(model.NormalizePath(path))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) Children(path string) ([]model.Category, error) {
	return s.categoryRepo.FindChildren(model.NormalizePath(path))
}

// IsDescendant reports whether path sits below ancestorPath in the forest.
// Purely structural: the paths themselves encode the hierarchy.
func (s *categoryService) IsDescendant(path, ancestorPath string) bool {
	return model.IsDescendantPath(model.NormalizePath(path), model.NormalizePath(ancestorPath))
}

// EnsureTag resolves a tag category, creating it on the fly when absent. A
// created tag gets a default English name derived from its path, matching
// how posted deals may introduce new promotional labels.
func (s *categoryService) EnsureTag(path string) (*model.Category, error) {
	path = model.NormalizePath(path)
	if path == model.RootPath {
		return nil, ErrInvalidPath
	}

	tag, err := s.categoryRepo.FindTagByPath(path)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up tag", err, map[string]interface{}{
			"path": path,
		})
		return nil, err
	}

	logger.Info("Creating missing tag", map[string]interface{}{
		"path": path,
	})

	tag = &model.Category{
		Path:   path,
		Parent: model.ParentOf(path),
		Names:  model.LocaleMap{"en": strings.TrimPrefix(path, "/")},
		IsTag:  true,
	}
	if err := s.categoryRepo.Create(tag); err != nil {
		logger.Error("Failed to create tag", err, map[string]interface{}{
			"path": path,
		})
		return nil, err
	}
	return tag, nil
}
