package repository

import (
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByPath(path string) (*model.Category, error)
	FindTagByPath(path string) (*model.Category, error)
	FindChildren(parentPath string) ([]model.Category, error)
	FindAll() ([]model.Category, error)
	ExistsByPath(path string) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"path":   category.Path,
		"parent": category.Parent,
		"is_tag": category.IsTag,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"path": category.Path,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"path":        category.Path,
	})
	return nil
}

func (r *categoryRepository) FindByPath(path string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("path = ?", path).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindTagByPath(path string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("path = ? AND is_tag = ?", path, true).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindChildren(parentPath string) ([]model.Category, error) {
	logger.Debug("Finding category children in database", map[string]interface{}{
		"parent": parentPath,
	})

	var categories []model.Category
	err := r.db.Where("parent = ?", parentPath).Order("path ASC").Find(&categories).Error
	if err != nil {
		logger.Error("Failed to find category children in database", err, map[string]interface{}{
			"parent": parentPath,
		})
		return nil, err
	}

	logger.Debug("Category children found in database", map[string]interface{}{
		"parent": parentPath,
		"count":  len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	err := r.db.Order("path ASC").Find(&categories).Error
	if err != nil {
		logger.Error("Failed to list categories in database", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) ExistsByPath(path string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("path = ?", path).Count(&count).Error
	if err != nil {
		logger.Error("Failed to check category existence in database", err, map[string]interface{}{
			"path": path,
		})
		return false, err
	}
	return count > 0, nil
}
