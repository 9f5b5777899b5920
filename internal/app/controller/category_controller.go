package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	apperrors "github.com/halildurmus/hotdeals-backend/internal/errors"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Path           string            `json:"path" binding:"required"`
	Parent         string            `json:"parent"`
	Names          map[string]string `json:"names" binding:"required"`
	IconLigature   string            `json:"iconLigature"`
	IconFontFamily string            `json:"iconFontFamily"`
	IsTag          bool              `json:"isTag"`
}

// ListCategories returns every category ordered by path. With ?parent=
// only the direct children of that category are returned.
// GET /api/v1/categories
// GET /api/v1/categories?parent=/computers
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	parent := c.Query("parent")

	var (
		categories interface{}
		err        error
	)
	if parent != "" {
		categories, err = ctrl.categoryService.Children(parent)
	} else {
		categories, err = ctrl.categoryService.ListCategories()
	}
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to list categories", err, map[string]interface{}{
			"parent": parent,
		})
		apperrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}

// GetCategory returns a single category by its path
// GET /api/v1/categories/*path
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	path := c.Param("path")

	category, err := ctrl.categoryService.GetByPath(path)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			log.Warn("Category not found", map[string]interface{}{
				"path": path,
			})
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		log.Error("Failed to fetch category", err, map[string]interface{}{
			"path": path,
		})
		apperrors.InternalError(c, "Failed to fetch category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory creates a new category (moderator only)
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	category, err := ctrl.categoryService.CreateCategory(service.CreateCategoryInput{
		Path:           req.Path,
		Parent:         req.Parent,
		Names:          req.Names,
		IconLigature:   req.IconLigature,
		IconFontFamily: req.IconFontFamily,
		IsTag:          req.IsTag,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicatePath):
			log.Warn("Duplicate category path", map[string]interface{}{
				"path": req.Path,
			})
			apperrors.Conflict(c, apperrors.CategoryDuplicatePath, "A category with this path already exists")
		case errors.Is(err, service.ErrMissingParent):
			apperrors.BadRequest(c, apperrors.CategoryMissingParent, "Parent category does not exist")
		case errors.Is(err, service.ErrInvalidParent):
			apperrors.BadRequest(c, apperrors.CategoryMissingParent, "Parent does not match the category path")
		case errors.Is(err, service.ErrInvalidNames):
			apperrors.BadRequest(c, apperrors.CategoryInvalidNames, "At least one localized name is required")
		case errors.Is(err, service.ErrInvalidPath):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid category path")
		default:
			log.Error("Failed to create category", err, map[string]interface{}{
				"path": req.Path,
			})
			apperrors.RespondWithParsedError(c, err, "create category")
		}
		return
	}

	log.Info("Category created", map[string]interface{}{
		"path": category.Path,
	})

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}
