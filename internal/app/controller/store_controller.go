package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	apperrors "github.com/halildurmus/hotdeals-backend/internal/errors"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
	dealService  service.DealService
}

func NewStoreController(storeService service.StoreService, dealService service.DealService) *StoreController {
	return &StoreController{
		storeService: storeService,
		dealService:  dealService,
	}
}

type StoreRequest struct {
	Name string `json:"name" binding:"required"`
	Logo string `json:"logo"`
}

// ListStores returns all stores
// GET /api/v1/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stores, err := ctrl.storeService.ListStores()
	if err != nil {
		log.Error("Failed to list stores", err, nil)
		apperrors.InternalError(c, "Failed to fetch stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// GetStore returns a store by ID
// GET /api/v1/stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	store, err := ctrl.storeService.GetStore(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch store")
		return
	}

	dealCount, err := ctrl.dealService.CountByStore(c.Request.Context(), id)
	if err != nil {
		log.Error("Failed to count store deals", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store":       store,
		"dealsPosted": dealCount,
	})
}

// CreateStore creates a new store
// POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	store, err := ctrl.storeService.CreateStore(req.Name, req.Logo)
	if err != nil {
		log.Error("Failed to create store", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.RespondWithParsedError(c, err, "create store")
		return
	}

	log.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"store": store,
	})
}

// UpdateStore replaces a store's name and logo. Last write wins.
// PUT /api/v1/stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store update request", map[string]interface{}{
			"store_id": id,
			"error":    err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	store, err := ctrl.storeService.UpdateStore(id, req.Name, req.Logo)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to update store", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.RespondWithParsedError(c, err, "update store")
		return
	}

	log.Info("Store updated", map[string]interface{}{
		"store_id": store.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// ListStoreDeals returns a page of deals posted for a store
// GET /api/v1/stores/:id/deals
func (ctrl *StoreController) ListStoreDeals(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	opts, ok := parseListOptions(c)
	if !ok {
		return
	}

	page, err := ctrl.dealService.ListByStore(c.Request.Context(), id, opts)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCursor) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidCursor, "Invalid pagination cursor")
			return
		}
		log.Error("Failed to list store deals", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch deals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deals":      page.Deals,
		"nextCursor": page.NextCursor,
	})
}
