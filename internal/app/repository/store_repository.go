package repository

import (
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id string) (*model.Store, error)
	FindByName(name string) (*model.Store, error)
	FindAll() ([]model.Store, error)
	Update(store *model.Store) error
	BulkCreate(stores []model.Store, batchSize int) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name": store.Name,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) FindByID(id string) (*model.Store, error) {
	var store model.Store
	err := r.db.Where("id = ?", id).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByName(name string) (*model.Store, error) {
	var store model.Store
	err := r.db.Where("name = ?", name).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindAll() ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Order("name ASC").Find(&stores).Error
	if err != nil {
		logger.Error("Failed to list stores in database", err, nil)
		return nil, err
	}
	return stores, nil
}

// Update replaces the store record, last write wins.
func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) BulkCreate(stores []model.Store, batchSize int) error {
	logger.Info("Bulk creating stores in database", map[string]interface{}{
		"count":      len(stores),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(stores, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create stores in database", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}

	logger.Info("Stores bulk created in database", map[string]interface{}{
		"count": len(stores),
	})
	return nil
}
