package service

import (
	"errors"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrStoreNotFound = errors.New("store not found")

type StoreService interface {
	CreateStore(name, logo string) (*model.Store, error)
	GetStore(id string) (*model.Store, error)
	GetStoreByName(name string) (*model.Store, error)
	ListStores() ([]model.Store, error)
	UpdateStore(id, name, logo string) (*model.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func (s *storeService) CreateStore(name, logo string) (*model.Store, error) {
	logger.Info("Creating store", map[string]interface{}{
		"name": name,
	})

	store := &model.Store{
		Name: name,
		Logo: logo,
	}
	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to create store", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}

	logger.Info("Store created successfully", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return store, nil
}

func (s *storeService) GetStore(id string) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStoreByName(name string) (*model.Store, error) {
	store, err := s.storeRepo.FindByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store by name", err, map[string]interface{}{
			"name": name,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) ListStores() ([]model.Store, error) {
	stores, err := s.storeRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list stores", err, nil)
		return nil, err
	}
	return stores, nil
}

// UpdateStore replaces the store record. Last write wins; there is no
// version check on merchant records.
func (s *storeService) UpdateStore(id, name, logo string) (*model.Store, error) {
	store, err := s.GetStore(id)
	if err != nil {
		return nil, err
	}

	store.Name = name
	store.Logo = logo
	if err := s.storeRepo.Update(store); err != nil {
		logger.Error("Failed to update store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	logger.Info("Store updated successfully", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return store, nil
}
