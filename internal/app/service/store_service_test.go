package service

import (
	"testing"

	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStoreServiceTest(t *testing.T) StoreService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewStoreService(repository.NewStoreRepository(testDB))
}

func TestStoreService_CreateAndGet(t *testing.T) {
	storeService := setupStoreServiceTest(t)

	store, err := storeService.CreateStore("Newegg", "https://cdn.example.com/newegg.png")
	require.NoError(t, err)
	assert.NotEmpty(t, store.ID)

	found, err := storeService.GetStore(store.ID)
	require.NoError(t, err)
	assert.Equal(t, "Newegg", found.Name)

	byName, err := storeService.GetStoreByName("Newegg")
	require.NoError(t, err)
	assert.Equal(t, store.ID, byName.ID)
}

func TestStoreService_GetStore_NotFound(t *testing.T) {
	storeService := setupStoreServiceTest(t)

	_, err := storeService.GetStore("no-such-store")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = storeService.GetStoreByName("no-such-store")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestStoreService_UpdateStore(t *testing.T) {
	storeService := setupStoreServiceTest(t)

	store, err := storeService.CreateStore("Newegg", "")
	require.NoError(t, err)

	updated, err := storeService.UpdateStore(store.ID, "Newegg US", "https://cdn.example.com/newegg.png")
	require.NoError(t, err)
	assert.Equal(t, "Newegg US", updated.Name)
	assert.Equal(t, "https://cdn.example.com/newegg.png", updated.Logo)

	_, err = storeService.UpdateStore("no-such-store", "X", "")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestStoreService_ListStores(t *testing.T) {
	storeService := setupStoreServiceTest(t)

	for _, name := range []string{"Walmart", "Amazon", "Target"} {
		_, err := storeService.CreateStore(name, "")
		require.NoError(t, err)
	}

	stores, err := storeService.ListStores()
	require.NoError(t, err)
	require.Len(t, stores, 3)
	assert.Equal(t, "Amazon", stores[0].Name)
	assert.Equal(t, "Target", stores[1].Name)
	assert.Equal(t, "Walmart", stores[2].Name)
}
