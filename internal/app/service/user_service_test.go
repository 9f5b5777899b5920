package service

import (
	"testing"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserServiceTest(t *testing.T) UserService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	return NewUserService(repository.NewUserRepository(testDB))
}

func TestUserService_CreateUser(t *testing.T) {
	userService := setupUserServiceTest(t)

	user, err := userService.CreateUser(CreateUserInput{
		UID:      "fb-uid-42",
		Email:    "deals@example.com",
		Nickname: "DealHunter",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "fb-uid-42", user.UID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.False(t, user.IsModerator())

	// Same external identity cannot register twice.
	_, err = userService.CreateUser(CreateUserInput{
		UID:   "fb-uid-42",
		Email: "other@example.com",
	})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestUserService_Lookups(t *testing.T) {
	userService := setupUserServiceTest(t)

	created, err := userService.CreateUser(CreateUserInput{
		UID:      "fb-uid-1",
		Email:    "one@example.com",
		Nickname: "One",
		Role:     model.RoleModerator,
	})
	require.NoError(t, err)

	byID, err := userService.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsModerator())

	byUID, err := userService.FindByUID("fb-uid-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUID.ID)

	byEmail, err := userService.FindByEmail("one@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = userService.GetByID("no-such-user")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = userService.FindByUID("no-such-uid")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = userService.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_FindByEmail_OldestWins(t *testing.T) {
	userService := setupUserServiceTest(t)

	first, err := userService.CreateUser(CreateUserInput{
		UID:   "uid-a",
		Email: "shared@example.com",
	})
	require.NoError(t, err)

	// Email is not unique across identities; lookup resolves the oldest.
	_, err = userService.CreateUser(CreateUserInput{
		UID:   "uid-b",
		Email: "shared@example.com",
	})
	require.NoError(t, err)

	found, err := userService.FindByEmail("shared@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestUserService_UpdateProfile(t *testing.T) {
	userService := setupUserServiceTest(t)

	user, err := userService.CreateUser(CreateUserInput{
		UID:      "fb-uid-1",
		Email:    "one@example.com",
		Nickname: "Original",
		Avatar:   "https://cdn.example.com/a.png",
	})
	require.NoError(t, err)

	nickname := "Renamed"
	updated, err := userService.UpdateProfile(user.ID, UpdateProfileInput{
		Nickname: &nickname,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Nickname)
	// Untouched fields survive a partial update.
	assert.Equal(t, "https://cdn.example.com/a.png", updated.Avatar)
	assert.Equal(t, "fb-uid-1", updated.UID)

	_, err = userService.UpdateProfile("no-such-user", UpdateProfileInput{Nickname: &nickname})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
