package service

import (
	"errors"

	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateIdentity = errors.New("identity is already bound to a user")
)

type CreateUserInput struct {
	UID      string
	Email    string
	Nickname string
	Avatar   string
	Role     model.UserRole // defaults to RoleUser
}

type UpdateProfileInput struct {
	Nickname *string
	Avatar   *string
}

type UserService interface {
	CreateUser(input CreateUserInput) (*model.User, error)
	GetByID(id string) (*model.User, error)
	FindByUID(uid string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdateProfile(id string, input UpdateProfileInput) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(input CreateUserInput) (*model.User, error) {
	logger.Info("Creating user", map[string]interface{}{
		"uid":   input.UID,
		"email": input.Email,
	})

	// One user record per external identity.
	exists, err := s.userRepo.ExistsByUID(input.UID)
	if err != nil {
		logger.Error("Failed to check identity binding", err, map[string]interface{}{
			"uid": input.UID,
		})
		return nil, err
	}
	if exists {
		logger.Warn("Identity already bound", map[string]interface{}{
			"uid": input.UID,
		})
		return nil, ErrDuplicateIdentity
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		UID:      input.UID,
		Email:    input.Email,
		Nickname: input.Nickname,
		Avatar:   input.Avatar,
		Role:     role,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"uid": input.UID,
		})
		return nil, err
	}

	logger.Info("User created successfully", map[string]interface{}{
		"user_id": user.ID,
		"uid":     user.UID,
	})
	return user, nil
}

func (s *userService) GetByID(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByUID(uid string) (*model.User, error) {
	user, err := s.userRepo.FindByUID(uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user by uid", err, map[string]interface{}{
			"uid": uid,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) FindByEmail(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user by email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(id string, input UpdateProfileInput) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Nickname != nil {
		user.Nickname = *input.Nickname
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}
