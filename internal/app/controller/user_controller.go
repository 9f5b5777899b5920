package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	apperrors "github.com/halildurmus/hotdeals-backend/internal/errors"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
)

type UserController struct {
	userService    service.UserService
	dealService    service.DealService
	commentService service.CommentService
}

func NewUserController(
	userService service.UserService,
	dealService service.DealService,
	commentService service.CommentService,
) *UserController {
	return &UserController{
		userService:    userService,
		dealService:    dealService,
		commentService: commentService,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type UpdateProfileRequest struct {
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
}

// CreateUser creates a profile for the authenticated external identity
// POST /api/v1/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	uid, ok := middleware.GetUserUID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid user creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, err := ctrl.userService.CreateUser(service.CreateUserInput{
		UID:      uid,
		Email:    req.Email,
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
		Role:     model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateIdentity) {
			log.Warn("Duplicate user identity", map[string]interface{}{
				"uid": uid,
			})
			apperrors.Conflict(c, apperrors.UserDuplicateIdentity, "A profile already exists for this identity")
			return
		}
		log.Error("Failed to create user", err, map[string]interface{}{
			"uid": uid,
		})
		apperrors.RespondWithParsedError(c, err, "create user")
		return
	}

	log.Info("User created", map[string]interface{}{
		"user_id": user.ID,
		"uid":     uid,
	})

	c.JSON(http.StatusCreated, gin.H{
		"user": user,
	})
}

// GetMe returns the authenticated user's profile
// GET /api/v1/users/me
func (ctrl *UserController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	uid, ok := middleware.GetUserUID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.userService.FindByUID(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"uid": uid,
		})
		apperrors.InternalError(c, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateMe updates the authenticated user's nickname or avatar
// PATCH /api/v1/users/me
func (ctrl *UserController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	uid, ok := middleware.GetUserUID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid profile update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	user, err := ctrl.userService.FindByUID(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"uid": uid,
		})
		apperrors.InternalError(c, "Failed to fetch user")
		return
	}

	updated, err := ctrl.userService.UpdateProfile(user.ID, service.UpdateProfileInput{
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
	})
	if err != nil {
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": user.ID,
		})
		apperrors.RespondWithParsedError(c, err, "update profile")
		return
	}

	log.Info("Profile updated", map[string]interface{}{
		"user_id": updated.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"user": updated,
	})
}

// GetUser returns a user by ID
// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	user, err := ctrl.userService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch user")
		return
	}

	postedCount, err := ctrl.dealService.CountByPostedBy(c.Request.Context(), id)
	if err != nil {
		log.Error("Failed to count user deals", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch user")
		return
	}

	commentCount, err := ctrl.commentService.CountByPostedBy(c.Request.Context(), id)
	if err != nil {
		log.Error("Failed to count user comments", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"dealsPosted":   postedCount,
		"commentsPosted": commentCount,
	})
}

// SearchUser looks up a user by external uid or email
// GET /api/v1/users/search?uid=... | ?email=...
func (ctrl *UserController) SearchUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	uid := c.Query("uid")
	email := c.Query("email")

	var (
		user *model.User
		err  error
	)
	switch {
	case uid != "":
		user, err = ctrl.userService.FindByUID(uid)
	case email != "":
		user, err = ctrl.userService.FindByEmail(email)
	default:
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Either uid or email is required")
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to search user", err, map[string]interface{}{
			"uid":   uid,
			"email": email,
		})
		apperrors.InternalError(c, "Failed to search user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
