package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	apperrors "github.com/halildurmus/hotdeals-backend/internal/errors"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

type PostCommentRequest struct {
	Message string `json:"message" binding:"required,min=1,max=500"`
}

// ListComments returns a deal's comments oldest first
// GET /api/v1/deals/:id/comments
func (ctrl *CommentController) ListComments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	dealID := c.Param("id")

	comments, err := ctrl.commentService.ListComments(c.Request.Context(), dealID)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			apperrors.NotFound(c, apperrors.DealNotFound, "Deal not found")
			return
		}
		log.Error("Failed to fetch comments", err, map[string]interface{}{
			"deal_id": dealID,
		})
		apperrors.InternalError(c, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// PostComment adds a comment under a deal for the authenticated user
// POST /api/v1/deals/:id/comments
func (ctrl *CommentController) PostComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	dealID := c.Param("id")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid comment request", map[string]interface{}{
			"deal_id": dealID,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	comment, err := ctrl.commentService.PostComment(c.Request.Context(), dealID, userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDealNotFound):
			apperrors.NotFound(c, apperrors.DealNotFound, "Deal not found")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.BadRequest(c, apperrors.DealDanglingReference, "Commenting user does not exist")
		case errors.Is(err, service.ErrInvalidMessage):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Comment message must be 1 to 500 characters")
		default:
			log.Error("Failed to post comment", err, map[string]interface{}{
				"deal_id": dealID,
			})
			apperrors.RespondWithParsedError(c, err, "create comment")
		}
		return
	}

	log.Info("Comment posted", map[string]interface{}{
		"comment_id": comment.ID,
		"deal_id":    dealID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
	})
}
