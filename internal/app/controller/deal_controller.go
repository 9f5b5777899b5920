package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	apperrors "github.com/halildurmus/hotdeals-backend/internal/errors"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
)

type DealController struct {
	dealService service.DealService
}

func NewDealController(dealService service.DealService) *DealController {
	return &DealController{dealService: dealService}
}

type PostDealRequest struct {
	Store         string   `json:"store" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	OriginalPrice float64  `json:"originalPrice"`
	Price         float64  `json:"price"`
	CoverPhoto    string   `json:"coverPhoto"`
	DealURL       string   `json:"dealUrl" binding:"required"`
	Photos        []string `json:"photos"`
	Tags          []string `json:"tags"`
	Location      string   `json:"location"`
}

type UpdateDealRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	OriginalPrice *float64  `json:"originalPrice"`
	Price         *float64  `json:"price"`
	CoverPhoto    *string   `json:"coverPhoto"`
	DealURL       *string   `json:"dealUrl"`
	Photos        *[]string `json:"photos"`
	Tags          *[]string `json:"tags"`
	Location      *string   `json:"location"`
}

type VoteRequest struct {
	Direction model.VoteDirection `json:"direction" binding:"required"`
}

type SetStatusRequest struct {
	Status model.DealStatus `json:"status" binding:"required"`
}

// parseListOptions reads the shared listing query parameters. On a bad
// parameter it writes the error response and returns ok=false.
func parseListOptions(c *gin.Context) (service.ListDealsOptions, bool) {
	opts := service.ListDealsOptions{
		SortBy: c.DefaultQuery("sortBy", "score"),
		Cursor: c.Query("cursor"),
	}

	switch c.DefaultQuery("order", "desc") {
	case "asc":
		opts.Ascending = true
	case "desc":
	default:
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "order must be asc or desc")
		return opts, false
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "limit must be between 1 and 100")
			return opts, false
		}
		opts.Limit = limit
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := model.DealStatus(statusStr)
		switch status {
		case model.DealStatusActive, model.DealStatusExpired, model.DealStatusRemoved:
			opts.Status = &status
		default:
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "unknown status filter")
			return opts, false
		}
	}

	return opts, true
}

// ListDeals returns a page of deals under a category subtree
// GET /api/v1/deals?category=/computers&sortBy=score&order=desc&limit=20&cursor=...
func (ctrl *DealController) ListDeals(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	category := c.DefaultQuery("category", model.RootPath)
	opts, ok := parseListOptions(c)
	if !ok {
		return
	}

	page, err := ctrl.dealService.ListByCategory(c.Request.Context(), category, opts)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCursor) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidCursor, "Invalid pagination cursor")
			return
		}
		log.Error("Failed to list deals", err, map[string]interface{}{
			"category": category,
		})
		apperrors.InternalError(c, "Failed to fetch deals")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deals":      page.Deals,
		"nextCursor": page.NextCursor,
	})
}

// GetDeal returns a deal and counts the view
// GET /api/v1/deals/:id
func (ctrl *DealController) GetDeal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	deal, err := ctrl.dealService.GetDeal(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			apperrors.NotFound(c, apperrors.DealNotFound, "Deal not found")
			return
		}
		log.Error("Failed to fetch deal", err, map[string]interface{}{
			"deal_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch deal")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deal": deal,
	})
}

// PostDeal creates a deal for the authenticated user
// POST /api/v1/deals
func (ctrl *DealController) PostDeal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PostDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid deal creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	deal, err := ctrl.dealService.PostDeal(c.Request.Context(), service.PostDealInput{
		PostedBy:      userID,
		StoreID:       req.Store,
		Category:      req.Category,
		Title:         req.Title,
		Description:   req.Description,
		OriginalPrice: req.OriginalPrice,
		Price:         req.Price,
		CoverPhoto:    req.CoverPhoto,
		DealURL:       req.DealURL,
		Photos:        req.Photos,
		Tags:          req.Tags,
		Location:      req.Location,
	})
	if err != nil {
		ctrl.respondDealError(c, err, "Failed to create deal")
		return
	}

	log.Info("Deal created", map[string]interface{}{
		"deal_id": deal.ID,
		"title":   deal.Title,
	})

	c.JSON(http.StatusCreated, gin.H{
		"deal": deal,
	})
}

// UpdateDeal edits a deal's own fields. Only the poster may call it.
// PUT /api/v1/deals/:id
func (ctrl *DealController) UpdateDeal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid deal update request", map[string]interface{}{
			"deal_id": id,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	deal, err := ctrl.dealService.UpdateDeal(c.Request.Context(), userID, id, service.UpdateDealInput{
		Title:         req.Title,
		Description:   req.Description,
		OriginalPrice: req.OriginalPrice,
		Price:         req.Price,
		CoverPhoto:    req.CoverPhoto,
		DealURL:       req.DealURL,
		Photos:        req.Photos,
		Tags:          req.Tags,
		Location:      req.Location,
	})
	if err != nil {
		ctrl.respondDealError(c, err, "Failed to update deal")
		return
	}

	log.Info("Deal updated", map[string]interface{}{
		"deal_id": deal.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"deal": deal,
	})
}

// Vote casts, switches or repeats a vote on a deal
// POST /api/v1/deals/:id/votes
func (ctrl *DealController) Vote(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid vote request", map[string]interface{}{
			"deal_id": id,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	deal, err := ctrl.dealService.Vote(c.Request.Context(), id, userID, req.Direction)
	if err != nil {
		ctrl.respondDealError(c, err, "Failed to register vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deal": deal,
	})
}

// RetractVote removes the caller's standing vote, if any
// DELETE /api/v1/deals/:id/votes
func (ctrl *DealController) RetractVote(c *gin.Context) {
	id := c.Param("id")

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	deal, err := ctrl.dealService.Vote(c.Request.Context(), id, userID, model.VoteRetract)
	if err != nil {
		ctrl.respondDealError(c, err, "Failed to retract vote")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deal": deal,
	})
}

// SetStatus transitions a deal's lifecycle status (moderator only)
// PUT /api/v1/deals/:id/status
func (ctrl *DealController) SetStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	role, ok := middleware.GetUserRole(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid status request", map[string]interface{}{
			"deal_id": id,
			"error":   err.Error(),
		})
		apperrors.RespondWithBindingError(c, err)
		return
	}

	deal, err := ctrl.dealService.SetStatus(c.Request.Context(), id, req.Status, role)
	if err != nil {
		ctrl.respondDealError(c, err, "Failed to update deal status")
		return
	}

	log.Info("Deal status changed", map[string]interface{}{
		"deal_id": deal.ID,
		"status":  deal.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"deal": deal,
	})
}

// RecordView counts a view without fetching the deal. Best effort; always 202.
// POST /api/v1/deals/:id/views
func (ctrl *DealController) RecordView(c *gin.Context) {
	ctrl.dealService.RecordView(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusAccepted)
}

// respondDealError maps the ledger sentinels onto the error envelope.
func (ctrl *DealController) respondDealError(c *gin.Context, err error, fallback string) {
	log := middleware.GetLoggerFromContext(c)

	var refErr *service.ReferenceError
	switch {
	case errors.Is(err, service.ErrDealNotFound):
		apperrors.NotFound(c, apperrors.DealNotFound, "Deal not found")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.DealInvalidPrice, "Price must be non-negative")
	case errors.Is(err, service.ErrInvalidVote):
		apperrors.BadRequest(c, apperrors.DealInvalidVote, "Unknown vote direction")
	case errors.Is(err, service.ErrIllegalTransition):
		apperrors.Conflict(c, apperrors.DealIllegalTransition, "Status transition not allowed")
	case errors.Is(err, service.ErrModeratorOnly):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzModeratorOnly, "Moderator role required")
	case errors.Is(err, service.ErrDealAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "Only the poster may edit this deal")
	case errors.Is(err, service.ErrLockTimeout):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.LockTimeout, "Deal is busy, please retry")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		apperrors.RespondWithError(c, http.StatusRequestTimeout, apperrors.RequestCancelled, "Request cancelled")
	case errors.Is(err, service.ErrInvalidCursor):
		apperrors.BadRequest(c, apperrors.ValidationInvalidCursor, "Invalid pagination cursor")
	case errors.As(err, &refErr):
		log.Warn("Dangling reference", map[string]interface{}{
			"kind": refErr.Kind,
			"id":   refErr.ID,
		})
		apperrors.BadRequest(c, apperrors.DealDanglingReference, refErr.Error())
	default:
		log.Error(fallback, err, nil)
		apperrors.RespondWithParsedError(c, err, fallback)
	}
}
