package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	"github.com/halildurmus/hotdeals-backend/internal/db"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dealControllerFixture struct {
	controller  *DealController
	comments    *CommentController
	router      *gin.Engine
	dealService service.DealService
	user        *model.User
	moderator   *model.User
	store       *model.Store
}

// The test router injects the auth context directly so handlers see the
// same keys the auth middleware would set.
func setupDealControllerTest(t *testing.T) *dealControllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	dealRepo := repository.NewDealRepository(testDB)

	commentRepo := repository.NewCommentRepository(testDB)

	categoryService := service.NewCategoryService(categoryRepo)
	dealService := service.NewDealService(dealRepo, userRepo, storeRepo, commentRepo, categoryService, time.Second)
	commentService := service.NewCommentService(commentRepo, dealRepo, userRepo)
	dealController := NewDealController(dealService)
	commentController := NewCommentController(commentService)

	_, err = categoryService.CreateCategory(service.CreateCategoryInput{
		Path:  "/computers",
		Names: map[string]string{"en": "Computers"},
	})
	require.NoError(t, err)

	store := &model.Store{Name: "Best Buy"}
	require.NoError(t, storeRepo.Create(store))

	user := &model.User{UID: "fb-uid-1", Email: "u@example.com", Nickname: "U", Role: model.RoleUser}
	require.NoError(t, userRepo.Create(user))
	moderator := &model.User{UID: "fb-mod-1", Email: "m@example.com", Nickname: "M", Role: model.RoleModerator}
	require.NoError(t, userRepo.Create(moderator))

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return &dealControllerFixture{
		controller:  dealController,
		comments:    commentController,
		router:      router,
		dealService: dealService,
		user:        user,
		moderator:   moderator,
		store:       store,
	}
}

func (f *dealControllerFixture) asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.UserUIDKey, user.UID)
		c.Set(middleware.UserRoleKey, user.Role)
		c.Next()
	}
}

func (f *dealControllerFixture) postDeal(t *testing.T) *model.Deal {
	t.Helper()
	deal, err := f.dealService.PostDeal(context.Background(), service.PostDealInput{
		PostedBy: f.user.ID,
		StoreID:  f.store.ID,
		Category: "/computers",
		Title:    "ThinkPad X1",
		Price:    1299,
		DealURL:  "https://example.com/deal",
	})
	require.NoError(t, err)
	return deal
}

func TestDealController_PostDeal(t *testing.T) {
	f := setupDealControllerTest(t)
	f.router.POST("/deals", f.asUser(f.user), f.controller.PostDeal)

	body, _ := json.Marshal(PostDealRequest{
		Store:    f.store.ID,
		Category: "/computers",
		Title:    "ThinkPad X1",
		Price:    1299,
		DealURL:  "https://example.com/deal",
	})

	req := httptest.NewRequest(http.MethodPost, "/deals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	deal := response["deal"].(map[string]interface{})
	assert.Equal(t, "ThinkPad X1", deal["title"])
	assert.Equal(t, "ACTIVE", deal["status"])
	assert.Equal(t, float64(0), deal["dealScore"])
}

func TestDealController_PostDeal_BadStore(t *testing.T) {
	f := setupDealControllerTest(t)
	f.router.POST("/deals", f.asUser(f.user), f.controller.PostDeal)

	body, _ := json.Marshal(PostDealRequest{
		Store:    "no-such-store",
		Category: "/computers",
		Title:    "Orphan",
		Price:    1,
		DealURL:  "https://example.com/deal",
	})

	req := httptest.NewRequest(http.MethodPost, "/deals", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "DEAL_DANGLING_REFERENCE")
}

func TestDealController_Vote(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	f.router.POST("/deals/:id/votes", f.asUser(f.moderator), f.controller.Vote)

	body, _ := json.Marshal(VoteRequest{Direction: model.VoteUp})
	req := httptest.NewRequest(http.MethodPost, "/deals/"+deal.ID+"/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	voted := response["deal"].(map[string]interface{})
	assert.Equal(t, float64(1), voted["dealScore"])
}

func TestDealController_SetStatus_Forbidden(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	f.router.PUT("/deals/:id/status", f.asUser(f.user), f.controller.SetStatus)

	body, _ := json.Marshal(SetStatusRequest{Status: model.DealStatusExpired})
	req := httptest.NewRequest(http.MethodPut, "/deals/"+deal.ID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_MODERATOR_ONLY")
}

func TestDealController_SetStatus_Moderator(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	f.router.PUT("/deals/:id/status", f.asUser(f.moderator), f.controller.SetStatus)

	body, _ := json.Marshal(SetStatusRequest{Status: model.DealStatusRemoved})
	req := httptest.NewRequest(http.MethodPut, "/deals/"+deal.ID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "REMOVED")
}

func TestDealController_UpdateDeal_NotOwner(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	f.router.PUT("/deals/:id", f.asUser(f.moderator), f.controller.UpdateDeal)

	title := "Hijacked"
	body, _ := json.Marshal(UpdateDealRequest{Title: &title})
	req := httptest.NewRequest(http.MethodPut, "/deals/"+deal.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHZ_OWNER_ONLY")
}

func TestDealController_ListDeals(t *testing.T) {
	f := setupDealControllerTest(t)
	f.postDeal(t)
	f.postDeal(t)

	f.router.GET("/deals", f.controller.ListDeals)

	req := httptest.NewRequest(http.MethodGet, "/deals?category=/computers&limit=1", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Deals      []model.Deal `json:"deals"`
		NextCursor string       `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Deals, 1)
	require.NotEmpty(t, response.NextCursor)

	// The cursor walks to the remaining deal.
	req = httptest.NewRequest(http.MethodGet, "/deals?category=/computers&limit=1&cursor="+response.NextCursor, nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var second struct {
		Deals []model.Deal `json:"deals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Len(t, second.Deals, 1)
}

func TestDealController_ListDeals_BadParams(t *testing.T) {
	f := setupDealControllerTest(t)
	f.router.GET("/deals", f.controller.ListDeals)

	for _, query := range []string{
		"?limit=0",
		"?limit=9999",
		"?order=sideways",
		"?status=BOGUS",
		"?cursor=!!!",
	} {
		req := httptest.NewRequest(http.MethodGet, "/deals"+query, nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "query %s", query)
	}
}

func TestDealController_RecordView(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	f.router.POST("/deals/:id/views", f.controller.RecordView)

	req := httptest.NewRequest(http.MethodPost, "/deals/"+deal.ID+"/views", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)

	// Unknown deals are swallowed, the endpoint never fails.
	req = httptest.NewRequest(http.MethodPost, "/deals/no-such-deal/views", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestCommentController_PostAndList(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	f.router.POST("/deals/:id/comments", f.asUser(f.user), f.comments.PostComment)
	f.router.GET("/deals/:id/comments", f.comments.ListComments)

	body, _ := json.Marshal(PostCommentRequest{Message: "Thanks :)"})
	req := httptest.NewRequest(http.MethodPost, "/deals/"+deal.ID+"/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/deals/"+deal.ID+"/comments", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
	comments := response["comments"].([]interface{})
	comment := comments[0].(map[string]interface{})
	assert.Equal(t, "Thanks :)", comment["message"])
	assert.Equal(t, f.user.ID, comment["postedBy"])
}

func TestCommentController_PostComment_RemovedDeal(t *testing.T) {
	f := setupDealControllerTest(t)
	deal := f.postDeal(t)

	_, err := f.dealService.SetStatus(context.Background(), deal.ID, model.DealStatusRemoved, model.RoleModerator)
	require.NoError(t, err)

	f.router.POST("/deals/:id/comments", f.asUser(f.user), f.comments.PostComment)

	body, _ := json.Marshal(PostCommentRequest{Message: "too late"})
	req := httptest.NewRequest(http.MethodPost, "/deals/"+deal.ID+"/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "DEAL_NOT_FOUND")
}
