package router

import (
	"github.com/gin-gonic/gin"
	"github.com/halildurmus/hotdeals-backend/config"
	"github.com/halildurmus/hotdeals-backend/internal/app/controller"
	"github.com/halildurmus/hotdeals-backend/internal/app/model"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
)

type Router struct {
	categoryController *controller.CategoryController
	storeController    *controller.StoreController
	userController     *controller.UserController
	dealController     *controller.DealController
	commentController  *controller.CommentController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	categoryController *controller.CategoryController,
	storeController *controller.StoreController,
	userController *controller.UserController,
	dealController *controller.DealController,
	commentController *controller.CommentController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		categoryController: categoryController,
		storeController:    storeController,
		userController:     userController,
		dealController:     dealController,
		commentController:  commentController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "hotdeals API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleModerator),
				r.categoryController.CreateCategory,
			)
			categories.GET("/*path", r.categoryController.GetCategory)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("", r.storeController.ListStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.GET("/:id/deals", r.storeController.ListStoreDeals)
			stores.POST("",
				r.authMiddleware.Authenticate(),
				r.storeController.CreateStore,
			)
			stores.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.storeController.UpdateStore,
			)
		}

		users := v1.Group("/users")
		{
			users.POST("", r.authMiddleware.Authenticate(), r.userController.CreateUser)
			users.GET("/me", r.authMiddleware.Authenticate(), r.userController.GetMe)
			users.PATCH("/me", r.authMiddleware.Authenticate(), r.userController.UpdateMe)
			users.GET("/search", r.userController.SearchUser)
			users.GET("/:id", r.userController.GetUser)
		}

		deals := v1.Group("/deals")
		{
			deals.GET("", r.dealController.ListDeals)
			deals.GET("/:id", r.dealController.GetDeal)
			deals.POST("/:id/views", r.dealController.RecordView)
			deals.POST("",
				r.authMiddleware.Authenticate(),
				r.dealController.PostDeal,
			)
			deals.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.dealController.UpdateDeal,
			)
			deals.PUT("/:id/status",
				r.authMiddleware.Authenticate(),
				r.dealController.SetStatus,
			)
			deals.POST("/:id/votes",
				r.authMiddleware.Authenticate(),
				r.dealController.Vote,
			)
			deals.DELETE("/:id/votes",
				r.authMiddleware.Authenticate(),
				r.dealController.RetractVote,
			)
			deals.GET("/:id/comments", r.commentController.ListComments)
			deals.POST("/:id/comments",
				r.authMiddleware.Authenticate(),
				r.commentController.PostComment,
			)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
