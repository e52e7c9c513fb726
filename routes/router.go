package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"blogapi/config"
	"blogapi/controllers"
	"blogapi/middleware"
	"blogapi/repositories"
	"blogapi/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *mongo.Database) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file so request noise stays out of the app log
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	pageViewRepo := repositories.NewPageViewRepository(db)

	r.Use(middleware.PageViewRecorder(pageViewRepo))

	authController := controllers.NewAuthController(userRepo)
	postController := controllers.NewPostController(postRepo, categoryRepo, commentRepo, userRepo)
	categoryController := controllers.NewCategoryController(categoryRepo)
	commentController := controllers.NewCommentController(commentRepo, postRepo, userRepo)
	statsController := controllers.NewStatsController(userRepo, postRepo, commentRepo, pageViewRepo)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	usersGroup := api.Group("/users")
	usersGroup.Use(middleware.AuthRequired())
	usersGroup.GET("/profile", authController.Profile)
	usersGroup.PATCH("/profile", authController.UpdateProfile)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", middleware.AuthOptional(), postController.ListPosts)
	postsGroup.GET("/:id", middleware.AuthOptional(), postController.GetPost)
	postsGroup.POST("", middleware.AuthRequired(), postController.CreatePost)
	postsGroup.PATCH("/:id", middleware.AuthRequired(), postController.UpdatePost)
	postsGroup.DELETE("/:id", middleware.AuthRequired(), postController.DeletePost)
	postsGroup.POST("/:id/like", middleware.AuthRequired(), postController.LikePost)

	categoriesGroup := api.Group("/categories")
	categoriesGroup.POST("", categoryController.Create)
	categoriesGroup.GET("", categoryController.List)
	categoriesGroup.GET("/search", categoryController.Search)
	categoriesGroup.DELETE("/:id", categoryController.Delete)

	commentsGroup := api.Group("/comments")
	commentsGroup.POST("/:postId", middleware.AuthRequired(), commentController.Create)
	commentsGroup.GET("/:postId", commentController.ListByPost)

	api.GET("/stats", statsController.GetStats)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
