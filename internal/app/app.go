package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	boardHTTP "jungleboard/internal/controller/http"
	"jungleboard/internal/repo/persistent"
	"jungleboard/internal/usecase"
	"jungleboard/pkg/cache"
	"jungleboard/pkg/config"
	"jungleboard/pkg/database"
	"jungleboard/pkg/jwt"
	"jungleboard/pkg/logger"
	"jungleboard/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without cache)", err)
		redisClient = nil
	}

	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.TokenTTL)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwtService,
	}, nil
}

func (a *App) Run() error {
	userRepo := persistent.NewUserRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)

	authUseCase := usecase.NewAuthUseCase(userRepo, a.jwtService, a.log)
	postUseCase := usecase.NewPostUseCase(postRepo, a.redisClient, a.log)

	authHandler := boardHTTP.NewAuthHandler(authUseCase, a.log)
	postHandler := boardHTTP.NewPostHandler(postUseCase, a.log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "message": "jungleboard server running"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.ListPosts)
			posts.POST("/:id/views", postHandler.IncrementViews)

			protected := posts.Group("")
			protected.Use(middleware.AuthMiddleware(a.jwtService))
			protected.Use(a.requireUser(authUseCase))
			{
				protected.POST("", postHandler.CreatePost)
				protected.PUT("/:id", postHandler.UpdatePost)
				protected.DELETE("/:id", postHandler.DeletePost)
				protected.POST("/:id/comments", postHandler.AddComment)
				protected.PUT("/:id/comments/:commentId", postHandler.UpdateComment)
				protected.DELETE("/:id/comments/:commentId", postHandler.DeleteComment)
			}
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Board server starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

// requireUser rejects tokens whose user no longer resolves to an account.
func (a *App) requireUser(authUseCase usecase.AuthUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if _, err := authUseCase.GetUser(userID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down board server...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Board server exited")
	return nil
}
