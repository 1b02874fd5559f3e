package routes

import (
	"log"

	"taskboard-backend/internal/api/handlers"
	"taskboard-backend/internal/api/middleware"
	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/config"
	"taskboard-backend/internal/events"
	"taskboard-backend/internal/logger"
	"taskboard-backend/internal/realtime"
	"taskboard-backend/internal/repository"
	"taskboard-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validator := validator.New()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize auth
	authConfig, err := auth.LoadConfig()
	if err != nil {
		// Fall back to the application-level secret
		log.Printf("Warning: dedicated auth config not usable: %v", err)
		authConfig = &auth.Config{
			JWTSecret:       cfg.JWTSecret,
			AccessTokenTTL:  auth.DefaultAccessTokenTTL,
			RefreshTokenTTL: auth.DefaultRefreshTokenTTL,
			Issuer:          "taskboard-backend",
		}
	}
	authService, err := auth.NewService(authConfig, userRepo, validator)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	// Initialize realtime gateway
	hub := realtime.NewHub(logger.New())
	var publisher events.Publisher = hub
	wsHandler := realtime.NewHandler(hub, authService, groupRepo, cfg.AllowedOrigins, logger.New())

	// Initialize services
	groupService := service.NewGroupService(groupRepo, userRepo, inviteRepo, taskRepo, publisher, validator)
	inviteService := service.NewInviteService(inviteRepo, groupRepo, userRepo, publisher, validator)
	taskService := service.NewTaskService(taskRepo, groupRepo, publisher, validator)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	groupHandler := handlers.NewGroupHandler(groupService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Websocket gateway
	router.GET("/ws", wsHandler.Serve)

	// Auth routes
	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// API v1 routes - All endpoints require authentication
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// Group routes
		groups := v1.Group("/groups")
		{
			groups.GET("", groupHandler.GetGroups)
			groups.POST("", groupHandler.CreateGroup)
			groups.POST("/join", groupHandler.JoinGroup)
			groups.GET("/:id", groupHandler.GetGroup)
			groups.PUT("/:id", groupHandler.UpdateGroup)
			groups.DELETE("/:id", groupHandler.DeleteGroup)
		}

		// Invite routes
		invites := v1.Group("/invites")
		{
			invites.POST("", inviteHandler.SendInvite)
			invites.GET("/pending", inviteHandler.GetPendingInvites)
			invites.POST("/:id/accept", inviteHandler.AcceptInvite)
			invites.POST("/:id/reject", inviteHandler.RejectInvite)
		}

		// Task routes
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/statistics", taskHandler.GetStatistics)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
