package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"askhub/internal/ai"
	appsvc "askhub/internal/app"
	"askhub/internal/bootstrap"
	"askhub/internal/cache"
	"askhub/internal/platform/rabbitmq"
	"askhub/internal/repository"
	"askhub/internal/transport/http/handler"
	"askhub/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	userRepo := repository.NewUserRepository(app.MySQL)
	projectRepo := repository.NewProjectRepository(app.MySQL)
	dialogRepo := repository.NewDialogRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	guard := appsvc.NewOwnershipGuard(projectRepo)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	auditPublisher := rabbitmq.NewAuditPublisher(app.MQConn, app.Config.RabbitMQ.AskAuditQueue)
	aiClient := ai.NewClient(ai.Config{
		BaseURL: app.Config.AIService.BaseURL,
		Timeout: time.Duration(app.Config.AIService.TimeoutSeconds) * time.Second,
	})

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.AccessExpireMinute)*time.Minute,
		time.Duration(app.Config.Auth.RefreshExpireMinute)*time.Minute,
	)
	projectService := appsvc.NewProjectService(projectRepo)
	dialogService := appsvc.NewDialogService(dialogRepo, guard, historyCache)
	messageService := appsvc.NewMessageService(messageRepo, dialogRepo, guard, historyCache)
	askService := appsvc.NewAskService(projectRepo, dialogRepo, messageRepo, aiClient, auditPublisher, historyCache)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	dialogHandler := handler.NewDialogHandler(dialogService)
	messageHandler := handler.NewMessageHandler(messageService)
	askHandler := handler.NewAskHandler(askService)

	router.GET("/healthz", healthHandler.Check)

	api := router.Group("/api")
	api.GET("/health/", healthHandler.Ping)

	authGroup := api.Group("/auth")
	authGroup.POST("/register/", authHandler.Register)
	authGroup.POST("/token/", authHandler.Token)
	authGroup.POST("/refresh/", authHandler.Refresh)
	authGroup.GET("/me/", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	authed := api.Group("", middleware.AuthJWT(app.Config.Auth.JWTSecret))

	projects := authed.Group("/projects")
	projects.GET("/", projectHandler.List)
	projects.POST("/", projectHandler.Create)
	projects.GET("/:id/", projectHandler.Get)
	projects.PUT("/:id/", projectHandler.Update)
	projects.PATCH("/:id/", projectHandler.Update)
	projects.DELETE("/:id/", projectHandler.Delete)

	assistant := authed.Group("/assistant")
	assistant.POST("/ask/", askHandler.Ask)

	dialogs := assistant.Group("/dialogs")
	dialogs.GET("/", dialogHandler.List)
	dialogs.POST("/", dialogHandler.Create)
	dialogs.GET("/:id/", dialogHandler.Get)
	dialogs.PUT("/:id/", dialogHandler.Update)
	dialogs.PATCH("/:id/", dialogHandler.Update)
	dialogs.DELETE("/:id/", dialogHandler.Delete)

	messages := assistant.Group("/messages")
	messages.GET("/", messageHandler.List)
	messages.POST("/", messageHandler.Create)
	messages.GET("/:id/", messageHandler.Get)
	messages.PUT("/:id/", messageHandler.Update)
	messages.PATCH("/:id/", messageHandler.Update)
	messages.DELETE("/:id/", messageHandler.Delete)

	return router
}
