package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wavechat/config"
	"wavechat/internal/domain/apikey"
	"wavechat/internal/handler"
	"wavechat/internal/middleware"
	"wavechat/internal/redis"
	"wavechat/internal/services"
	"wavechat/internal/transport/httpdto"
	"wavechat/pkg/database"
	"wavechat/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Chat      *handler.ChatHandler
	File      *handler.FileHandler
	Output    *handler.OutputHandler
	Analytics *handler.AnalyticsHandler
	Page      *handler.PageHandler
	APIKey    *handler.APIKeyHandler
}

type Services struct {
	Auth      *services.AuthService
	APIKeys   *services.APIKeyService
	Analytics *services.AnalyticsService
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// SetupRoutes wires the three surfaces: auth flows and pages, the
// session-gated /api group, and the key-gated /api/v1 group.
func (s *Server) SetupRoutes(handlers *Handlers, svcs *Services, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware(s.config.AppBaseURL))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))
	s.engine.Use(middleware.SessionMiddleware(svcs.Auth))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	auth := s.engine.Group("/auth")
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.GET("/callback", handlers.Auth.Callback)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)
	}

	pages := s.engine.Group("/", middleware.RequireAuthPage())
	{
		pages.GET("/dashboard", handlers.Page.Dashboard)
		pages.GET("/chats/:id/page", handlers.Page.ChatPage)
		pages.GET("/developer/schemas", handlers.Page.DeveloperSchemas)
	}

	api := s.engine.Group("/api", middleware.RequireAuth())
	{
		api.GET("/chats", handlers.Chat.List)
		api.POST("/chats", handlers.Chat.Create)
		api.GET("/chats/:id", handlers.Chat.GetByID)
		api.PATCH("/chats/:id", handlers.Chat.Update)
		api.DELETE("/chats/:id", handlers.Chat.Delete)
		api.POST("/chats/:id/messages", handlers.Chat.AppendMessage)
		api.GET("/chats/:id/messages", handlers.Chat.ListMessages)
		api.GET("/chats/:id/files", handlers.Chat.ListFiles)
		api.GET("/chats/:id/details", handlers.Chat.Details)

		api.GET("/analytics", handlers.Analytics.Get)
		api.POST("/upload", handlers.File.Upload)
		api.POST("/keys", handlers.APIKey.Create)
		api.DELETE("/keys/:id", handlers.APIKey.Revoke)
	}

	v1 := s.engine.Group("/api/v1")
	{
		readGuard := middleware.APIKeyMiddleware(svcs.APIKeys, svcs.Analytics, apikey.ScopeRead)
		writeGuard := middleware.APIKeyMiddleware(svcs.APIKeys, svcs.Analytics, apikey.ScopeWrite)
		deleteGuard := middleware.APIKeyMiddleware(svcs.APIKeys, svcs.Analytics, apikey.ScopeDelete)

		// The limiter runs after the auth guard so its window keys on the
		// resolved principal, not the client address.
		limit := func(c *gin.Context) {}
		if limiter != nil {
			limit = middleware.APIRateLimitMiddleware(limiter)
		}

		v1.GET("/files", readGuard, limit, handlers.File.ListV1)
		v1.GET("/files/:id", readGuard, limit, handlers.File.GetV1)
		v1.DELETE("/files/:id", deleteGuard, limit, handlers.File.DeleteV1)
		v1.POST("/files/:id/extract", writeGuard, limit, handlers.File.ExtractV1)

		v1.POST("/structured-outputs", writeGuard, limit, handlers.Output.CreateV1)
		v1.GET("/structured-outputs/:id", readGuard, limit, handlers.Output.GetV1)
		v1.GET("/structured-outputs/:id/versions", readGuard, limit, handlers.Output.ListVersionsV1)
		v1.POST("/structured-outputs/:id/restore",
			middleware.APIKeyOrSession(svcs.APIKeys, svcs.Analytics, apikey.ScopeWrite),
			limit,
			handlers.Output.RestoreV1)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
