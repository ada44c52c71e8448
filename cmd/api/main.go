package main

import (
	"context"
	"log"

	"wavechat/config"
	"wavechat/internal/domain/apikey"
	"wavechat/internal/domain/chat"
	"wavechat/internal/domain/file"
	"wavechat/internal/domain/output"
	"wavechat/internal/domain/user"
	"wavechat/internal/handler"
	"wavechat/internal/redis"
	"wavechat/internal/repository"
	"wavechat/internal/server"
	"wavechat/internal/services"
	"wavechat/internal/storage"
	"wavechat/pkg/database"
	"wavechat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	database.Connect(cfg)

	if err := database.DB.AutoMigrate(
		&user.User{},
		&user.Session{},
		&chat.Chat{},
		&chat.Message{},
		&file.Upload{},
		&output.StructuredOutput{},
		&output.Version{},
		&apikey.APIKey{},
		&apikey.UsageRecord{},
		&apikey.ActivityRecord{},
	); err != nil {
		log.Fatalf("Failed to apply GORM migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.DB)
	msgRepo := repository.NewMessageRepository(database.DB)
	fileRepo := repository.NewFileRepository(database.DB)
	outputRepo := repository.NewOutputRepository(database.DB)
	apiKeyRepo := repository.NewAPIKeyRepository(database.DB)

	var s3Client *storage.Client
	if cfg.S3Bucket != "" {
		client, err := storage.NewClient(context.Background(), storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			log.Fatalf("Failed to initialise object storage: %v", err)
		}
		s3Client = client
	} else {
		l.Warnf("S3_BUCKET not set, file uploads disabled")
	}

	var exchanger services.CodeExchanger
	if cfg.OAuthTokenURL != "" {
		exchanger = services.NewHTTPCodeExchanger(cfg.OAuthTokenURL, cfg.AppBaseURL+"/auth/callback")
	}

	authService := services.NewAuthService(userRepo, exchanger, cfg)
	chatService := services.NewChatService(chatRepo, msgRepo, fileRepo)
	fileService := services.NewFileService(fileRepo, s3Client, l)
	outputService := services.NewOutputService(outputRepo)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo)
	analyticsService := services.NewAnalyticsService(chatRepo, msgRepo, fileRepo, apiKeyRepo, l)

	redisClient := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	limiterCfg := redis.DefaultRateLimitConfig()
	if cfg.RateLimitPerMin > 0 {
		limiterCfg.APILimit = cfg.RateLimitPerMin
	}
	limiter := redis.NewRateLimiter(redisClient, limiterCfg)

	handlers := &server.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg),
		Chat:      handler.NewChatHandler(chatService, analyticsService),
		File:      handler.NewFileHandler(fileService, analyticsService),
		Output:    handler.NewOutputHandler(outputService, analyticsService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Page:      handler.NewPageHandler(chatService, outputService, analyticsService),
		APIKey:    handler.NewAPIKeyHandler(apiKeyService),
	}
	svcs := &server.Services{
		Auth:      authService,
		APIKeys:   apiKeyService,
		Analytics: analyticsService,
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, svcs, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
}
