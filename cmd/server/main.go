package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"chat-embed.backend/internal/config"
	"chat-embed.backend/internal/infrastructure/llm"
	"chat-embed.backend/internal/infrastructure/models"
	"chat-embed.backend/internal/infrastructure/repositories"
	"chat-embed.backend/internal/interfaces/http/handlers"
	"chat-embed.backend/internal/interfaces/http/middleware"
	"chat-embed.backend/internal/usecases"
	"chat-embed.backend/pkg/crypto"
	"chat-embed.backend/pkg/jwt"
	"chat-embed.backend/pkg/logger"
	"chat-embed.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
		if err := db.AutoMigrate(
			&models.Team{},
			&models.User{},
			&models.VendorCredential{},
			&models.ChatEmbed{},
			&models.ChatMessage{},
			&models.UsageRecord{},
		); err != nil {
			log.Printf("⚠️ Auto-migration failed: %v", err)
		}
	}

	vault, err := crypto.NewVault(cfg.Security.EncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize credential vault: %w", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	credentialRepo := repositories.NewVendorCredentialRepository(db)
	embedRepo := repositories.NewChatEmbedRepository(db)
	messageRepo := repositories.NewChatMessageRepository(db)
	usageRepo := repositories.NewUsageRecordRepository(db)

	// One adapter set over a shared HTTP client
	registry := llm.NewRegistry(&http.Client{Timeout: 60 * time.Second})

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, teamRepo, jwtService)
	credentialUsecase := usecases.NewCredentialUsecase(credentialRepo, vault, registry)
	embedUsecase := usecases.NewEmbedUsecase(embedRepo, credentialRepo, usageRepo)
	chatUsecase := usecases.NewChatUsecase(embedRepo, credentialRepo, usageRepo, messageRepo, vault, registry, cfg.Fallback)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	credentialHandler := handlers.NewCredentialHandler(credentialUsecase)
	embedHandler := handlers.NewEmbedHandler(embedUsecase)
	chatHandler := handlers.NewChatHandler(chatUsecase)

	authMiddleware := middleware.AuthMiddleware(jwtService)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:       authHandler,
		credentialHandler: credentialHandler,
		embedHandler:      embedHandler,
		chatHandler:       chatHandler,
		authMiddleware:    authMiddleware,
	})

	log.Printf("🚀 Chat Embed Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
