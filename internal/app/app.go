package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"barber_backend/database"
	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/handlers"
	"barber_backend/internal/imageprocessor"
	"barber_backend/internal/logger"
	"barber_backend/internal/middleware"
	"barber_backend/internal/moderation"
	"barber_backend/internal/notify"
	"barber_backend/internal/routes"
	"barber_backend/internal/services"
	"barber_backend/internal/storage"
	"barber_backend/internal/validator"
	"barber_backend/pkg/apperrors"
	"barber_backend/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	cfg := config.LoadConfig()
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	apperrors.Debug = cfg.Server.Env != "production"
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	deps, err := BuildDependencies(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize dependencies", "error", err)
	}

	ginRouter, container, err := SetupRouter(cfg, gormDB, deps)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	// Если не удалось создать сотрудника (проблемы с БД и т.д.) - не запускаем сервер
	if err := container.AuthService.SeedAdmin(context.Background(), gormDB); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// BuildDependencies собирает внешние зависимости по конфигу
func BuildDependencies(cfg *config.Config) (services.Dependencies, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return services.Dependencies{}, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	return services.Dependencies{
		Config:     cfg,
		Validator:  validator.New(),
		JWT:        auth.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute),
		Classifier: moderation.NewClassifier(cfg),
		Notifier:   notify.FromConfig(cfg),
		Storage:    storageInstance,
		Images:     imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.PhotoWidth),
	}, nil
}

// SetupRouter собирает сервисы, хэндлеры и gin.Engine
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, deps services.Dependencies) (*gin.Engine, *services.ServiceContainer, error) {
	// 1. Сервисы
	container := services.NewServiceContainer(deps)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, container, deps.Validator)

	// 3. Gin
	ginRouter, err := initializeGinRouter(cfg, gormDB)
	if err != nil {
		return nil, nil, err
	}

	// 4. Маршруты
	opts := routes.Options{
		CookieName: cfg.JWT.CookieName,
		RateRPS:    cfg.RateLimit.RPS,
		RateBurst:  cfg.RateLimit.Burst,
		StaticFS:   staticFS(cfg.Server.StaticDir),
	}
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		opts.MediaDir = cfg.Storage.BasePath
		opts.MediaURL = cfg.Storage.BaseURL
	}
	routes.RegisterRoutes(ginRouter, appHandlers, container.AuthService, opts)

	return ginRouter, container, nil
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer, v *validator.Validator) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(v)
	secure := cfg.Server.Env == "production"

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, container.AuthService, cfg.JWT.CookieName, secure),
		MasterHandler:  handlers.NewMasterHandler(baseHandler, container.MasterService),
		ServiceHandler: handlers.NewServiceHandler(baseHandler, container.CatalogService),
		VisitHandler:   handlers.NewVisitHandler(baseHandler, container.VisitService),
		ReviewHandler:  handlers.NewReviewHandler(baseHandler, container.ReviewService),
		ImportHandler:  handlers.NewImportHandler(baseHandler, container.ImportService),
		SiteHandler: handlers.NewSiteHandler(baseHandler, handlers.SiteOptions{
			Menu:         cfg.Site.Menu,
			CookieName:   cfg.JWT.CookieName,
			SecureCookie: secure,
			ReviewsLimit: cfg.Site.InlineLimit,
		}, container),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, error) {
	tpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tpl)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router, nil
}

// staticFS - каталог static_dir, если он есть, иначе встроенная статика
func staticFS(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}
	return web.Static()
}
