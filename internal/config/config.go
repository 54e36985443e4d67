package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// MenuItem - пункт верхнего меню публичных страниц
type MenuItem struct {
	Title  string `yaml:"title"`
	URL    string `yaml:"url"`
	Active bool   `yaml:"active"`
}

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		StaticDir   string   `yaml:"static_dir"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTL        int    `yaml:"ttl"` // минуты
		CookieName string `yaml:"cookie_name"`
	} `yaml:"jwt"`

	// Первый сотрудник, создается при старте, если таблица users пустая
	Admin struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`

	Site struct {
		Menu                   []MenuItem `yaml:"menu"`
		VisitsPageSize         int        `yaml:"visits_page_size"`
		AdminPageSize          int        `yaml:"admin_page_size"`
		ReviewsPageSize        int        `yaml:"reviews_page_size"`
		InlineLimit            int        `yaml:"inline_limit"`
		PriceLowMax            float64    `yaml:"price_low_max"`
		PriceMediumMax         float64    `yaml:"price_medium_max"`
		RegularClientMinVisits int        `yaml:"regular_client_min_visits"`
	} `yaml:"site"`

	Moderation struct {
		APIKey         string   `yaml:"api_key"`
		Model          string   `yaml:"model"`
		BaseURL        string   `yaml:"base_url"`
		TimeoutSeconds int      `yaml:"timeout_seconds"`
		StopWords      []string `yaml:"stop_words"`
	} `yaml:"moderation"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		NotifyTo     string `yaml:"notify_to"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`
		AllowedTypes []string `yaml:"allowed_types"`
		ImageQuality int      `yaml:"image_quality"`
		PhotoWidth   int      `yaml:"photo_width"`
	} `yaml:"upload"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Loader struct {
		Order []string `yaml:"order"`
	} `yaml:"loader"`
}

// DefaultLoadOrder - порядок загрузки моделей дампа: независимые модели первыми
var DefaultLoadOrder = []string{
	"auth.permission",
	"auth.user",
	"contenttypes.contenttype",
	"core.service",
	"core.master",
	"core.visit",
	"core.review",
}

// Load читает YAML (если файл есть), .env и переменные окружения.
// Пустые значения заполняются значениями по умолчанию.
func Load(path string) (*Config, error) {
	var cfg Config

	// .env не обязателен
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("config file %s not found, using environment and defaults", path)
	default:
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Database.DSN == "" {
		return nil, errors.New("database url is not configured (database.url or DATABASE_URL)")
	}
	return &cfg, nil
}

// LoadConfig загружает конфиг веб-сервера, при ошибке завершает процесс
func LoadConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("Failed to load config: jwt secret is not configured (jwt.secret or JWT_SECRET)")
	}
	return cfg
}

// Defaults - конфиг только со значениями по умолчанию, без файла и окружения
func Defaults() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Server.Env, "SERVER_ENV")
	if v, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		cfg.Server.Port = v
	}
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Admin.Username, "ADMIN_USERNAME")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Moderation.APIKey, "MISTRAL_API_KEY")
	setString(&cfg.Moderation.Model, "MISTRAL_MODEL")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	if v, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = v
	}
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "./static"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60 * 12
	}
	if cfg.JWT.CookieName == "" {
		cfg.JWT.CookieName = "access_token"
	}

	if len(cfg.Site.Menu) == 0 {
		cfg.Site.Menu = []MenuItem{
			{Title: "Главная", URL: "/", Active: true},
			{Title: "Мастера", URL: "#masters", Active: true},
			{Title: "Услуги", URL: "#services", Active: true},
			{Title: "Запись на стрижку", URL: "#orderForm", Active: true},
		}
	}
	if cfg.Site.VisitsPageSize == 0 {
		cfg.Site.VisitsPageSize = 5
	}
	if cfg.Site.AdminPageSize == 0 {
		cfg.Site.AdminPageSize = 20
	}
	if cfg.Site.ReviewsPageSize == 0 {
		cfg.Site.ReviewsPageSize = 10
	}
	if cfg.Site.InlineLimit == 0 {
		cfg.Site.InlineLimit = 10
	}
	if cfg.Site.PriceLowMax == 0 {
		cfg.Site.PriceLowMax = 1000
	}
	if cfg.Site.PriceMediumMax == 0 {
		cfg.Site.PriceMediumMax = 3000
	}
	if cfg.Site.RegularClientMinVisits == 0 {
		cfg.Site.RegularClientMinVisits = 3
	}

	if cfg.Moderation.BaseURL == "" {
		cfg.Moderation.BaseURL = "https://api.mistral.ai/v1"
	}
	if cfg.Moderation.Model == "" {
		cfg.Moderation.Model = "mistral-small-latest"
	}
	if cfg.Moderation.TimeoutSeconds == 0 {
		cfg.Moderation.TimeoutSeconds = 10
	}

	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}

	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./media"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/media"
	}

	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 5 * 1024 * 1024
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	if cfg.Upload.ImageQuality == 0 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Upload.PhotoWidth == 0 {
		cfg.Upload.PhotoWidth = 600
	}

	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 1
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 5
	}

	if len(cfg.Loader.Order) == 0 {
		cfg.Loader.Order = append([]string(nil), DefaultLoadOrder...)
	}
}
