package routes

import (
	"io/fs"
	"net/http"

	"barber_backend/internal/handlers"
	"barber_backend/internal/logger"
	"barber_backend/internal/middleware"
	"barber_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options - параметры регистрации маршрутов
type Options struct {
	CookieName string
	RateRPS    float64
	RateBurst  int

	// StaticFS - css/картинки; MediaDir - локальные загрузки (пусто для S3/R2)
	StaticFS fs.FS
	MediaDir string
	MediaURL string
}

// RegisterRoutes регистрирует HTML-страницы, API v1 и служебные маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authService services.AuthService,
	opts Options,
) {
	limiter := middleware.RateLimitMiddleware(opts.RateRPS, opts.RateBurst)
	staffAPI := middleware.StaffAuthMiddleware(authService, opts.CookieName)
	staffPage := middleware.StaffPageMiddleware(authService, opts.CookieName, "/")

	// Служебные
	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.StaticFS != nil {
		ginRouter.StaticFS("/static", http.FS(opts.StaticFS))
	}
	if opts.MediaDir != "" && opts.MediaURL != "" {
		ginRouter.Static(opts.MediaURL, opts.MediaDir)
	}

	// HTML
	appHandlers.SiteHandler.RegisterRoutes(ginRouter, staffPage, limiter)

	// API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, limiter)

		admin := api.Group("/admin")
		admin.Use(staffAPI)
		{
			appHandlers.MasterHandler.RegisterRoutes(admin)
			appHandlers.ServiceHandler.RegisterRoutes(admin)
			appHandlers.VisitHandler.RegisterRoutes(admin)
			appHandlers.ReviewHandler.RegisterRoutes(admin)
			appHandlers.ImportHandler.RegisterRoutes(admin)
		}
	}

	logger.Info("Routes registered", "routes", len(ginRouter.Routes()))
}
