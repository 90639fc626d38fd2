package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-backend/internal/background"
	"storefront-backend/internal/config"
	"storefront-backend/internal/handlers"
	"storefront-backend/internal/middleware"
	"storefront-backend/internal/models"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/service"
	"storefront-backend/internal/widgets"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"
)

// publishSweepInterval is how often the scheduler publishes due pages.
const publishSweepInterval = time.Minute

type Application struct {
	cfg *config.Config

	db       *gorm.DB
	cache    *cache.Cache
	registry *widgets.Registry

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	scheduler   *background.Scheduler
	rateLimiter *middleware.RateLimitManager

	router *gin.Engine
	server *http.Server
}

type repositoryContainer struct {
	User        repository.UserRepository
	Store       repository.StoreRepository
	Page        repository.PageRepository
	Snapshot    repository.SnapshotRepository
	Product     repository.ProductRepository
	Order       repository.OrderRepository
	EmailConfig repository.EmailConfigRepository
	Analytics   repository.AnalyticsRepository
}

type serviceContainer struct {
	Auth       *service.AuthService
	Store      *service.StoreService
	Page       *service.PageService
	Resolver   *service.ResolverService
	Storefront *service.StorefrontService
	Form       *service.FormService
	Product    *service.ProductService
	Order      *service.OrderService
	Email      *service.EmailService
	Analytics  *service.AnalyticsService
}

type handlerContainer struct {
	Auth        *handlers.AuthHandler
	Store       *handlers.StoreHandler
	Page        *handlers.PageHandler
	PageBuilder *handlers.PageBuilderHandler
	Product     *handlers.ProductHandler
	Order       *handlers.OrderHandler
	Settings    *handlers.SettingsHandler
	Storefront  *handlers.StorefrontHandler
}

func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	app := &Application{
		cfg:      cfg,
		registry: widgets.DefaultRegistry(),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.runMigrations(); err != nil {
		return nil, err
	}
	if err := app.createIndexes(); err != nil {
		return nil, err
	}
	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.initRepositories()
	app.initServices()
	app.initHandlers()
	app.initScheduler(ctx)
	app.initRouter(ctx)

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(ctx); err != nil {
			logger.Error(err, "Scheduler shutdown incomplete", nil)
		}
	}

	if a.rateLimiter != nil {
		a.rateLimiter.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Page{},
		&models.PageSnapshot{},
		&models.Product{},
		&models.Order{},
		&models.EmailConfig{},
		&models.AnalyticsIntegration{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) createIndexes() error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_pages_store_status ON pages(store_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_pages_published_slug ON pages(store_id, slug) WHERE status = 'published'",
		"CREATE INDEX IF NOT EXISTS idx_pages_scheduled ON pages(scheduled_for) WHERE status = 'scheduled'",
		"CREATE INDEX IF NOT EXISTS idx_pages_sections ON pages USING GIN (sections)",
		"CREATE INDEX IF NOT EXISTS idx_products_store_active ON products(store_id) WHERE active = true",
		"CREATE INDEX IF NOT EXISTS idx_orders_store_status ON orders(store_id, status)",
	}

	for _, stmt := range statements {
		if err := a.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func (a *Application) initCache() error {
	enable := a.cfg.EnableCache && a.cfg.EnableRedis

	c, err := cache.NewCache(a.cfg.RedisURL, enable)
	if err != nil {
		// The storefront works without redis, it just recomputes more.
		logger.Warn("Cache unavailable, continuing without it", map[string]interface{}{
			"redis_url": a.cfg.RedisURL,
		})
		c, _ = cache.NewCache("", false)
	}

	a.cache = c
	return nil
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		User:        repository.NewUserRepository(a.db),
		Store:       repository.NewStoreRepository(a.db),
		Page:        repository.NewPageRepository(a.db),
		Snapshot:    repository.NewSnapshotRepository(a.db),
		Product:     repository.NewProductRepository(a.db),
		Order:       repository.NewOrderRepository(a.db),
		EmailConfig: repository.NewEmailConfigRepository(a.db),
		Analytics:   repository.NewAnalyticsRepository(a.db),
	}
}

func (a *Application) initServices() {
	cacheTTL := time.Duration(a.cfg.PageCacheTTL) * time.Second

	email := service.NewEmailService(a.repositories.EmailConfig, a.cfg)
	analytics := service.NewAnalyticsService(a.repositories.Analytics)
	resolver := service.NewResolverService(a.repositories.Page, a.cache, cacheTTL)

	a.services = serviceContainer{
		Auth:      service.NewAuthService(a.repositories.User, a.cfg.JWTSecret),
		Store:     service.NewStoreService(a.repositories.Store, a.cache),
		Page:      service.NewPageService(a.repositories.Page, a.repositories.Snapshot, a.registry, a.cache),
		Resolver:  resolver,
		Product:   service.NewProductService(a.repositories.Product, a.cache),
		Email:     email,
		Analytics: analytics,
		Form:      service.NewFormService(resolver, email),
		Order:     service.NewOrderService(a.repositories.Order, email),
		Storefront: service.NewStorefrontService(
			a.repositories.Store,
			a.repositories.Product,
			analytics,
			resolver,
			a.registry,
			a.cache,
			cacheTTL,
		),
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Auth:        handlers.NewAuthHandler(a.services.Auth),
		Store:       handlers.NewStoreHandler(a.services.Store),
		Page:        handlers.NewPageHandler(a.services.Page, a.services.Store),
		PageBuilder: handlers.NewPageBuilderHandler(a.services.Page, a.services.Store, a.registry),
		Product:     handlers.NewProductHandler(a.services.Product, a.services.Store),
		Order:       handlers.NewOrderHandler(a.services.Order, a.services.Store),
		Settings:    handlers.NewSettingsHandler(a.services.Email, a.services.Analytics, a.services.Store),
		Storefront:  handlers.NewStorefrontHandler(a.services.Storefront, a.services.Form, a.services.Product),
	}
}

func (a *Application) initScheduler(ctx context.Context) {
	a.scheduler = background.NewScheduler(background.SchedulerConfig{})
	a.scheduler.Start(ctx)

	err := a.scheduler.ScheduleEvery(publishSweepInterval, background.Job{
		Name:    "publish-scheduled-pages",
		Timeout: 30 * time.Second,
		Run: func(ctx context.Context) error {
			if n := a.services.Page.PublishDuePages(time.Now()); n > 0 {
				logger.Info("Published scheduled pages", map[string]interface{}{"count": n})
			}
			return nil
		},
	})
	if err != nil {
		logger.Error(err, "Failed to start publication sweep", nil)
	}
}

func (a *Application) initRouter(ctx context.Context) {
	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.rateLimiter = middleware.NewRateLimitManager(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.rateLimiter, a.cfg))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	a.registerPublicRoutes(router)
	a.registerAdminRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	a.router = router
}

func (a *Application) registerPublicRoutes(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", a.handlers.Auth.Register)
		auth.POST("/login", a.handlers.Auth.Login)
		auth.POST("/refresh", a.handlers.Auth.Refresh)
	}

	storefront := router.Group("/api/storefront/:storeSlug")
	{
		storefront.GET("/view/*pagePath", a.handlers.Storefront.RenderPage)
		storefront.POST("/submit/*pagePath", a.handlers.Storefront.SubmitForm)
		storefront.GET("/products/:productSlug", a.handlers.Storefront.GetProduct)
	}
}

func (a *Application) registerAdminRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(a.cfg.JWTSecret))

	api.GET("/auth/me", a.handlers.Auth.Me)
	api.POST("/auth/change-password", a.handlers.Auth.ChangePassword)

	api.GET("/builder/widgets", a.handlers.PageBuilder.WidgetCatalog)
	api.GET("/builder/palettes", a.handlers.PageBuilder.PaletteCatalog)
	api.GET("/builder/templates", a.handlers.PageBuilder.TemplateCatalog)

	api.POST("/stores", a.handlers.Store.Create)
	api.GET("/stores", a.handlers.Store.GetAll)

	store := api.Group("/stores/:storeID")
	{
		store.GET("", a.handlers.Store.GetByID)
		store.PUT("", a.handlers.Store.Update)
		store.DELETE("", a.handlers.Store.Delete)

		pages := store.Group("/pages")
		{
			pages.POST("", a.handlers.Page.Create)
			pages.POST("/from-template", a.handlers.PageBuilder.CreateFromTemplate)
			pages.GET("", a.handlers.Page.GetAll)
			pages.GET("/:id", a.handlers.Page.GetByID)
			pages.PUT("/:id", a.handlers.Page.Update)
			pages.DELETE("/:id", a.handlers.Page.Delete)

			pages.POST("/:id/publish", a.handlers.Page.Publish)
			pages.POST("/:id/unpublish", a.handlers.Page.Unpublish)
			pages.POST("/:id/archive", a.handlers.Page.Archive)
			pages.POST("/:id/schedule", a.handlers.Page.Schedule)
			pages.POST("/:id/duplicate", a.handlers.Page.Duplicate)

			pages.GET("/:id/snapshots", a.handlers.Page.Snapshots)
			pages.POST("/:id/snapshots/:snapshotID/restore", a.handlers.Page.RestoreSnapshot)

			pages.POST("/:id/sections", a.handlers.PageBuilder.AddSection)
			pages.DELETE("/:id/sections/:sectionID", a.handlers.PageBuilder.RemoveSection)
			pages.PUT("/:id/sections/reorder", a.handlers.PageBuilder.ReorderSections)
			pages.POST("/:id/widgets", a.handlers.PageBuilder.AddWidget)
			pages.DELETE("/:id/widgets/:widgetID", a.handlers.PageBuilder.RemoveWidget)
		}

		products := store.Group("/products")
		{
			products.POST("", a.handlers.Product.Create)
			products.GET("", a.handlers.Product.GetAll)
			products.GET("/:id", a.handlers.Product.GetByID)
			products.PUT("/:id", a.handlers.Product.Update)
			products.DELETE("/:id", a.handlers.Product.Delete)
		}

		orders := store.Group("/orders")
		{
			orders.POST("", a.handlers.Order.Create)
			orders.GET("", a.handlers.Order.GetAll)
			orders.GET("/:id", a.handlers.Order.GetByID)
			orders.PUT("/:id/status", a.handlers.Order.UpdateStatus)
			orders.DELETE("/:id", a.handlers.Order.Delete)
		}

		settings := store.Group("/settings")
		{
			settings.GET("/email", a.handlers.Settings.GetEmailConfig)
			settings.PUT("/email", a.handlers.Settings.UpdateEmailConfig)
			settings.DELETE("/email", a.handlers.Settings.DeleteEmailConfig)

			settings.GET("/analytics", a.handlers.Settings.GetAnalytics)
			settings.PUT("/analytics", a.handlers.Settings.UpsertAnalytics)
			settings.DELETE("/analytics/:provider", a.handlers.Settings.DeleteAnalytics)
		}
	}
}
