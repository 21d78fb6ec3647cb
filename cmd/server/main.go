package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	adminapp "github.com/AdamBejaoui/project-frontend/internal/application/admin"
	storefrontapp "github.com/AdamBejaoui/project-frontend/internal/application/storefront"
	"github.com/AdamBejaoui/project-frontend/internal/domain/checkout"
	"github.com/AdamBejaoui/project-frontend/internal/domain/shared"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/auth"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/backend"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/cache"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/event"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/logger"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/rotation"
	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/telemetry"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/handler"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/middleware"
	"github.com/AdamBejaoui/project-frontend/internal/interfaces/http/router"
)

//	@title			Storefront Gateway API
//	@version		1.0
//	@description	Session-based shopping gateway for the fashion storefront: catalog browsing, cart, checkout and the admin dashboard proxy.

//	@contact.name	API Support
//	@contact.url	https://github.com/AdamBejaoui/project-frontend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Storefront routes expect a session token, admin routes the shared admin token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry metrics
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Initialize OpenTelemetry log export and bridge application logs into it
	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	if loggerProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, loggerProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to bridge logs to collector", zap.Error(err))
		} else {
			log = bridged
			log.Info("Application logs bridged to OTLP collector")
		}
	}

	// Continuous profiling (Pyroscope)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Telemetry.ProfilingEnabled,
		ServerAddress:       cfg.Telemetry.ProfilingEndpoint,
		ApplicationName:     cfg.Telemetry.ServiceName,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Link trace spans to profiles when both subsystems are running
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Backend REST client. Serves product fetches, order submission and the
	// proxied admin calls.
	backendClient := backend.NewClient(cfg.Backend, log)
	log.Info("Backend client initialized", zap.String("base_url", backendClient.BaseURL()))

	// Product cache and checkout submission guard, redis-backed when configured
	stores := cache.NewStoreFactory(cfg.Cache.Backend, cfg.Redis, cache.WithLogger(log))
	productCache, err := stores.CreateProductCache()
	if err != nil {
		log.Fatal("Failed to create product cache", zap.Error(err))
	}
	defer func() {
		if err := productCache.Close(); err != nil {
			log.Error("Error closing product cache", zap.Error(err))
		}
	}()

	var submissionGuard shared.IdempotencyStore
	if cfg.Cache.SubmissionsGuard {
		submissionGuard, err = stores.CreateSubmissionStore()
		if err != nil {
			log.Fatal("Failed to create submission guard", zap.Error(err))
		}
		defer func() {
			if err := submissionGuard.Close(); err != nil {
				log.Error("Error closing submission guard", zap.Error(err))
			}
		}()
	}

	// Per-session state store with TTL eviction
	sessionStore := storefrontapp.NewSessionStore(cfg.Cart, log)
	defer func() {
		if err := sessionStore.Close(); err != nil {
			log.Error("Error closing session store", zap.Error(err))
		}
	}()

	// Rotation scheduler driving the overlay carousel auto-advance
	rotationScheduler, err := rotation.NewScheduler(cfg.Showcase.RotationInterval, log)
	if err != nil {
		log.Fatal("Failed to create rotation scheduler", zap.Error(err))
	}
	if err := rotationScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start rotation scheduler", zap.Error(err))
	}
	defer func() {
		if err := rotationScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping rotation scheduler", zap.Error(err))
		}
	}()

	// Initialize application services
	catalogService := storefrontapp.NewCatalogService(backendClient, productCache, cfg.Cache.ProductTTL, log)
	cartService := storefrontapp.NewCartService(sessionStore, catalogService, log)
	checkoutService := storefrontapp.NewCheckoutService(sessionStore, backendClient, submissionGuard, cfg.Cache.SubmissionTTL, log)
	showcaseService := storefrontapp.NewShowcaseService(sessionStore, catalogService, rotationScheduler, log)
	sessionService := auth.NewSessionService(cfg.Session)

	// Admin proxy services
	adminProductService := adminapp.NewProductService(backendClient, log)
	adminOrderService := adminapp.NewOrderService(backendClient, log)

	// A submitted order empties the cart before the confirmation renders
	checkoutService.SetOnSuccess(func(state *storefrontapp.SessionState, _ checkout.Details) {
		state.Cart.Reset()
	})

	// Evicted sessions stop their overlay rotation
	sessionStore.SetEvictionHook(showcaseService.HandleSessionEvicted)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Admin product mutations -> catalog cache invalidation
	productChangedHandler := storefrontapp.NewProductChangedHandler(catalogService, log)
	eventBus.Subscribe(productChangedHandler)

	// Order submissions and status changes -> live admin dashboard feed
	feedHub := handler.NewOrderFeedHub(log)
	eventBus.Subscribe(feedHub)

	log.Info("Event handlers registered",
		zap.Strings("product_changed_events", productChangedHandler.EventTypes()),
		zap.Strings("order_feed_events", feedHub.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	defer feedHub.Close()

	// Inject event bus into services that publish events
	checkoutService.SetEventPublisher(eventBus)
	adminProductService.SetEventPublisher(eventBus)
	adminOrderService.SetEventPublisher(eventBus)

	// Gauge collection for sessions and rotation tasks, plus service counters
	if meterProvider.IsEnabled() {
		storefrontMetrics, err := telemetry.NewStorefrontMetrics(telemetry.StorefrontMetricsConfig{
			Meter:     meterProvider.Meter("storefront"),
			Logger:    log,
			Sessions:  sessionStore,
			Rotations: rotationScheduler,
		})
		if err != nil {
			log.Fatal("Failed to create storefront metrics", zap.Error(err))
		}
		storefrontMetrics.StartPeriodicCollection(context.Background(), 30*time.Second)
		defer storefrontMetrics.Stop()

		cartService.SetMetrics(storefrontMetrics)
		catalogService.SetMetrics(storefrontMetrics)
		checkoutService.SetMetrics(storefrontMetrics)
	}

	// Initialize HTTP handlers
	healthHandler := handler.NewHealthHandler()
	sessionHandler := handler.NewSessionHandler(sessionService, sessionStore)
	productHandler := handler.NewStorefrontProductHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	overlayHandler := handler.NewOverlayHandler(showcaseService)
	adminProductHandler := handler.NewAdminProductHandler(adminProductService)
	adminOrderHandler := handler.NewAdminOrderHandler(adminOrderService)
	orderFeedHandler := handler.NewOrderFeedHandler(feedHub, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing/Metrics/Profiling - Request telemetry (when enabled)
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Request telemetry
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Storefront domain - public routes (session mint, product browsing).
	// Session minting creates server-side state, so it carries its own
	// per-IP limiter on top of the global one.
	storefrontPublic := router.NewDomainGroup("storefront", "/storefront")
	if cfg.HTTP.RateLimitEnabled {
		sessionLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		storefrontPublic.POST("/session", middleware.SessionRateLimit(sessionLimiter), sessionHandler.Create)
	} else {
		storefrontPublic.POST("/session", sessionHandler.Create)
	}
	storefrontPublic.GET("/products", productHandler.List)
	storefrontPublic.GET("/products/:id", productHandler.GetByID)

	// Storefront domain - session-scoped routes (cart, checkout, overlay)
	storefrontSession := router.NewDomainGroup("storefront-session", "/storefront")
	storefrontSession.Use(middleware.SessionAuth(sessionService, log))
	storefrontSession.GET("/cart", cartHandler.Get)
	storefrontSession.POST("/cart/items", cartHandler.AddItem)
	storefrontSession.PATCH("/cart/items/:productId", cartHandler.UpdateItem)
	storefrontSession.DELETE("/cart/items/:productId", cartHandler.RemoveItem)
	storefrontSession.POST("/cart/reset", cartHandler.Reset)
	storefrontSession.POST("/cart/checkout", cartHandler.ToggleCheckout)
	storefrontSession.GET("/checkout", checkoutHandler.GetState)
	storefrontSession.PUT("/checkout/details", checkoutHandler.UpdateDetails)
	storefrontSession.POST("/checkout/submit", checkoutHandler.Submit)
	storefrontSession.GET("/overlay", overlayHandler.Get)
	storefrontSession.POST("/overlay/open", overlayHandler.Open)
	storefrontSession.POST("/overlay/close", overlayHandler.Close)
	storefrontSession.POST("/overlay/next", overlayHandler.Next)
	storefrontSession.POST("/overlay/prev", overlayHandler.Prev)
	storefrontSession.POST("/overlay/select", overlayHandler.Select)
	storefrontSession.POST("/overlay/resume", overlayHandler.Resume)

	// Admin domain - dashboard routes proxied to the backend behind the
	// shared admin token
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.AdminProxyAuth(log))
	adminRoutes.GET("/products", adminProductHandler.List)
	adminRoutes.POST("/products", adminProductHandler.Create)
	adminRoutes.PATCH("/products/:id", adminProductHandler.Update)
	adminRoutes.DELETE("/products/:id", adminProductHandler.Delete)
	adminRoutes.GET("/orders", adminOrderHandler.List)
	adminRoutes.PATCH("/orders/:id/status", adminOrderHandler.UpdateStatus)
	adminRoutes.GET("/orders/feed", orderFeedHandler.Feed)

	// Register all domain groups
	r.Register(storefrontPublic).
		Register(storefrontSession).
		Register(adminRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
