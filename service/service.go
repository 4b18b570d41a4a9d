package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookbright/electryohype/internal/auth"
	"github.com/bookbright/electryohype/internal/dropship"
	"github.com/bookbright/electryohype/internal/fulfillment"
	"github.com/bookbright/electryohype/internal/handlers"
	"github.com/bookbright/electryohype/internal/importer"
	"github.com/bookbright/electryohype/internal/jobs"
	"github.com/bookbright/electryohype/internal/metrics"
	"github.com/bookbright/electryohype/internal/upload"
	"github.com/bookbright/electryohype/storage"
)

type Service struct {
	storage *storage.Storage
	config  *Config

	policy   *auth.AdminPolicy
	verifier auth.SessionVerifier
	poller   *jobs.SupplierStatusPoller
	cancel   context.CancelFunc

	importHandler   *handlers.AdminImportHandler
	ordersHandler   *handlers.AdminOrdersHandler
	uploadsHandler  *handlers.AdminUploadsHandler
	productsHandler *handlers.ProductsHandler
}

// New wires the import, fulfillment and upload pipelines and starts the
// background jobs. Call Shutdown to stop them.
func New(store *storage.Storage, config *Config) (*Service, error) {
	ctx, cancel := context.WithCancel(context.Background())

	browser := importer.NewChromeBrowser(importer.BrowserOptions{
		ExecPath:   config.Import.ChromePath,
		NavTimeout: config.Import.NavTimeout,
	})
	registry := importer.NewRegistry(importer.DefaultScrapers(importer.Options{
		RequestsPerMinute: config.Import.RequestsPerMinute,
		HTTPTimeout:       config.Import.Timeout,
		RenderTimeout:     config.Import.NavTimeout,
		Browser:           browser,
	})...)

	client := dropship.NewHTTPClient(config.Supplier.APIURL, config.Supplier.APIKey)
	sender := fulfillment.NewSender(store.Queries, client, config.Supplier.Default)

	assets, err := upload.NewLocalStore(config.Upload.Dir, config.Upload.BaseURL)
	if err != nil {
		cancel()
		return nil, err
	}
	uploader := upload.NewUploader(assets, config.Upload.MaxSize)

	policy := auth.LoadAdminPolicy(config.Admin.PolicyPath)
	if config.Admin.ReloadInterval > 0 {
		go policy.Watch(ctx, config.Admin.ReloadInterval)
	}

	// A nil *ClerkVerifier must not end up inside the interface.
	var verifier auth.SessionVerifier
	if config.Clerk.SecretKey != "" {
		verifier = auth.NewClerkVerifier(config.Clerk.SecretKey)
	} else {
		slog.Warn("CLERK_SECRET_KEY not set, session auth disabled; admin routes accept API keys only")
	}

	poller := jobs.NewSupplierStatusPoller(store.Queries, client, config.Supplier.PollInterval)
	poller.Start(ctx)

	slog.Info("service initialized",
		"providers", len(registry.Providers()),
		"admins", policy.Len(),
		"supplier_mock", client.IsUsingMockData(),
	)

	return &Service{
		storage:         store,
		config:          config,
		policy:          policy,
		verifier:        verifier,
		poller:          poller,
		cancel:          cancel,
		importHandler:   handlers.NewAdminImportHandler(store, registry, config.Pricing, config.Import.Timeout),
		ordersHandler:   handlers.NewAdminOrdersHandler(store, sender),
		uploadsHandler:  handlers.NewAdminUploadsHandler(uploader),
		productsHandler: handlers.NewProductsHandler(store),
	}, nil
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.Use(metrics.Middleware())

	e.GET("/health", s.handleHealth)
	e.GET("/metrics", metrics.Handler())
	e.Static(s.config.Upload.BaseURL, s.config.Upload.Dir)

	api := e.Group("/api")
	api.Use(auth.SessionMiddleware(s.verifier))

	// Storefront reads
	api.GET("/products", s.productsHandler.HandleListProducts)
	api.GET("/products/hero", s.productsHandler.HandleHero)
	api.GET("/products/:slug", s.productsHandler.HandleGetProduct)

	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin(s.policy, s.storage.Queries))
	admin.POST("/import", s.importHandler.HandleImport)
	admin.GET("/imports", s.importHandler.HandleListImports)
	admin.POST("/orders/:id/send-to-supplier", s.ordersHandler.HandleSendToSupplier)
	admin.POST("/uploads", s.uploadsHandler.HandleUpload)
}

// Shutdown stops the poller and the policy watcher.
func (s *Service) Shutdown() {
	s.poller.Stop()
	s.cancel()
}

func (s *Service) handleHealth(c echo.Context) error {
	if err := s.storage.DB().PingContext(c.Request().Context()); err != nil {
		slog.Error("health check: database ping failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":      "degraded",
			"environment": s.config.Environment,
			"database":    "unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "healthy",
		"environment": s.config.Environment,
		"database":    "connected",
	})
}
