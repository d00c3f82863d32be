// AXM storefront - serves the catalog, carts and checkout handoff over
// REST and MCP. Designed for Cloud Run; carts persist to CART_STORE_DIR.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"axm-storefront/internal/cart"
	"axm-storefront/internal/catalog"
	"axm-storefront/internal/checkout"
	"axm-storefront/internal/config"
	"axm-storefront/internal/handler"
	"axm-storefront/internal/middleware"
	"axm-storefront/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := initLogger()

	// Load configuration
	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Bool("shopify", cfg.ShopifyEnabled()),
		slog.String("shopify_domain", cfg.Shopify.Domain),
		slog.String("snapshot_primary", cfg.Snapshot.Primary),
		slog.String("snapshot_supplement", cfg.Snapshot.Supplement),
		slog.Duration("catalog_ttl", cfg.CatalogTTL),
	)

	// Catalog: Shopify → snapshots → embedded mock
	tiers := catalog.NewTiers(cfg, logger)
	cache := catalog.New(tiers.Resolver, catalog.Config{
		TTL:    cfg.CatalogTTL,
		Finder: tiers.Finder(cfg),
		Logger: logger,
	})

	store, err := newCartStore(cfg)
	if err != nil {
		return fmt.Errorf("creating cart store: %w", err)
	}
	if cfg.CartStoreDir == "" && cfg.Environment == "production" {
		logger.Warn("carts are kept in memory only; set CART_STORE_DIR to persist them")
	}
	carts := cart.NewRegistrySize(store, cfg.Pricing, logger, cfg.MaxCarts)

	handoff := checkout.New(checkout.Config{
		WhatsAppNumber: cfg.Checkout.WhatsAppNumber,
		UPIPayee:       cfg.Checkout.UPIPayee,
		UPIPayeeName:   cfg.Checkout.UPIPayeeName,
		Pricing:        cfg.Pricing,
	})

	h := handler.New(cache, carts, handoff, logger)

	// Setup routes
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Apply middleware chain: recovery → logging → session → handler
	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.Session(logger),
	)(mux)

	// Warm the catalog so the first shopper doesn't wait on the tiers.
	go cache.Get(ctx)

	// Create HTTP server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Channel for server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			slog.String("port", cfg.Port),
			slog.String("addr", server.Addr),
		)
		serverErr <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			// Force close if graceful shutdown fails
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// newCartStore persists carts on disk when a directory is configured.
func newCartStore(cfg *config.Config) (storage.Store, error) {
	if cfg.CartStoreDir == "" {
		return storage.NewMemoryStore(), nil
	}
	return storage.NewFileStore(cfg.CartStoreDir)
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
// Development uses text format for readability.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		// unknown levels keep info; config validation reports them
		_ = level.UnmarshalText([]byte(v))
	}

	opts := &slog.HandlerOptions{
		Level: level,
		// Add source location in debug mode
		AddSource: level == slog.LevelDebug,
	}

	// JSON for production (Cloud Logging compatible), text for development
	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
