package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/application/fulfillment"
	"storefront/internal/application/reporting"
	"storefront/internal/config"
	"storefront/internal/domain/catalog"
	"storefront/internal/infrastructure/memory"
	"storefront/internal/infrastructure/notify"
	"storefront/internal/infrastructure/paymentstub"
	"storefront/internal/infrastructure/trends"
	httptransport "storefront/internal/presentation/http"
	"storefront/internal/pkg/logging"
)

func main() {
	cfg := config.Load()

	baseLogger := logging.MustNewLogger("storefront", cfg.Server.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	catalogRepo := memory.NewCatalogRepository()
	seedCatalog(catalogRepo, baseLogger)
	orderRepo := memory.NewOrderRepository()

	gateway := paymentstub.NewGateway()
	notifier := notify.NewLogNotifier(baseLogger, prometheus.DefaultRegisterer)
	metrics := fulfillment.NewMetrics(prometheus.DefaultRegisterer)

	svc := fulfillment.NewService(catalogRepo, orderRepo, gateway, notifier,
		fulfillment.Config{
			LowStockThreshold: cfg.Fulfillment.LowStockThreshold,
			PaymentTimeout:    cfg.Fulfillment.PaymentTimeout,
		},
		metrics,
	)
	reports := reporting.NewEngine(catalogRepo, orderRepo)
	trendsClient := trends.NewClient(cfg.Trends.BaseURL, &http.Client{Timeout: cfg.Trends.Timeout})

	handler := httptransport.NewHandler(svc, catalogRepo, orderRepo, reports, trendsClient, baseLogger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}

// seedCatalog loads the demo catalog the service starts with.
func seedCatalog(repo *memory.CatalogRepository, logger *zap.Logger) {
	seeds := []struct {
		id       int
		name     string
		price    string
		category string
		stock    int
	}{
		{1, "Laptop Pro", "1200.00", "Electronics", 50},
		{2, "Wireless Mouse", "25.00", "Accessories", 200},
		{3, "Mechanical Keyboard", "75.00", "Accessories", 100},
	}
	for _, s := range seeds {
		p, err := catalog.NewProduct(s.id, s.name, decimal.RequireFromString(s.price), s.category, s.stock)
		if err != nil {
			logger.Fatal("catalog_seed_failed", zap.String("product", s.name), zap.Error(err))
		}
		repo.Add(p)
	}
}
