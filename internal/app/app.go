package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/orders/internal/health"
	"github.com/vladislavdragonenkov/orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orders/internal/messaging/noop"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
	"github.com/vladislavdragonenkov/orders/internal/service/order"
	restsvc "github.com/vladislavdragonenkov/orders/internal/service/rest"
	"github.com/vladislavdragonenkov/orders/internal/storage/memory"
	"github.com/vladislavdragonenkov/orders/internal/storage/postgres"
	"github.com/vladislavdragonenkov/orders/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run собирает зависимости и запускает HTTP-сервер до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	healthHandler := healthcheck.NewHandler(version.GetVersion())

	// Хранилище: PostgreSQL при заданном DSN, иначе in-memory.
	var (
		repo  domain.OrderRepository
		store *postgres.Store
	)
	if cfg.PostgresDSN != "" {
		var err error
		store, err = postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		}()

		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}

		repo = postgres.NewOrderRepository(store)
		healthHandler.Register("postgres", func() error {
			return store.Ping(context.Background())
		})
		logger.Info("postgres storage initialized")
	} else {
		repo = memory.NewOrderRepository()
		logger.Info("используется in-memory хранилище")
	}

	// Kafka опционален: без брокеров события молча пропускаются.
	var (
		publisher domain.EventPublisher = noop.Publisher{}
		queue     domain.QueueReader    = noop.Reader{}
	)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.TopicOrderCreated, cfg.TopicOrderStatusChanged)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka publisher, continuing without kafka")
		} else {
			publisher = kafkaPublisher
			queue = kafka.NewLastEventReader(cfg.KafkaBrokers)
			healthHandler.Register("kafka", kafka.PingBrokers(cfg.KafkaBrokers))
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka publisher initialized")
			defer func() {
				if err := kafkaPublisher.Close(); err != nil {
					logger.WithError(err).Warn("failed to close kafka publisher")
				} else {
					logger.Info("kafka publisher closed")
				}
			}()
		}
	}

	orderMetrics := metrics.NewOrderMetrics()
	svc := order.New(repo, publisher, queue, cfg.TopicOrderCreated, orderMetrics, logger.WithField("layer", "service"))
	handler := restsvc.NewHandler(svc, orderMetrics, logger.WithField("layer", "rest"))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler.Router()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает /metrics, /healthz и /livez на отдельном адресе.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
