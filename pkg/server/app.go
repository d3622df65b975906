package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgch "SwingSight/pkg/clickhouse"
	"SwingSight/pkg/config"
	xhttp "SwingSight/pkg/http"
	pkgkafka "SwingSight/pkg/kafka"
	applogger "SwingSight/pkg/logger"
	"SwingSight/pkg/queue"

	"github.com/labstack/echo/v4"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg            *config.Config
	log            *applogger.Logger
	chClient       *pkgch.Client
	consumer       *pkgkafka.Consumer
	candlesHandler pkgkafka.MessageHandler
	producer       *pkgkafka.Producer
	jobQueue       *queue.RedisQueue
	handlers       []xhttp.Handler
	httpServer     *xhttp.Server
}

// New creates a new App instance with all dependencies. Consumer,
// producer, and job queue may be nil when their backing services are not
// configured; the app runs without them.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	chClient *pkgch.Client,
	consumer *pkgkafka.Consumer,
	candlesHandler pkgkafka.MessageHandler,
	producer *pkgkafka.Producer,
	jobQueue *queue.RedisQueue,
	handlers ...xhttp.Handler,
) *App {
	return &App{
		cfg:            cfg,
		log:            log,
		chClient:       chClient,
		consumer:       consumer,
		candlesHandler: candlesHandler,
		producer:       producer,
		jobQueue:       jobQueue,
		handlers:       handlers,
	}
}

// multiHandler fans route registration out to each handler.
type multiHandler []xhttp.Handler

func (m multiHandler) RegisterRoutes(e *echo.Echo) {
	for _, h := range m {
		h.RegisterRoutes(e)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Aggregate noisy logs onto Kafka when a logs topic is configured.
	if a.producer != nil && a.cfg.Kafka.LogsTopic != "" {
		a.log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          a.cfg.Kafka.LogsTopic,
			Publisher:      kafkaLogPublisher{producer: a.producer},
		})
	}

	a.httpServer = xhttp.NewServer(multiHandler(a.handlers),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start queue workers for background imports
	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			a.log.Error("job queue start error", applogger.Error(err))
			return err
		}
		a.jobQueue.StartRetryProcessor()
		a.log.Info("job queue started", applogger.Int("workers", a.cfg.Queue.Workers))
	}

	// Start candle consumer if configured
	if a.consumer != nil && a.candlesHandler != nil {
		a.consumer.RegisterHandler(a.candlesHandler)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.candlesHandler.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.jobQueue != nil {
		if err := a.jobQueue.Stop(shutdownCtx); err != nil {
			a.log.Warn("job queue stop error", applogger.Error(err))
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.RemoveCollector()
	a.log.Info("shutdown complete")
	return nil
}

// kafkaLogPublisher adapts the Kafka producer to the collector's
// publisher interface.
type kafkaLogPublisher struct {
	producer *pkgkafka.Producer
}

func (p kafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
