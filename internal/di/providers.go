package di

import (
	"context"
	"fmt"
	"time"

	"SwingSight/internal/domain/repository"
	"SwingSight/internal/handler/api"
	internalrepo "SwingSight/internal/repository"
	"SwingSight/internal/services/structure"
	"SwingSight/internal/usecase"
	"SwingSight/pkg/cache"
	pkgch "SwingSight/pkg/clickhouse"
	"SwingSight/pkg/config"
	xhttp "SwingSight/pkg/http"
	pkgkafka "SwingSight/pkg/kafka"
	"SwingSight/pkg/logger"
	"SwingSight/pkg/metrics"
	"SwingSight/pkg/queue"
	"SwingSight/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client and runs schema DDL.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideCandleStore creates the ClickHouse candle store.
func ProvideCandleStore(chClient *pkgch.Client, log *logger.Logger) repository.CandleStore {
	store := internalrepo.NewCHCandleStore(chClient)
	store.SetLogger(log)
	return store
}

// ProvideSignalJournal creates the ClickHouse signal journal.
func ProvideSignalJournal(chClient *pkgch.Client) repository.SignalJournal {
	return internalrepo.NewCHSignalJournal(chClient)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher, or nil.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	if producer == nil || cfg.Kafka.SignalsTopic == "" {
		return nil
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideKafkaConsumer creates the candle-ingest consumer, or nil.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.CandlesTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the analysis cache from config: memory by default,
// redis or layered when a Redis host is configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	backend := cfg.Cache.Backend
	if backend == "" {
		backend = "memory"
	}
	switch backend {
	case "memory":
		opts := []cache.MemoryOption{}
		if cfg.Cache.MemoryMaxSize > 0 {
			opts = append(opts, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
		}
		return cache.NewMemoryCache(opts...), nil
	case "redis":
		return newRedisCache(cfg)
	case "layered":
		rc, err := newRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		opts := []cache.LayeredOption{}
		if cfg.Cache.MemoryMaxSize > 0 {
			opts = append(opts, cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize))
		}
		return cache.NewLayeredCache(rc, opts...), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}

func newRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	return cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
}

// ProvideStructureEngine creates the stateless analysis engine.
func ProvideStructureEngine() *structure.Engine {
	return structure.NewEngine()
}

// ProvideStructureUseCase wires the analysis pipeline.
func ProvideStructureUseCase(
	store repository.CandleStore,
	engine *structure.Engine,
	cacheSvc cache.Service,
	m repository.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.StructureUseCase {
	return usecase.NewStructureUseCase(store, engine, cacheSvc, m, log, cfg.Analysis.CacheTTL)
}

// ProvideCandlesUseCase wires candle retrieval.
func ProvideCandlesUseCase(store repository.CandleStore) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(store)
}

// ProvideSignalUseCase wires signal derivation and journaling.
func ProvideSignalUseCase(
	journal repository.SignalJournal,
	publisher repository.SignalPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.SignalUseCase {
	return usecase.NewSignalUseCase(journal, publisher, m, log)
}

// ProvideStreamHub creates the websocket push hub.
func ProvideStreamHub(log *logger.Logger, structureUC *usecase.StructureUseCase) *api.StreamHub {
	return api.NewStreamHub(log, structureUC)
}

// ProvideCSVImportJob creates the queued CSV ingest job. Completed
// imports invalidate cached analyses and wake stream subscribers.
func ProvideCSVImportJob(
	store repository.CandleStore,
	m repository.Metrics,
	log *logger.Logger,
	structureUC *usecase.StructureUseCase,
	hub *api.StreamHub,
) *usecase.CSVImportJob {
	return usecase.NewCSVImportJob(store, m, log, func(ctx context.Context, symbol string) {
		structureUC.Invalidate(ctx, symbol)
		hub.Notify(symbol)
	})
}

// ProvideJobQueue builds the Redis-backed job queue when Redis is
// configured; otherwise jobs run inline in the request goroutine.
func ProvideJobQueue(
	cfg *config.Config,
	log *logger.Logger,
	importJob *usecase.CSVImportJob,
) (queue.QueueService, *queue.RedisQueue) {
	jobs := []queue.Job{importJob}
	if cfg.Cache.Redis.Host == "" {
		return newInlineJobRunner(jobs), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	rq := queue.NewRedisQueue(log, &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}, client, queue.ModeProducerConsumer)
	rq.RegisterJobs(jobs)
	return rq, rq
}

// inlineJobRunner executes jobs synchronously. Used in setups without
// Redis, where losing queue durability is an accepted trade.
type inlineJobRunner struct {
	jobs map[string]queue.Job
}

func newInlineJobRunner(jobs []queue.Job) *inlineJobRunner {
	m := make(map[string]queue.Job, len(jobs))
	for _, j := range jobs {
		m[j.Type()] = j
	}
	return &inlineJobRunner{jobs: m}
}

func (r *inlineJobRunner) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	job, ok := r.jobs[msgType]
	if !ok {
		return fmt.Errorf("no job registered for type: %s", msgType)
	}
	return job.Handle(ctx, payload)
}

// ProvideKafkaCandlesHandler registers the handler for the candles topic.
func ProvideKafkaCandlesHandler(
	store repository.CandleStore,
	m repository.Metrics,
	cfg *config.Config,
	structureUC *usecase.StructureUseCase,
	hub *api.StreamHub,
) *usecase.KafkaCandlesHandler {
	return usecase.NewKafkaCandlesHandler(cfg.Kafka.CandlesTopic, store, m, func(ctx context.Context, symbol string) {
		structureUC.Invalidate(ctx, symbol)
		hub.Notify(symbol)
	})
}

// ProvideStructureHandler creates the REST handler.
func ProvideStructureHandler(
	log *logger.Logger,
	structureUC *usecase.StructureUseCase,
	candlesUC *usecase.CandlesUseCase,
	signalsUC *usecase.SignalUseCase,
	jobs queue.QueueService,
) *api.StructureHandler {
	return api.NewStructureHandler(log, structureUC, candlesUC, signalsUC, jobs)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	chClient *pkgch.Client,
	consumer *pkgkafka.Consumer,
	candlesHandler *usecase.KafkaCandlesHandler,
	producer *pkgkafka.Producer,
	jobQueue *queue.RedisQueue,
	restHandler *api.StructureHandler,
	hub *api.StreamHub,
) *server.App {
	var kh pkgkafka.MessageHandler
	if consumer != nil {
		kh = candlesHandler
	}
	handlers := []xhttp.Handler{restHandler, hub}
	return server.New(cfg, log, chClient, consumer, kh, producer, jobQueue, handlers...)
}
