package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domrepo "Voxmill/internal/domain/repository"
	domsvc "Voxmill/internal/domain/service"
	api "Voxmill/internal/handler/api"
	"Voxmill/internal/intelligence"
	mid "Voxmill/internal/middleware"
	internalrepo "Voxmill/internal/repository"
	icache "Voxmill/internal/service/cache"
	"Voxmill/internal/usecase"
	pkgch "Voxmill/pkg/clickhouse"
	"Voxmill/pkg/config"
	pkgkafka "Voxmill/pkg/kafka"
	applogger "Voxmill/pkg/logger"
	"Voxmill/pkg/metrics"
	"Voxmill/pkg/queue"
	"Voxmill/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "json", Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the
// snapshot schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates the alerts producer, or nil when alert
// delivery is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Alerts.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Alerts.Brokers),
		pkgkafka.WithCompression(cfg.Alerts.Compression),
		pkgkafka.WithRequiredAcks(cfg.Alerts.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Alerts.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Alerts.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Alerts.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Alerts.Producer.WriteTimeout, cfg.Alerts.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Alerts.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Alerts.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideEventStore creates the ClickHouse-backed event store.
func ProvideEventStore(chClient *pkgch.Client, l *applogger.Logger) domrepo.EventStore {
	store := internalrepo.NewCHEventStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideAlertPublisher creates the Kafka alert publisher, or a no-op
// publisher when alert delivery is disabled.
func ProvideAlertPublisher(producer *pkgkafka.Producer, l *applogger.Logger, cfg *config.Config) domrepo.AlertPublisher {
	if producer == nil {
		return internalrepo.NopAlertPublisher{}
	}
	p := internalrepo.NewKafkaAlertPublisher(producer, cfg.Alerts.Topic)
	p.SetLogger(l)
	return p
}

// ProvideAlertPipeline builds the validation/throttle/buffer stage in front
// of the broker.
func ProvideAlertPipeline(publisher domrepo.AlertPublisher, m domrepo.Metrics) *mid.AlertPipeline {
	return mid.NewAlertPipeline(publisher, m,
		mid.WithMaxPerMinute(30),
		mid.WithBufferSize(500),
	)
}

// ProvideAlertService creates the velocity alert detector.
func ProvideAlertService(pipeline *mid.AlertPipeline, l *applogger.Logger) *usecase.AlertService {
	s := usecase.NewAlertService(pipeline)
	s.SetLogger(l)
	return s
}

// ProvideIntelligence wires the domain services into the aggregator.
func ProvideIntelligence(store domrepo.EventStore, m domrepo.Metrics, l *applogger.Logger) *usecase.IntelligenceAggregator {
	var (
		profiler domsvc.Profiler           = intelligence.NewBehavioralProfiler()
		network  domsvc.NetworkBuilder     = intelligence.NewGraphBuilder()
		cascade  domsvc.CascadeSimulator   = intelligence.NewChainSimulator()
		velocity domsvc.VelocityCalculator = intelligence.NewFlowMeter()
		windows  domsvc.WindowPredictor    = intelligence.NewWindowOracle()
		clusters domsvc.Clusterer          = intelligence.NewPackDetector()
	)
	agg := usecase.NewIntelligenceAggregator(store, profiler, network, cascade, velocity, windows, clusters)
	agg.SetMetrics(m)
	agg.SetLogger(l)
	return agg
}

// ProvideOverview creates the aggregate view use case.
func ProvideOverview(agg *usecase.IntelligenceAggregator) *usecase.OverviewUseCase {
	return usecase.NewOverviewUseCase(agg)
}

// ProvideAvailability creates the data availability use case.
func ProvideAvailability(store domrepo.EventStore) *usecase.AvailabilityUseCase {
	return usecase.NewAvailabilityUseCase(store)
}

// ProvideCache selects the result cache backend. Redis when enabled, an
// in-process TTL cache otherwise.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideScanQueue creates the Redis-backed scan queue, or nil when the
// scanner is disabled.
func ProvideScanQueue(cfg *config.Config, l *applogger.Logger, scanner *usecase.MarketScanner) *queue.RedisQueue {
	if !cfg.Scanner.Enabled || !cfg.Redis.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	workers := cfg.Scanner.Workers
	if workers <= 0 {
		workers = 2
	}
	qcfg := &queue.QueueConfig{Workers: workers, RetryLimit: 3, RetryDelay: 30 * time.Second}
	q := queue.NewRedisQueue(l, qcfg, client, queue.WithKeyPrefix("voxmill:scan"))
	q.RegisterJob(usecase.NewScanJob(scanner, l))
	return q
}

// ProvideMarketScanner creates the snapshot-diff scanner.
func ProvideMarketScanner(store domrepo.EventStore, publisher domrepo.AlertPublisher, l *applogger.Logger) *usecase.MarketScanner {
	s := usecase.NewMarketScanner(store, publisher)
	s.SetLogger(l)
	return s
}

// ProvideScanScheduler creates the periodic scan scheduler, or nil when
// the scan queue is absent.
func ProvideScanScheduler(q *queue.RedisQueue, cfg *config.Config) *usecase.ScanScheduler {
	if q == nil {
		return nil
	}
	return usecase.NewScanScheduler(q, cfg.Intelligence.Areas, cfg.Scanner.Interval)
}

// ProvideHandler creates the intelligence HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	agg *usecase.IntelligenceAggregator,
	overview *usecase.OverviewUseCase,
	availability *usecase.AvailabilityUseCase,
	alerts *usecase.AlertService,
	cache icache.BytesCache,
	m domrepo.Metrics,
	cfg *config.Config,
) *api.IntelligenceHandler {
	h := api.NewIntelligenceHandler(l, agg, overview, availability, alerts)
	h.SetCache(cache, api.CacheTTLs{
		Profile:  cfg.Intelligence.CacheTTL.Profile,
		Network:  cfg.Intelligence.CacheTTL.Network,
		Velocity: cfg.Intelligence.CacheTTL.Velocity,
		Windows:  cfg.Intelligence.CacheTTL.Windows,
		Clusters: cfg.Intelligence.CacheTTL.Clusters,
	})
	h.SetMetrics(m)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.IntelligenceHandler,
	chClient *pkgch.Client,
	publisher domrepo.AlertPublisher,
	pipeline *mid.AlertPipeline,
	scanQueue *queue.RedisQueue,
	scheduler *usecase.ScanScheduler,
) *server.App {
	return server.New(cfg, l, handler, chClient, publisher, pipeline, scanQueue, scheduler)
}
