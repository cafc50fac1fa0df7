package di

import (
	"context"
	"fmt"
	"time"

	domainrepo "AlertHub/internal/domain/repository"
	"AlertHub/internal/handler/api"
	internalrepo "AlertHub/internal/repository"
	"AlertHub/internal/scheduler"
	"AlertHub/internal/service/coinlist"
	"AlertHub/internal/service/kline"
	"AlertHub/internal/service/telegram"
	"AlertHub/internal/services/alerting"
	"AlertHub/internal/usecase"
	pkgch "AlertHub/pkg/clickhouse"
	"AlertHub/pkg/config"
	xhttp "AlertHub/pkg/http"
	pkgkafka "AlertHub/pkg/kafka"
	applogger "AlertHub/pkg/logger"
	"AlertHub/pkg/metrics"
	"AlertHub/pkg/redisdb"
	"AlertHub/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideRedisClient connects to Redis.
func ProvideRedisClient(cfg *config.Config) (*redisdb.Client, error) {
	client, err := redisdb.New(
		redisdb.WithAddr(cfg.Redis.Addr),
		redisdb.WithPassword(cfg.Redis.Password),
		redisdb.WithDB(cfg.Redis.DB),
		redisdb.WithPoolSize(cfg.Redis.PoolSize),
		redisdb.WithDialWait(cfg.Redis.DialWait),
	)
	if err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	return client, nil
}

// ProvideAlertStore creates the Redis-backed alert store.
func ProvideAlertStore(client *redisdb.Client, cfg *config.Config) domainrepo.AlertStore {
	return internalrepo.NewRedisAlertStore(client, cfg.Redis.KeyPrefix)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when the
// history log is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideTriggerLog creates the ClickHouse trigger history, or nil when
// ClickHouse is disabled.
func ProvideTriggerLog(ch *pkgch.Client, l *applogger.Logger) (domainrepo.TriggerLog, error) {
	if ch == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log, err := internalrepo.NewCHTriggerLog(ctx, ch, l)
	if err != nil {
		return nil, err
	}
	return log, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when the event
// stream is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideTriggerPublisher creates the Kafka trigger publisher, or nil when
// Kafka is disabled.
func ProvideTriggerPublisher(producer *pkgkafka.Producer, cfg *config.Config) domainrepo.TriggerPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaTriggerPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domainrepo.Metrics {
	return metrics.New()
}

// ProvideNotifier creates the Telegram notifier.
func ProvideNotifier(cfg *config.Config, l *applogger.Logger) domainrepo.Notifier {
	return telegram.NewSender(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		cfg.Market.Timeframe,
		cfg.Telegram.Enabled,
		l,
	)
}

// ProvideEvaluator creates the alert evaluator.
func ProvideEvaluator(cfg *config.Config) *alerting.Evaluator {
	return alerting.NewEvaluator(cfg.Market.QuoteSuffix)
}

// ProvideAlertChecker creates the evaluation orchestrator.
func ProvideAlertChecker(
	store domainrepo.AlertStore,
	notifier domainrepo.Notifier,
	log domainrepo.TriggerLog,
	publisher domainrepo.TriggerPublisher,
	m domainrepo.Metrics,
	evaluator *alerting.Evaluator,
	l *applogger.Logger,
) *usecase.AlertChecker {
	return usecase.NewAlertChecker(store, notifier, log, publisher, m, evaluator, l)
}

// ProvideCoinListClient creates the coin universe client.
func ProvideCoinListClient(cfg *config.Config, l *applogger.Logger) *coinlist.Client {
	return coinlist.NewClient(
		cfg.Market.CoinSifterURL,
		cfg.Market.AuthToken,
		cfg.Market.CoinCacheTTL,
		l,
	)
}

// ProvideKlineFetcher creates the exchange snapshot fetcher.
func ProvideKlineFetcher(cfg *config.Config, l *applogger.Logger) *kline.Fetcher {
	return kline.NewFetcher(l,
		kline.WithTimeframe(cfg.Market.Timeframe),
		kline.WithLimit(cfg.Market.KlineLimit),
		kline.WithBatch(cfg.Market.BatchSize, cfg.Market.BatchDelay),
		kline.WithTimeout(cfg.Market.FetchTimeout),
	)
}

// ProvideMarketJob creates the hourly pipeline.
func ProvideMarketJob(coins *coinlist.Client, fetcher *kline.Fetcher, checker *usecase.AlertChecker, l *applogger.Logger) *usecase.MarketJob {
	return usecase.NewMarketJob(coins, fetcher, checker, l)
}

// ProvideCleanupJob creates the triggered-records cleanup job.
func ProvideCleanupJob(store domainrepo.AlertStore, cfg *config.Config, l *applogger.Logger) *usecase.CleanupJob {
	return usecase.NewCleanupJob(store, cfg.Jobs.TriggeredTTL, l)
}

// ProvideScheduler creates the cron scheduler.
func ProvideScheduler(marketJob *usecase.MarketJob, cleanup *usecase.CleanupJob, m domainrepo.Metrics, cfg *config.Config, l *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(marketJob, cleanup, m, cfg.Market.Timeframe, l)
}

// ProvideHTTPHandler creates the alert CRUD handler.
func ProvideHTTPHandler(l *applogger.Logger, store domainrepo.AlertStore) xhttp.Handler {
	return api.NewAlertsEchoHandler(l, store)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(handler xhttp.Handler, cfg *config.Config, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(handler, l,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		xhttp.WithMetrics(cfg.Metrics.Enabled),
	)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	store domainrepo.AlertStore,
	publisher domainrepo.TriggerPublisher,
	chClient *pkgch.Client,
	sched *scheduler.Scheduler,
	httpServer *xhttp.Server,
) *server.App {
	return server.New(cfg, l, store, publisher, chClient, sched, httpServer)
}
