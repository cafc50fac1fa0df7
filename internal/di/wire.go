//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"AlertHub/pkg/config"
	"AlertHub/pkg/server"
)

// InitializeApp wires the full application dependency graph.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideRedisClient,
		ProvideAlertStore,
		ProvideClickHouseClient,
		ProvideTriggerLog,
		ProvideKafkaProducer,
		ProvideTriggerPublisher,
		ProvideMetrics,
		ProvideNotifier,
		ProvideEvaluator,
		ProvideAlertChecker,
		ProvideCoinListClient,
		ProvideKlineFetcher,
		ProvideMarketJob,
		ProvideCleanupJob,
		ProvideScheduler,
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil
}
