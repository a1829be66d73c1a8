//go:build wireinject
// +build wireinject

package di

import (
	"Voxmill/pkg/config"
	"Voxmill/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Foundation
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideEventStore,
		ProvideAlertPublisher,

		// Alert delivery
		ProvideAlertPipeline,
		ProvideAlertService,

		// Use cases
		ProvideIntelligence,
		ProvideOverview,
		ProvideAvailability,
		ProvideMarketScanner,
		ProvideScanQueue,
		ProvideScanScheduler,

		// HTTP
		ProvideCache,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
