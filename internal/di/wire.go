//go:build wireinject
// +build wireinject

package di

import (
	"SwingSight/pkg/config"
	"SwingSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideCandleStore,
		ProvideSignalJournal,
		ProvideSignalPublisher,

		// Engine and use cases
		ProvideStructureEngine,
		ProvideStructureUseCase,
		ProvideCandlesUseCase,
		ProvideSignalUseCase,

		// Jobs and handlers
		ProvideStreamHub,
		ProvideCSVImportJob,
		ProvideJobQueue,
		ProvideKafkaCandlesHandler,
		ProvideStructureHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
