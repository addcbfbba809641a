//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"AstroChart/pkg/config"
	"AstroChart/pkg/server"
)

// InitializeApp assembles the full application from configuration.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideCache,
		ProvideMetrics,
		ProvidePositionProvider,
		ProvideEventPublisher,
		ProvideSearcher,
		ProvideChartUsecase,
		ProvideTransitUsecase,
		ProvideBatchUsecase,
		ProvideLimiter,
		ProvideHandler,
		ProvideServer,
		ProvideApp,
	)
	return nil, nil
}
