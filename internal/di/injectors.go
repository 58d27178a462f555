//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"punchd/internal"
	"punchd/internal/controllers"
	"punchd/internal/providers"
	"punchd/internal/services"
	"punchd/internal/settings"
	"punchd/internal/slack"
	"punchd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewTokenProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		settings.NewZstdCompressor,
		settings.NewArchive,
		settings.NewStore,

		slack.NewClient,

		services.NewLifecycleService,
		services.NewResolverService,
		services.NewPunchService,
		services.NewRefreshScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
