package components

import (
	"artisan-store/internal/domain/order"
	"artisan-store/internal/infra/cache"
	"artisan-store/internal/pkg/clock"
	"artisan-store/internal/pkg/config"
	"artisan-store/internal/usecase"
	"artisan-store/internal/usecase/commands"
	"artisan-store/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) *order.Factory {
		return order.NewFactory(cfg.Currency.Active)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCategoryCommands,
		commands.NewProductCommands,
		commands.NewOfferCommands,
		commands.NewCouponCommands,
		commands.NewCartCommands,
		commands.NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(rs queries.ProductReadStore, c cache.Cache, cfg config.Config) queries.ProductQueries {
			return queries.NewProductQueries(rs, c, cfg.Redis.TTL)
		},
		func(rs queries.CategoryReadStore, c cache.Cache, cfg config.Config) queries.CategoryQueries {
			return queries.NewCategoryQueries(rs, c, cfg.Redis.TTL)
		},
		queries.NewOfferQueries,
		queries.NewCouponQueries,
		queries.NewOrderQueries,
		queries.NewCartQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
