package components

import (
	"artisan-store/internal/handler"
	"artisan-store/internal/handler/api"
	"artisan-store/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCatalogHandler,
		api.NewCartHandler,
		api.NewCouponHandler,
		api.NewOfferHandler,
		api.NewOrderHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func newHandlers(
	auth *api.AuthHandler,
	catalog *api.CatalogHandler,
	cart *api.CartHandler,
	coupon *api.CouponHandler,
	offer *api.OfferHandler,
	order *api.OrderHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:    auth,
		Catalog: catalog,
		Cart:    cart,
		Coupon:  coupon,
		Offer:   offer,
		Order:   order,
	}
}
