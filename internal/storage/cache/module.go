package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gophershop/internal/domain/repository"
	"github.com/polkiloo/gophershop/internal/storage/postgres"
)

// Module wires cached repositories over PostgreSQL storage and reconciles
// them from the store at startup.
var Module = fx.Options(
	fx.Provide(
		func(s *postgres.Storage) *Products { return NewProducts(s.Products()) },
		func(s *postgres.Storage) *Orders { return NewOrders(s.Orders()) },
		func(p *Products) repository.ProductRepository { return p },
		func(o *Orders) repository.OrderRepository { return o },
	),
	fx.Invoke(registerWarmup),
)

type warmupParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Products  *Products
	Orders    *Orders
	Logger    *slog.Logger
}

func registerWarmup(p warmupParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Products.Reload(ctx); err != nil {
				return err
			}
			if err := p.Orders.Reload(ctx); err != nil {
				return err
			}
			p.Logger.Info("caches reconciled from store")
			return nil
		},
	})
}
