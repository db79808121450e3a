package di

import (
	"github.com/polkiloo/gophershop/internal/adapter/rates"
	"github.com/polkiloo/gophershop/internal/adapter/telegram"
	"github.com/polkiloo/gophershop/internal/app"
	"github.com/polkiloo/gophershop/internal/config"
	"github.com/polkiloo/gophershop/internal/delivery"
	"github.com/polkiloo/gophershop/internal/logger"
	"github.com/polkiloo/gophershop/internal/pkg/auth"
	"github.com/polkiloo/gophershop/internal/server/http/handlers"
	"github.com/polkiloo/gophershop/internal/server/http/router"
	"github.com/polkiloo/gophershop/internal/storage/cache"
	"github.com/polkiloo/gophershop/internal/storage/filestore"
	"github.com/polkiloo/gophershop/internal/storage/postgres"
	"github.com/polkiloo/gophershop/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		cache.Module,
		filestore.Module,
		telegram.Module,
		rates.Module,
		delivery.Module,
		usecase.Module,
		fx.Provide(func(f *app.ShopFacade) handlers.ShopFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
