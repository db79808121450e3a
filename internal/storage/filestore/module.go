package filestore

import (
	"github.com/polkiloo/gophershop/internal/config"
	"github.com/polkiloo/gophershop/internal/domain/repository"
	"go.uber.org/fx"
)

// Module provides the on-disk asset stores via fx.
var Module = fx.Options(
	fx.Provide(newAssetStores),
)

type storesParams struct {
	fx.In

	Config *config.Config
}

func newAssetStores(p storesParams) (repository.AssetStores, error) {
	return NewStores(p.Config.AssetsDir)
}
