package delivery

import (
	"github.com/polkiloo/gophershop/internal/domain/repository"
	"go.uber.org/fx"
)

// Module provides the delivery packager via fx.
var Module = fx.Options(
	fx.Provide(newPackager),
)

type packagerParams struct {
	fx.In

	Stores repository.AssetStores
}

func newPackager(p packagerParams) *Packager {
	return NewPackager(p.Stores.Files)
}
