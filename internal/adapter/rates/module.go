package rates

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gophershop/internal/config"
)

// Module exposes the rate provider to the fx graph.
var Module = fx.Provide(newProvider)

type providerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newProvider(p providerParams) (Provider, error) {
	return NewHTTPClient(
		p.Config.RateServiceURL,
		p.Config.RateCurrency,
		p.Config.RateFallback,
		p.Config.RateTTL,
		p.Logger,
	)
}
