package telegram

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/gophershop/internal/config"
)

// Module exposes the bot client and notifier to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(newNotifier),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// newClient returns nil when no bot token is configured; the notifier and
// poller treat a nil client as "bot disabled".
func newClient(p clientParams) (Client, error) {
	if p.Config.TelegramToken == "" {
		return nil, nil
	}
	return NewHTTPClient(p.Config.TelegramAPIBase, p.Config.TelegramToken, p.Logger)
}

type notifierParams struct {
	fx.In

	Client Client `optional:"true"`
	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) *Notifier {
	return NewNotifier(p.Client, p.Config.TelegramAdminChatID, p.Logger)
}
