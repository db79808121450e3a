package telegram

import (
	"context"
	"log/slog"
)

// Notifier pushes best-effort chat notifications. A nil client disables it;
// failures are logged and never surface to callers.
type Notifier struct {
	client      Client
	adminChatID int64
	logger      *slog.Logger
}

// NewNotifier constructs Notifier. client may be nil when the bot is not configured.
func NewNotifier(client Client, adminChatID int64, logger *slog.Logger) *Notifier {
	return &Notifier{client: client, adminChatID: adminChatID, logger: logger}
}

// NotifyAdmin sends text to the configured admin chat.
func (n *Notifier) NotifyAdmin(ctx context.Context, text string) {
	if n.adminChatID == 0 {
		return
	}
	n.NotifyChat(ctx, n.adminChatID, text)
}

// NotifyChat sends text to an arbitrary chat.
func (n *Notifier) NotifyChat(ctx context.Context, chatID int64, text string) {
	if n.client == nil || chatID == 0 {
		return
	}
	if err := n.client.SendMessage(ctx, chatID, text); err != nil {
		n.logger.Warn("chat notification failed",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}
