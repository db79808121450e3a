package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/gophershop/internal/adapter/telegram"
)

// SentMessage records a chat message captured by TelegramClientStub.
type SentMessage struct {
	ChatID int64
	Text   string
}

// TelegramClientStub implements the bot client contract for tests.
type TelegramClientStub struct {
	mu         sync.Mutex
	Messages   []SentMessage
	SendErr    error
	UpdatesFn  func(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	UpdatesErr error
}

// SendMessage records the outgoing message unless SendErr is set.
func (s *TelegramClientStub) SendMessage(ctx context.Context, chatID int64, text string) error {
	if s.SendErr != nil {
		return s.SendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, SentMessage{ChatID: chatID, Text: text})
	return nil
}

// GetUpdates delegates to UpdatesFn or returns the configured error.
func (s *TelegramClientStub) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error) {
	if s.UpdatesFn != nil {
		return s.UpdatesFn(ctx, offset, timeout)
	}
	return nil, s.UpdatesErr
}

// Sent returns a snapshot of recorded messages.
func (s *TelegramClientStub) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.Messages))
	copy(out, s.Messages)
	return out
}

var _ telegram.Client = (*TelegramClientStub)(nil)
