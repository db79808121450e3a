package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/polkiloo/gophershop/internal/adapter/telegram"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/model"
)

const pollRetryDelay = 10 * time.Second

// ClaimFacade exposes the subset of application functionality required by the poller.
type ClaimFacade interface {
	Claim(ctx context.Context, code string, chatID int64, username string) (*model.Order, error)
}

// BotPoller long-polls the chat platform and pairs orders to buyer chats.
type BotPoller struct {
	client      telegram.Client
	facade      ClaimFacade
	pollTimeout time.Duration
	logger      *slog.Logger

	offset int64
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewBotPoller constructs the chat poller. A nil client disables it.
func NewBotPoller(client telegram.Client, facade ClaimFacade, pollTimeout time.Duration, logger *slog.Logger) *BotPoller {
	if pollTimeout <= 0 {
		pollTimeout = 25 * time.Second
	}
	return &BotPoller{
		client:      client,
		facade:      facade,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Start launches the background polling loop.
func (p *BotPoller) Start(ctx context.Context) {
	if p.client == nil {
		p.logger.Info("chat bot disabled, poller not started")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.poll(runCtx)
}

// Stop waits for the polling loop to finish.
func (p *BotPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *BotPoller) poll(ctx context.Context) {
	defer p.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := p.client.GetUpdates(ctx, p.offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("poll updates failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= p.offset {
				p.offset = update.UpdateID + 1
			}
			p.handleUpdate(ctx, update)
		}
	}
}

func (p *BotPoller) handleUpdate(ctx context.Context, update telegram.Update) {
	message := update.Message
	if message == nil || message.Text == "" {
		return
	}

	text := strings.TrimSpace(message.Text)
	switch {
	case strings.HasPrefix(text, "/start"):
		p.reply(ctx, message.Chat.ID,
			"Welcome! To link an order, please find your unique /claim command on the order page of our website.")
	case strings.HasPrefix(strings.ToLower(text), "/claim"):
		p.handleClaim(ctx, message, text)
	}
}

func (p *BotPoller) handleClaim(ctx context.Context, message *telegram.Message, text string) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		p.reply(ctx, message.Chat.ID, "Error: Invalid command format. Please use the format: /claim YOUR_CODE")
		return
	}

	username := ""
	if message.From != nil {
		username = message.From.Username
	}

	order, err := p.facade.Claim(ctx, fields[1], message.Chat.ID, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			p.reply(ctx, message.Chat.ID, "Error: Invalid claim code. Please copy the command exactly from your order page.")
			return
		}
		p.logger.Error("claim failed",
			slog.Int64("chat_id", message.Chat.ID),
			slog.String("error", err.Error()),
		)
		p.reply(ctx, message.Chat.ID, "An unexpected server error occurred. Please try again or contact support.")
		return
	}

	p.reply(ctx, message.Chat.ID, fmt.Sprintf(
		"Success! Your account has been linked to the order for '%s'. You will receive your file here as soon as payment is approved.",
		order.ProductName,
	))
}

func (p *BotPoller) reply(ctx context.Context, chatID int64, text string) {
	if err := p.client.SendMessage(ctx, chatID, text); err != nil {
		p.logger.Warn("bot reply failed", slog.Int64("chat_id", chatID), slog.String("error", err.Error()))
	}
}
