package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/miscOS/telegram-garbage-bot/internal/app/waste"
	"github.com/miscOS/telegram-garbage-bot/internal/pkg/logx"
)

const updateTimeoutSeconds = 30

// Telegram adapts the Telegram Bot API long-poll update stream to the
// conversation Service. It also implements reminder.Notifier, so scheduled
// reminders go out over the same connection.
type Telegram struct {
	api *tgbotapi.BotAPI
	svc *Service
}

// NewTelegram authenticates against the Telegram Bot API.
func NewTelegram(token string, svc *Service) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the Telegram Bot API: %w", err)
	}

	logx.Info("Connected to Telegram", "bot_username", api.Self.UserName)
	return &Telegram{api: api, svc: svc}, nil
}

// Run consumes the update stream until the context is cancelled. Each update is
// handled sequentially per chat by nature of the stream; distinct chats simply
// interleave.
func (t *Telegram) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = updateTimeoutSeconds

	updates := t.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			logx.Info("Telegram update stream stopped")
			return
		case update := <-updates:
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *Telegram) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	var reply string
	if update.Message.IsCommand() {
		reply = t.svc.HandleCommand(ctx, chatID, update.Message.Command(), strings.TrimSpace(update.Message.CommandArguments()))
	} else {
		reply = t.svc.HandleText(ctx, chatID, update.Message.Text)
	}

	if reply == "" {
		return
	}
	t.send(chatID, reply)
}

// Notify implements reminder.Notifier: it tells the user what is collected
// tomorrow.
func (t *Telegram) Notify(ctx context.Context, userID int64, collection waste.Collection) error {
	text := fmt.Sprintf(
		"Morgen (%s) wird folgendes abgeholt:\n ⋅ %s",
		formatLongDate(collection.Date),
		strings.Join(collection.Categories, "\n ⋅ "),
	)

	msg := tgbotapi.NewMessage(userID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", userID, err)
	}
	return nil
}

func (t *Telegram) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		logx.Error(err, "Failed to send reply", "chat_id", chatID)
	}
}
