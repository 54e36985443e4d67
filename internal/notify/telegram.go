package notify

import (
	"context"
	"fmt"

	"barber_backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier пишет в личный чат администратора
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NewTelegramNotifierWithEndpoint - для собственного Bot API сервера и тестов.
// endpoint в формате tgbotapi.APIEndpoint: "https://host/bot%s/%s"
func NewTelegramNotifierWithEndpoint(token, endpoint string, client tgbotapi.HTTPClient, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) Channel() string { return "telegram" }

func (t *TelegramNotifier) NotifyNewVisit(_ context.Context, visit *models.Visit) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatVisitMessage(visit))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
