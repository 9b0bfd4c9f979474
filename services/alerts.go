package services

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AlertServiceProvider delivers ops alerts (subscription events, repeated
// generation failures) to the team chat. Best effort, never blocks the
// request path on failure.
type AlertServiceProvider interface {
	Notify(text string)
}

type TelegramAlertService struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramAlertService() (*TelegramAlertService, error) {
	token := GetEnv("TG_ALERT_BOT_TOKEN", "")
	if token == "" {
		return nil, fmt.Errorf("TG_ALERT_BOT_TOKEN is not set")
	}
	chatID, err := strconv.ParseInt(GetEnv("TG_ALERT_CHAT_ID", "0"), 10, 64)
	if err != nil || chatID == 0 {
		return nil, fmt.Errorf("TG_ALERT_CHAT_ID is not set")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramAlertService{bot: bot, chatID: chatID}, nil
}

func (s *TelegramAlertService) Notify(text string) {
	if _, err := s.bot.Send(tgbotapi.NewMessage(s.chatID, text)); err != nil {
		fmt.Println("Error sending telegram alert:", err)
	}
}
