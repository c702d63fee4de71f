// Package notify pushes moderation alerts to the staff channel. Delivery is
// best-effort: a failed alert is logged and never propagated to the caller.
package notify

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends moderation alerts to a fixed staff chat.
type TelegramNotifier struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
}

// NewTelegramNotifier authenticates the bot. Returns an error when the token
// is rejected; configure an empty token to run without alerting.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("INFO: moderation alerts authorized on account %s", bot.Self.UserName)

	return &TelegramNotifier{BotAPI: bot, ChatID: chatID}, nil
}

// ModerationAlert delivers one alert to the staff chat.
func (n *TelegramNotifier) ModerationAlert(text string) {
	msg := tgbotapi.NewMessage(n.ChatID, text)
	if _, err := n.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: failed to deliver moderation alert: %v", err)
	}
}
