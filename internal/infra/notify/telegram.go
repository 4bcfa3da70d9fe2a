// Package notify delivers operational messages over Telegram: session
// reminders to the subscriber channel and enrollment notices to the admin
// chat. The bot is optional; an unconfigured token yields a nil *Telegram
// and every method no-ops on nil.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jmrivas/tradeacademy/internal/domain/sessions"
)

type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram init: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

func (t *Telegram) send(text string) error {
	if t == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return err
	}
	return nil
}

func (t *Telegram) SessionStartingSoon(_ context.Context, s sessions.Session, at time.Time) error {
	return t.send(fmt.Sprintf(
		"La sesión en vivo «%s» (%s) comienza a las %s.",
		s.Title, s.Service, at.Format("15:04 MST, 02/01/2006"),
	))
}

func (t *Telegram) EnrollmentPaid(_ context.Context, email, service string, amountUSD float64) error {
	return t.send(fmt.Sprintf(
		"Nueva inscripción: %s → %s ($%.2f).",
		email, service, amountUSD,
	))
}
